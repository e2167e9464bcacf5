package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstraintClassification(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		unique bool
		fk     bool
	}{
		{"nil", nil, false, false},
		{"gorm duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true, false},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, false, true},
		{"pg unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, true, false},
		{"pg foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, false, true},
		{"pg other", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, false, false},
		{"sqlite unique", errors.New("UNIQUE constraint failed: score_sets.urn"), true, false},
		{"plain", errors.New("connection reset"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.unique, IsUniqueViolation(tc.err))
			assert.Equal(t, tc.fk, IsForeignKeyViolation(tc.err))
			assert.Equal(t, tc.unique || tc.fk, IsConflict(tc.err))
		})
	}
}
