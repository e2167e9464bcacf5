package validation

import (
	"fmt"
	"strings"

	"github.com/yungbote/mavedb-backend/internal/domain"
)

var (
	dnaAlphabet     = "ACGTN"
	proteinAlphabet = "ACDEFGHIKLMNPQRSTVWYX*"
)

func Category(v string) error {
	switch v {
	case domain.CategoryProteinCoding, domain.CategoryRegulatory, domain.CategoryOtherNoncoding:
		return nil
	}
	return fmt.Errorf("%s is not a valid target category. Valid categories are %s, %s, and %s",
		v, domain.CategoryProteinCoding, domain.CategoryRegulatory, domain.CategoryOtherNoncoding)
}

func SequenceType(v string) error {
	switch v {
	case domain.SequenceTypeDNA, domain.SequenceTypeProtein:
		return nil
	}
	return fmt.Errorf("'%s' is not a valid sequence type. Valid sequence types are %s and %s",
		v, domain.SequenceTypeDNA, domain.SequenceTypeProtein)
}

// Sequence checks seq against the alphabet of seqType. Unknown types are left to SequenceType.
func Sequence(seqType, seq string) error {
	var alphabet string
	switch seqType {
	case domain.SequenceTypeDNA:
		alphabet = dnaAlphabet
	case domain.SequenceTypeProtein:
		alphabet = proteinAlphabet
	default:
		return nil
	}
	if seq == "" {
		return fmt.Errorf("invalid %s sequence provided", seqType)
	}
	for _, r := range strings.ToUpper(seq) {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid %s sequence provided", seqType)
		}
	}
	return nil
}
