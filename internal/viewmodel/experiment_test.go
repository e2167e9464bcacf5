package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/mavedb-backend/internal/domain"
)

func TestExperimentScoreSetURNsFollowVisibility(t *testing.T) {
	ownerID, otherID := int64(1), int64(2)
	exp := &domain.Experiment{
		ID: 1, URN: "urn:mavedb:00000001-a",
		ScoreSets: []*domain.ScoreSet{
			{URN: "urn:mavedb:00000001-a-1", Private: false, CreatedByID: &ownerID},
			{URN: "urn:mavedb:00000001-a-2", Private: true, CreatedByID: &ownerID},
			{URN: "urn:mavedb:00000001-a-3", Private: true, CreatedByID: &otherID},
		},
	}
	owner := &domain.User{ID: ownerID}
	admin := &domain.User{ID: 99, IsSuperuser: true}

	assert.Equal(t, []string{"urn:mavedb:00000001-a-1"}, NewExperiment(exp).ScoreSetURNs)
	assert.Equal(t, []string{"urn:mavedb:00000001-a-1"}, NewExperimentFor(exp, nil).ScoreSetURNs)
	assert.Equal(t,
		[]string{"urn:mavedb:00000001-a-1", "urn:mavedb:00000001-a-2"},
		NewExperimentFor(exp, owner).ScoreSetURNs)
	assert.Len(t, NewExperimentFor(exp, admin).ScoreSetURNs, 3)
	assert.Len(t, NewAdminExperiment(exp).ScoreSetURNs, 3)

	ss := &domain.ScoreSet{URN: "urn:mavedb:00000001-a-1", Experiment: exp}
	assert.Len(t, NewScoreSet(ss).Experiment.ScoreSetURNs, 1)
	assert.Len(t, NewAdminScoreSet(ss).Experiment.ScoreSetURNs, 3)
}
