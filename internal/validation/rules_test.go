package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURNs(t *testing.T) {
	assert.NoError(t, ExperimentSetURN("urn:mavedb:00000001"))
	assert.NoError(t, ExperimentURN("urn:mavedb:00000001-a"))
	assert.NoError(t, ExperimentURN("urn:mavedb:00000001-ab"))
	assert.NoError(t, ScoreSetURN("urn:mavedb:00000001-a-1"))
	assert.NoError(t, ScoreSetURN("tmp:ABCDEFGHijklmnop"))
	assert.NoError(t, VariantURN("urn:mavedb:00000001-a-1#12"))

	err := ExperimentURN("urn:mavedb:00000001-a-1")
	require.Error(t, err)
	assert.Equal(t, "'urn:mavedb:00000001-a-1' is not a valid experiment urn", err.Error())

	err = ScoreSetURN("urn:mavedb:00000001-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a valid score set urn")

	err = ScoreSetURNs([]string{"urn:mavedb:00000001-a-1", "nope", "also-bad"})
	require.Error(t, err)
	assert.Equal(t, "'nope' is not a valid score set urn", err.Error())
	assert.NoError(t, ScoreSetURNs(nil))
}

func TestCategory(t *testing.T) {
	for _, c := range []string{"Protein coding", "Regulatory", "Other noncoding"} {
		assert.NoError(t, Category(c))
	}
	for _, c := range []string{"invalid name", "", "protein coding", "Regulatory "} {
		err := Category(c)
		require.Error(t, err, c)
		assert.Contains(t, err.Error(), "Valid categories are Protein coding, Regulatory, and Other noncoding")
	}
}

func TestSequence(t *testing.T) {
	assert.NoError(t, SequenceType("dna"))
	assert.NoError(t, SequenceType("protein"))
	err := SequenceType("dnaa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'dnaa' is not a valid sequence type")

	assert.NoError(t, Sequence("dna", "ACGTTT"))
	assert.NoError(t, Sequence("dna", "acgtn"))
	assert.NoError(t, Sequence("protein", "MSTRK*"))

	cases := []struct{ typ, seq string }{
		{"dna", "ARCG"},
		{"dna", "AOCG%"},
		{"dna", ""},
		{"protein", "MSB1"},
	}
	for _, tc := range cases {
		err := Sequence(tc.typ, tc.seq)
		require.Error(t, err, tc.seq)
		assert.Equal(t, "invalid "+tc.typ+" sequence provided", err.Error())
	}
	assert.NoError(t, Sequence("rna", "!!"))
}

func TestKeywordList(t *testing.T) {
	assert.NoError(t, KeywordList(nil))
	assert.NoError(t, KeywordList([]string{"DMS", "Deep mutational scan", "VAMP-seq"}))

	err := KeywordList([]string{"DMS", "not-a-keyword", "other-bad"})
	require.Error(t, err)
	assert.Equal(t, "'not-a-keyword' is not a valid keyword", err.Error())

	err = KeywordList([]string{"dms"})
	require.Error(t, err)
	assert.Equal(t, "'dms' is not a valid keyword", err.Error())
}

func TestIdentifiers(t *testing.T) {
	assert.NoError(t, DOI("10.1038/s41586-018-0461-z"))
	assert.Error(t, DOI("doi:10.1038"))
	assert.NoError(t, PubMed("29785012"))
	assert.Error(t, PubMed("PMID29785012"))
	assert.NoError(t, RawRead("SRR1234567"))
	assert.Error(t, RawRead("XYZ1"))

	assert.NoError(t, ExternalIdentifier("Ensembl", "ENSG00000103275"))
	assert.NoError(t, ExternalIdentifier("UniProt", "P63279"))
	assert.NoError(t, ExternalIdentifier("RefSeq", "NM_003345.5"))
	assert.Error(t, ExternalIdentifier("Ensembl", "P63279"))
	assert.Error(t, DbName("GenBank"))
	assert.NoError(t, ExternalIdentifier("GenBank", "anything"))
}
