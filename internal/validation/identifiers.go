package validation

import (
	"fmt"
	"regexp"

	"github.com/yungbote/mavedb-backend/internal/domain"
)

var (
	doiPattern     = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	pubmedPattern  = regexp.MustCompile(`^\d+$`)
	rawReadPattern = regexp.MustCompile(`^[SED]R[APRSXZ]\d{6,}$`)

	ensemblPattern = regexp.MustCompile(`^ENS[A-Z]*[EGPRT]\d{11}(\.\d+)?$`)
	uniprotPattern = regexp.MustCompile(`^([OPQ]\d[A-Z\d]{3}\d|[A-NR-Z]\d([A-Z][A-Z\d]{2}\d){1,2})(-\d+)?$`)
	refseqPattern  = regexp.MustCompile(`^(NC|NG|NM|NP|NR|NT|NW|XM|XP|XR)_\d+(\.\d+)?$`)
)

func DOI(v string) error {
	if doiPattern.MatchString(v) {
		return nil
	}
	return fmt.Errorf("'%s' is not a valid DOI identifier", v)
}

func PubMed(v string) error {
	if pubmedPattern.MatchString(v) {
		return nil
	}
	return fmt.Errorf("'%s' is not a valid PubMed identifier", v)
}

func RawRead(v string) error {
	if rawReadPattern.MatchString(v) {
		return nil
	}
	return fmt.Errorf("'%s' is not a valid raw read identifier", v)
}

func DbName(v string) error {
	switch v {
	case domain.DbEnsembl, domain.DbUniProt, domain.DbRefSeq:
		return nil
	}
	return fmt.Errorf("'%s' is not a valid external database. Valid databases are %s, %s, and %s",
		v, domain.DbEnsembl, domain.DbUniProt, domain.DbRefSeq)
}

// ExternalIdentifier checks id against the syntax of dbName. Unknown databases are left to DbName.
func ExternalIdentifier(dbName, id string) error {
	var p *regexp.Regexp
	switch dbName {
	case domain.DbEnsembl:
		p = ensemblPattern
	case domain.DbUniProt:
		p = uniprotPattern
	case domain.DbRefSeq:
		p = refseqPattern
	default:
		return nil
	}
	if p.MatchString(id) {
		return nil
	}
	return fmt.Errorf("'%s' is not a valid %s identifier", id, dbName)
}
