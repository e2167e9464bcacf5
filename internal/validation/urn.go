package validation

import (
	"fmt"
	"regexp"
)

var (
	experimentSetURN = regexp.MustCompile(`^urn:mavedb:\d{8}$`)
	experimentURN    = regexp.MustCompile(`^urn:mavedb:\d{8}-([a-z]+|0)$`)
	scoreSetURN      = regexp.MustCompile(`^urn:mavedb:\d{8}-([a-z]+|0)-\d+$`)
	variantURN       = regexp.MustCompile(`^urn:mavedb:\d{8}-([a-z]+|0)-\d+#\d+$`)
	temporaryURN     = regexp.MustCompile(`^tmp:[A-Za-z0-9]{16}$`)
)

func invalidURN(urn, kind string) error {
	return fmt.Errorf("'%s' is not a valid %s urn", urn, kind)
}

func ExperimentSetURN(urn string) error {
	if experimentSetURN.MatchString(urn) || temporaryURN.MatchString(urn) {
		return nil
	}
	return invalidURN(urn, "experiment set")
}

func ExperimentURN(urn string) error {
	if experimentURN.MatchString(urn) || temporaryURN.MatchString(urn) {
		return nil
	}
	return invalidURN(urn, "experiment")
}

func ScoreSetURN(urn string) error {
	if scoreSetURN.MatchString(urn) || temporaryURN.MatchString(urn) {
		return nil
	}
	return invalidURN(urn, "score set")
}

// ScoreSetURNs checks every entry and names the first bad one.
func ScoreSetURNs(urns []string) error {
	for _, u := range urns {
		if err := ScoreSetURN(u); err != nil {
			return err
		}
	}
	return nil
}

func VariantURN(urn string) error {
	if variantURN.MatchString(urn) {
		return nil
	}
	return invalidURN(urn, "variant")
}
