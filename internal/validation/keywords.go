package validation

import (
	"fmt"
)

// Keywords is the controlled vocabulary accepted on experiments and score sets.
var Keywords = []string{
	"Abundance",
	"Binding",
	"Cell growth",
	"Cell surface expression",
	"Deep mutational scan",
	"DMS",
	"Drug resistance",
	"Enzyme activity",
	"Fluorescence",
	"Phage display",
	"Protein stability",
	"Regulatory element",
	"Saturation genome editing",
	"Saturation mutagenesis",
	"SGE",
	"Splicing",
	"Thermostability",
	"Transcription",
	"VAMP-seq",
	"Yeast two-hybrid",
}

var keywordIndex = func() map[string]bool {
	m := make(map[string]bool, len(Keywords))
	for _, k := range Keywords {
		m[k] = true
	}
	return m
}()

// KeywordList fails on the first entry that is not spelled exactly as in the vocabulary.
func KeywordList(ks []string) error {
	for _, k := range ks {
		if !keywordIndex[k] {
			return fmt.Errorf("'%s' is not a valid keyword", k)
		}
	}
	return nil
}
