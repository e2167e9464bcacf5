package services

import (
	"fmt"
	"strconv"
	"strings"
)

const experimentSetURNPrefix = "urn:mavedb:"

// nextExperimentSetURN returns the set URN following latest ("" when no set exists).
func nextExperimentSetURN(latest string) (string, error) {
	n := 0
	if latest != "" {
		v, err := strconv.Atoi(strings.TrimPrefix(latest, experimentSetURNPrefix))
		if err != nil {
			return "", fmt.Errorf("malformed experiment set urn %q: %w", latest, err)
		}
		n = v
	}
	return fmt.Sprintf("%s%08d", experimentSetURNPrefix, n+1), nil
}

// nextExperimentURN returns the next lettered experiment URN in a set: a, b, ..., z, aa, ab.
func nextExperimentURN(setURN string, existing []string) string {
	best := ""
	for _, urn := range existing {
		suffix, ok := strings.CutPrefix(urn, setURN+"-")
		if !ok || !isLetters(suffix) {
			continue
		}
		if len(suffix) > len(best) || (len(suffix) == len(best) && suffix > best) {
			best = suffix
		}
	}
	return setURN + "-" + nextLetters(best)
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func nextLetters(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 'z' {
			b[i]++
			return string(b)
		}
		b[i] = 'a'
	}
	return "a" + string(b)
}

// nextScoreSetURN returns <experiment>-<n> with n one past the highest existing number.
func nextScoreSetURN(experimentURN string, existing []string) string {
	highest := 0
	for _, urn := range existing {
		suffix, ok := strings.CutPrefix(urn, experimentURN+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%d", experimentURN, highest+1)
}

func variantURN(scoreSetURN string, i int) string {
	return fmt.Sprintf("%s#%d", scoreSetURN, i+1)
}
