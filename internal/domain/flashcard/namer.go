package flashcard

import (
	"fmt"
	"regexp"
	"strconv"
)

// UniqueSubject derives a subject label that does not collide with any
// existing set. A first "Math" stays "Math"; a second becomes "Math(1)",
// a third "Math(2)" — always one past the highest suffix already in use.
// The base is escaped so user text containing regexp metacharacters
// cannot break the matching.
func UniqueSubject(base string, existing []Set) string {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `(?:\((\d+)\))?$`)

	taken := false
	highest := 0
	for _, set := range existing {
		m := pattern.FindStringSubmatch(set.Subject)
		if m == nil {
			continue
		}
		taken = true
		if m[1] == "" {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}

	if !taken {
		return base
	}
	return fmt.Sprintf("%s(%d)", base, highest+1)
}
