// Package match scores how well a set of resume skills covers a role's
// declared skill profile.
package match

import (
	"math"
	"strings"
)

// neutralScore is returned for roles without a defined skill profile.
const neutralScore = 70

// Readiness returns a 0-100 readiness percentage for the given resume skills
// against the role's required skills. A required skill counts as matched when
// it and some resume skill contain each other case-insensitively in either
// direction, which lets abbreviations like "JS" match "JavaScript" at the
// cost of occasional false positives. The function is pure and never fails.
func Readiness(resumeSkills, requiredSkills []string) int {
	if len(requiredSkills) == 0 {
		return neutralScore
	}

	matched := 0
	for _, required := range requiredSkills {
		if matchesAny(required, resumeSkills) {
			matched++
		}
	}

	score := int(math.Round(float64(matched) / float64(len(requiredSkills)) * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func matchesAny(required string, resumeSkills []string) bool {
	req := strings.ToLower(strings.TrimSpace(required))
	if req == "" {
		return false
	}
	for _, skill := range resumeSkills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if strings.Contains(req, s) || strings.Contains(s, req) {
			return true
		}
	}
	return false
}
