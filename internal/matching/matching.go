// Package matching ranks jobs against an applicant's skill set.
package matching

import (
	"sort"

	"go-jobboard-backend/internal/domain"
)

// MatchedSkills counts the distinct required skills of job that appear in userSkills.
// Both sides are expected to be normalized already.
func MatchedSkills(jobSkills, userSkills []string) int {
	if len(jobSkills) == 0 || len(userSkills) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		want[s] = struct{}{}
	}
	seen := make(map[string]struct{}, len(jobSkills))
	count := 0
	for _, s := range jobSkills {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := want[s]; ok {
			count++
		}
	}
	return count
}

// Rank keeps the jobs sharing at least one skill with userSkills and orders them
// by matched count, highest first. Jobs with equal counts keep their input order.
func Rank(jobs []domain.Job, userSkills []string) []domain.RankedJob {
	skills := domain.NormalizeSkills(userSkills)
	ranked := make([]domain.RankedJob, 0, len(jobs))
	if len(skills) == 0 {
		return ranked
	}

	for _, job := range jobs {
		n := MatchedSkills(job.SkillsRequired, skills)
		if n == 0 {
			continue
		}
		ranked = append(ranked, domain.RankedJob{Job: job, MatchedSkills: n})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchedSkills > ranked[j].MatchedSkills
	})
	return ranked
}
