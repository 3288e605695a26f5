package scoring

import (
	"fmt"
	"strings"
	"time"

	"applyflow/internal/domain/job"
	"applyflow/internal/domain/profile"
)

// Component maximums. They sum to 100, so the final clamp only guards
// against future weight changes.
const (
	maxSkillScore      = 40
	maxExperienceScore = 20
	maxEducationScore  = 20
	maxLocationScore   = 15
	maxRecencyScore    = 10
)

type Result struct {
	Score   int
	Reasons []string
}

// Score rates how well a profile fits a job on a 0-100 scale. It is a pure
// function: no I/O, no clock reads except through now.
func Score(p profile.Profile, j job.Job, now time.Time) Result {
	reasons := make([]string, 0, 5)
	total := 0

	total += skillMatch(p.Skills, j.Skills, &reasons)
	total += experienceMatch(p.YearsOfExperience, j.Seniority, &reasons)
	total += educationMatch(p.Education, j.EducationRequired, &reasons)
	total += locationMatch(p.Location, p.OpenToRemote, j.Location, j.IsRemote, &reasons)
	total += recencyScore(j.PostedDate, now, &reasons)

	if total > 100 {
		total = 100
	}
	return Result{Score: total, Reasons: reasons}
}

func skillMatch(skills []profile.Skill, required []string, reasons *[]string) int {
	if len(required) == 0 {
		*reasons = append(*reasons, "No specific skills required")
		return maxSkillScore
	}
	if len(skills) == 0 {
		*reasons = append(*reasons, "No skills on profile")
		return 0
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			continue
		}
		have[name] = struct{}{}
	}

	matched := 0
	for _, req := range required {
		if _, ok := have[strings.ToLower(req)]; ok {
			matched++
		}
	}

	ratio := float64(matched) / float64(len(required))
	score := int(ratio * maxSkillScore)

	*reasons = append(*reasons, fmt.Sprintf("Skills match: %d/%d required (%.0f%%)",
		matched, len(required), ratio*100))
	return score
}

func experienceMatch(years int, seniority string, reasons *[]string) int {
	if seniority == "" {
		*reasons = append(*reasons, "No experience level specified")
		return maxExperienceScore
	}

	var score int
	switch strings.ToLower(seniority) {
	case "entry":
		switch {
		case years <= 2:
			score = 20
		case years <= 5:
			score = 15
		case years <= 8:
			score = 10
		default:
			score = 5
		}
	case "mid":
		switch {
		case years >= 2 && years <= 5:
			score = 20
		case years > 5 && years <= 10:
			score = 15
		case years > 10:
			score = 12
		default:
			score = 8
		}
	case "senior":
		switch {
		case years >= 5 && years <= 10:
			score = 20
		case years > 10:
			score = 18
		default:
			score = 6
		}
	case "lead", "executive":
		switch {
		case years >= 10:
			score = 20
		case years >= 5:
			score = 12
		default:
			score = 5
		}
	default:
		score = 10
	}

	*reasons = append(*reasons, fmt.Sprintf("Experience level: %s (%d years)", seniority, years))
	return score
}

func educationMatch(education []profile.Education, required string, reasons *[]string) int {
	if required == "" {
		*reasons = append(*reasons, "No education requirements")
		return maxEducationScore
	}
	if len(education) == 0 {
		*reasons = append(*reasons, "No education on profile")
		return 0
	}

	for _, edu := range education {
		if edu.Degree != "" {
			*reasons = append(*reasons, "Education requirements met")
			return maxEducationScore
		}
	}

	*reasons = append(*reasons, "Missing education requirements")
	return 0
}

func locationMatch(userLocation string, openToRemote bool, jobLocation string, jobRemote bool, reasons *[]string) int {
	if jobRemote && openToRemote {
		*reasons = append(*reasons, "Remote position (matches your preference)")
		return maxLocationScore
	}
	if jobRemote {
		*reasons = append(*reasons, "Remote position")
		return 8
	}

	if userLocation != "" && jobLocation != "" {
		if strings.EqualFold(userLocation, jobLocation) {
			*reasons = append(*reasons, fmt.Sprintf("Location match: %s", userLocation))
			return maxLocationScore
		}
		if strings.Contains(strings.ToLower(userLocation), strings.ToLower(jobLocation)) {
			*reasons = append(*reasons, fmt.Sprintf("Location partial match: %s", userLocation))
			return 10
		}
	}

	// A mismatch still contributes a little; it never zeroes the component.
	*reasons = append(*reasons, "Location mismatch")
	return 5
}

func recencyScore(posted *time.Time, now time.Time, reasons *[]string) int {
	if posted == nil {
		return 0
	}

	days := int(now.Sub(*posted).Hours() / 24)
	switch {
	case days <= 1:
		*reasons = append(*reasons, "Posted today")
		return maxRecencyScore
	case days <= 7:
		*reasons = append(*reasons, "Posted this week")
		return 8
	case days <= 14:
		*reasons = append(*reasons, "Posted recently")
		return 5
	default:
		return 2
	}
}
