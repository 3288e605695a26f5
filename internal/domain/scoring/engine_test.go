package scoring

import (
	"testing"
	"time"

	"applyflow/internal/domain/job"
	"applyflow/internal/domain/profile"
)

func skillNames(names ...string) []profile.Skill {
	out := make([]profile.Skill, 0, len(names))
	for _, n := range names {
		out = append(out, profile.Skill{Name: n})
	}
	return out
}

func TestScore_FullExample(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	posted := now.Add(-2 * time.Hour)

	p := profile.Profile{
		Location:          "New York, NY",
		YearsOfExperience: 6,
		Skills:            skillNames("Java", "Spring"),
		Education:         []profile.Education{{Degree: "BSc Computer Science"}},
	}
	j := job.Job{
		Title:             "Backend Engineer",
		Skills:            []string{"java", "spring", "docker"},
		Seniority:         "senior",
		EducationRequired: "Bachelor",
		Location:          "New York, NY",
		PostedDate:        &posted,
	}

	res := Score(p, j, now)

	// 2/3 skills -> 26, senior with 6 years -> 20, education -> 20,
	// exact location -> 15, posted today -> 10.
	if res.Score != 91 {
		t.Fatalf("expected score 91, got %d (reasons: %v)", res.Score, res.Reasons)
	}

	want := []string{
		"Skills match: 2/3 required (67%)",
		"Experience level: senior (6 years)",
		"Education requirements met",
		"Location match: New York, NY",
		"Posted today",
	}
	if len(res.Reasons) != len(want) {
		t.Fatalf("expected %d reasons, got %d: %v", len(want), len(res.Reasons), res.Reasons)
	}
	for i, r := range want {
		if res.Reasons[i] != r {
			t.Fatalf("reason %d: expected %q, got %q", i, r, res.Reasons[i])
		}
	}
}

func TestScore_NoEducationOnProfile(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	posted := now.Add(-2 * time.Hour)

	p := profile.Profile{
		Location:          "New York, NY",
		YearsOfExperience: 6,
		Skills:            skillNames("Java", "Spring"),
	}
	j := job.Job{
		Skills:            []string{"java", "spring", "docker"},
		Seniority:         "senior",
		EducationRequired: "Bachelor",
		Location:          "New York, NY",
		PostedDate:        &posted,
	}

	res := Score(p, j, now)
	if res.Score != 71 {
		t.Fatalf("expected score 71, got %d (reasons: %v)", res.Score, res.Reasons)
	}
}

func TestScore_NoRequiredSkills(t *testing.T) {
	res := Score(profile.Profile{}, job.Job{}, time.Now())

	// No required skills grants the full component; no education
	// requirement and no seniority do the same. Location mismatch floor
	// is 5; no posted date adds nothing.
	if res.Score != 40+20+20+5 {
		t.Fatalf("expected score 85, got %d (reasons: %v)", res.Score, res.Reasons)
	}
	if res.Reasons[0] != "No specific skills required" {
		t.Fatalf("unexpected first reason: %q", res.Reasons[0])
	}
}

func TestScore_SkillMatchCaseInsensitive(t *testing.T) {
	p := profile.Profile{Skills: skillNames("  GoLang ", "POSTGRES")}
	j := job.Job{Skills: []string{"golang", "postgres"}}

	res := Score(p, j, time.Now())
	if got := res.Reasons[0]; got != "Skills match: 2/2 required (100%)" {
		t.Fatalf("unexpected skill reason: %q", got)
	}
}

func TestScore_RemotePreferenceMatch(t *testing.T) {
	p := profile.Profile{OpenToRemote: true}
	j := job.Job{IsRemote: true}

	res := Score(p, j, time.Now())
	found := false
	for _, r := range res.Reasons {
		if r == "Remote position (matches your preference)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected remote preference reason, got %v", res.Reasons)
	}
}

func TestScore_RecencyBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 10},
		{1, 10},
		{5, 8},
		{10, 5},
		{30, 2},
	}
	for _, tc := range cases {
		posted := now.AddDate(0, 0, -tc.daysAgo)
		var reasons []string
		got := recencyScore(&posted, now, &reasons)
		if got != tc.want {
			t.Fatalf("recency for %d days ago: expected %d, got %d", tc.daysAgo, tc.want, got)
		}
	}

	var reasons []string
	if got := recencyScore(nil, now, &reasons); got != 0 {
		t.Fatalf("expected 0 for missing posted date, got %d", got)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reason for missing posted date, got %v", reasons)
	}
}

func TestScore_NeverExceeds100(t *testing.T) {
	now := time.Now()
	posted := now

	p := profile.Profile{
		Location:          "Berlin",
		OpenToRemote:      true,
		YearsOfExperience: 7,
		Skills:            skillNames("go"),
		Education:         []profile.Education{{Degree: "MSc"}},
	}
	j := job.Job{
		Skills:            []string{"go"},
		Seniority:         "senior",
		EducationRequired: "Bachelor",
		IsRemote:          true,
		PostedDate:        &posted,
	}

	res := Score(p, j, now)
	if res.Score > 100 {
		t.Fatalf("score exceeds 100: %d", res.Score)
	}
	if res.Score != 100 {
		t.Fatalf("expected perfect fit to score 100, got %d (reasons: %v)", res.Score, res.Reasons)
	}
}

func TestScore_IsPure(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	posted := now.AddDate(0, 0, -3)

	p := profile.Profile{
		Location:          "Austin",
		YearsOfExperience: 3,
		Skills:            skillNames("go", "sql"),
		Education:         []profile.Education{{Degree: "BSc"}},
	}
	j := job.Job{
		Skills:     []string{"go", "sql", "kafka"},
		Seniority:  "mid",
		Location:   "Austin",
		PostedDate: &posted,
	}

	first := Score(p, j, now)
	for i := 0; i < 10; i++ {
		again := Score(p, j, now)
		if again.Score != first.Score {
			t.Fatalf("score changed between calls: %d then %d", first.Score, again.Score)
		}
	}
}
