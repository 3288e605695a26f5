package consumer

import "testing"

func TestShouldRecompute(t *testing.T) {
	triggers := []struct {
		eventType  string
		entityType string
	}{
		{"SKILL_ADDED", "SKILL"},
		{"SKILL_UPDATED", "SKILL"},
		{"SKILL_DELETED", "SKILL"},
		{"EXPERIENCE_ADDED", "EXPERIENCE"},
		{"EDUCATION_UPDATED", "EDUCATION"},
		{"education_deleted", "education"},
	}
	for _, tc := range triggers {
		if !shouldRecompute(tc.eventType, tc.entityType) {
			t.Fatalf("expected %s/%s to trigger recompute", tc.eventType, tc.entityType)
		}
	}

	ignored := []struct {
		eventType  string
		entityType string
	}{
		{"PROFILE_VIEWED", "SKILL"},
		{"SKILL_ADDED", "AVATAR"},
		{"NAME_UPDATED", "PROFILE"},
		{"", ""},
		{"SKILL_ADDED", ""},
	}
	for _, tc := range ignored {
		if shouldRecompute(tc.eventType, tc.entityType) {
			t.Fatalf("expected %s/%s to be ignored", tc.eventType, tc.entityType)
		}
	}
}
