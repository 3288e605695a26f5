package application

import "testing"

func TestCanTransition_Table(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusApplied, StatusInReview},
		{StatusApplied, StatusRejected},
		{StatusResumeViewed, StatusInReview},
		{StatusResumeViewed, StatusRejected},
		{StatusInReview, StatusShortlisted},
		{StatusInReview, StatusRejected},
		{StatusShortlisted, StatusInterview},
		{StatusShortlisted, StatusRejected},
		{StatusInterview, StatusOffered},
		{StatusInterview, StatusRejected},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to Status
	}{
		{StatusApplied, StatusShortlisted},
		{StatusApplied, StatusInterview},
		{StatusApplied, StatusOffered},
		{StatusInReview, StatusInterview},
		{StatusInReview, StatusOffered},
		{StatusShortlisted, StatusOffered},
		{StatusInterview, StatusShortlisted},
		{StatusOffered, StatusRejected},
		{StatusRejected, StatusInReview},
		{StatusWithdrawn, StatusInReview},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestCanTransition_WithdrawnNeverReachableHere(t *testing.T) {
	all := []Status{
		StatusApplied, StatusResumeViewed, StatusInReview, StatusShortlisted,
		StatusInterview, StatusOffered, StatusRejected, StatusWithdrawn,
	}
	for _, from := range all {
		if CanTransition(from, StatusWithdrawn) {
			t.Fatalf("employer transition %s -> WITHDRAWN must be denied", from)
		}
	}
}

func TestTerminal(t *testing.T) {
	terminal := []Status{StatusOffered, StatusRejected, StatusWithdrawn}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	open := []Status{StatusApplied, StatusResumeViewed, StatusInReview, StatusShortlisted, StatusInterview}
	for _, s := range open {
		if s.Terminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus("IN_REVIEW"); !ok || st != StatusInReview {
		t.Fatalf("expected IN_REVIEW to parse, got %q ok=%v", st, ok)
	}
	if _, ok := ParseStatus("in_review"); ok {
		t.Fatalf("status parsing must be case-sensitive")
	}
	if _, ok := ParseStatus("BOGUS"); ok {
		t.Fatalf("expected BOGUS to fail parsing")
	}
}
