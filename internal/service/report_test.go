package service

import (
	"errors"
	"testing"

	"team-pdca/internal/policy"
)

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		date   string
		monday string
		sunday string
	}{
		{"2025-08-18", "2025-08-18", "2025-08-24"}, // a Monday
		{"2025-08-20", "2025-08-18", "2025-08-24"}, // mid-week
		{"2025-08-24", "2025-08-18", "2025-08-24"}, // Sunday counts to the week before
		{"2025-08-25", "2025-08-25", "2025-08-31"}, // next Monday
		{"2025-12-31", "2025-12-29", "2026-01-04"}, // year boundary
		{"2024-02-28", "2024-02-26", "2024-03-03"}, // leap February
	}
	for _, tc := range tests {
		t.Run(tc.date, func(t *testing.T) {
			monday, sunday, err := WeekWindow(tc.date)
			if err != nil {
				t.Fatalf("WeekWindow(%s): %v", tc.date, err)
			}
			if got := monday.Format(dateLayout); got != tc.monday {
				t.Errorf("monday = %s, want %s", got, tc.monday)
			}
			if got := sunday.Format(dateLayout); got != tc.sunday {
				t.Errorf("sunday = %s, want %s", got, tc.sunday)
			}
		})
	}
}

func TestWeekWindowBadDate(t *testing.T) {
	for _, date := range []string{"", "2025-13-01", "18/08/2025", "not-a-date"} {
		if _, _, err := WeekWindow(date); !errors.Is(err, policy.ErrValidation) {
			t.Errorf("WeekWindow(%q) err = %v, want ErrValidation", date, err)
		}
	}
}
