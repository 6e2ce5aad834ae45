package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name string
		ts   time.Time
		loc  *time.Location
		want Day
	}{
		{
			name: "utc midday",
			ts:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: Day("2026-03-10"),
		},
		{
			name: "utc timestamp crosses midnight in facility zone",
			ts:   time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC),
			loc:  saoPaulo,
			want: Day("2026-03-10"),
		},
		{
			name: "local timestamp already in facility zone",
			ts:   time.Date(2026, 3, 10, 22, 0, 0, 0, saoPaulo),
			loc:  saoPaulo,
			want: Day("2026-03-10"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayOf(tt.ts, tt.loc); got != tt.want {
				t.Errorf("DayOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != Day("2026-03-10") {
		t.Errorf("ParseDay() = %s, want 2026-03-10", day)
	}

	for _, bad := range []string{"", "2026-3-10", "10/03/2026", "2026-13-40", "today"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrInvalidDay) {
			t.Errorf("ParseDay(%q) error = %v, want ErrInvalidDay", bad, err)
		}
	}
}
