package birthdate

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestYears_2024HasExpectedRange(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	years := Years(now)

	if len(years) != 125 {
		t.Fatalf("expected 125 years, got %d", len(years))
	}
	if years[0].Value != "2024" {
		t.Fatalf("expected first year 2024, got %q", years[0].Value)
	}
	if years[len(years)-1].Value != "1900" {
		t.Fatalf("expected last year 1900, got %q", years[len(years)-1].Value)
	}
}

func TestDaysAndMonths(t *testing.T) {
	days := Days()
	if len(days) != 31 || days[0].Value != "1" || days[30].Value != "31" {
		t.Fatalf("unexpected days: %#v", days)
	}
	months := Months()
	want := []Option{{"1", "1"}, {"2", "2"}, {"3", "3"}}
	if diff := cmp.Diff(want, months[:3]); diff != "" {
		t.Fatalf("months mismatch (-want +got):\n%s", diff)
	}
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
}

func TestYearsBeforeMinYearIsEmpty(t *testing.T) {
	years := Years(time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC))
	if years == nil || len(years) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", years)
	}
}

func TestParseList(t *testing.T) {
	for raw, want := range map[string]List{"day": ListDay, " Month ": ListMonth, "YEAR": ListYear} {
		got, err := ParseList(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %q, got %q", raw, want, got)
		}
	}
	if _, err := ParseList("week"); err == nil {
		t.Fatalf("expected error for unknown list")
	}
}

func TestYears_DescendingAndComplete(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		current := rapid.IntRange(MinYear, 3000).Draw(rt, "current")
		years := YearsFrom(current, MinYear)

		if len(years) != current-MinYear+1 {
			rt.Fatalf("expected %d entries, got %d", current-MinYear+1, len(years))
		}
		for i, option := range years {
			want := strconv.Itoa(current - i)
			if option.Value != want || option.Label != want {
				rt.Fatalf("index %d: want %s, got %#v", i, want, option)
			}
		}
	})
}
