package birthdate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinYear is the oldest selectable birth year.
const MinYear = 1900

// List names one of the derived option sequences.
type List string

const (
	ListDay   List = "day"
	ListMonth List = "month"
	ListYear  List = "year"
)

// Option is a single selectable value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Set bundles the three sequences rendered together.
type Set struct {
	Day   []Option `json:"day"`
	Month []Option `json:"month"`
	Year  []Option `json:"year"`
}

// ParseList resolves a list name, case-insensitively.
func ParseList(raw string) (List, error) {
	switch List(strings.ToLower(strings.TrimSpace(raw))) {
	case ListDay:
		return ListDay, nil
	case ListMonth:
		return ListMonth, nil
	case ListYear:
		return ListYear, nil
	default:
		return "", fmt.Errorf("birthdate: unknown list %q", raw)
	}
}

// Days returns 1..31 ascending.
func Days() []Option {
	return sequence(1, 31)
}

// Months returns 1..12 ascending.
func Months() []Option {
	return sequence(1, 12)
}

// Years returns now.Year() down to MinYear. A clock set before MinYear yields
// an empty list.
func Years(now time.Time) []Option {
	return YearsFrom(now.Year(), MinYear)
}

// YearsFrom returns current down to oldest inclusive.
func YearsFrom(current, oldest int) []Option {
	if current < oldest {
		return []Option{}
	}
	out := make([]Option, 0, current-oldest+1)
	for year := current; year >= oldest; year-- {
		out = append(out, numberOption(year))
	}
	return out
}

// Lists computes all three sequences for the given instant.
func Lists(now time.Time) Set {
	return Set{
		Day:   Days(),
		Month: Months(),
		Year:  Years(now),
	}
}

// ForList returns the named sequence.
func ForList(list List, now time.Time, oldest int) ([]Option, error) {
	switch list {
	case ListDay:
		return Days(), nil
	case ListMonth:
		return Months(), nil
	case ListYear:
		return YearsFrom(now.Year(), oldest), nil
	default:
		return nil, fmt.Errorf("birthdate: unknown list %q", list)
	}
}

func sequence(from, to int) []Option {
	out := make([]Option, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, numberOption(n))
	}
	return out
}

func numberOption(n int) Option {
	s := strconv.Itoa(n)
	return Option{Value: s, Label: s}
}
