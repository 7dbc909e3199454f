package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/julianstephens/studyplan/internal/constants"
)

// Clock provides the current reference time. All "today" decisions go
// through a Clock so they can be pinned in tests.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type zoneClock struct {
	loc *time.Location
}

// NewClock returns a Clock reporting wall time in the given IANA zone.
func NewClock(timezone string) (Clock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return zoneClock{loc: loc}, nil
}

func (c zoneClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c zoneClock) Location() *time.Location { return c.loc }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

func (c FixedClock) Location() *time.Location {
	if c.T.Location() == nil {
		return time.UTC
	}
	return c.T.Location()
}

// Today returns the clock's current date formatted as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(constants.DateFormat)
}

// WeekAnchor returns midnight of the Monday on or before t, in t's location.
// Sunday steps back six days; any other weekday steps back weekday-1 days.
func WeekAnchor(t time.Time) time.Time {
	wd := int(t.Weekday())
	back := wd - 1
	if t.Weekday() == time.Sunday {
		back = 6
	}
	d := t.AddDate(0, 0, -back)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" it returns the system's local timezone; an
// empty name falls back to the default reference zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = constants.DefaultTimezone
	}
	if timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(br.All...)
	w.Add(common.All...)
	return w
}

// ResolveDate turns user input into a YYYY-MM-DD date. It accepts an exact
// date, "today"/"hoje", or any relative expression understood by the
// natural-language parser ("tomorrow", "next monday", "amanhã").
func ResolveDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "today", "hoje":
		return now.Format(constants.DateFormat), nil
	}
	if t, err := ParseDateInLocation(input, now.Location()); err == nil {
		return t.Format(constants.DateFormat), nil
	}
	r, err := dateParser.Parse(input, now)
	if err != nil {
		return "", fmt.Errorf("failed to parse date %q: %w", input, err)
	}
	if r == nil {
		return "", fmt.Errorf("unrecognized date %q (expected YYYY-MM-DD or a relative date)", input)
	}
	return r.Time.In(now.Location()).Format(constants.DateFormat), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
