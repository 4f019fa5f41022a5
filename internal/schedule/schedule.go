// Package schedule holds the fixed box-rotation calendar: a repeating
// cycle of days, each mapping to the set of Leitner boxes due for
// review on that day.
package schedule

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

//go:embed study-schedule-64.json
var defaultScheduleJSON []byte

// ErrDayOutOfRange is returned when a day index falls outside
// [1, CycleLength].
var ErrDayOutOfRange = errors.New("day index out of schedule range")

// Schedule is an immutable day -> boxes mapping. Construct it with
// Parse or Load; the zero value is not usable.
type Schedule struct {
	days   map[int][]int
	length int
}

// Parse builds a Schedule from a JSON object mapping day numbers to
// ordered lists of box numbers, e.g. {"1": [1], "2": [1, 2]}.
// Days must cover 1..N contiguously and boxes must be within 1..7.
func Parse(data []byte) (*Schedule, error) {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("parse schedule: empty mapping")
	}

	days := make(map[int][]int, len(raw))
	for key, boxes := range raw {
		day, err := strconv.Atoi(key)
		if err != nil || day < 1 {
			return nil, fmt.Errorf("parse schedule: invalid day %q", key)
		}
		for _, box := range boxes {
			if box < 1 || box > 7 {
				return nil, fmt.Errorf("parse schedule: day %d has invalid box %d", day, box)
			}
		}
		days[day] = append([]int(nil), boxes...)
	}

	for day := 1; day <= len(days); day++ {
		if _, ok := days[day]; !ok {
			return nil, fmt.Errorf("parse schedule: day %d missing from %d-day cycle", day, len(days))
		}
	}

	return &Schedule{days: days, length: len(days)}, nil
}

// Load reads a schedule from path, or the embedded 64-day reference
// configuration when path is empty. A missing or malformed resource is
// a startup-fatal condition for callers.
func Load(path string) (*Schedule, error) {
	if path == "" {
		return Parse(defaultScheduleJSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", path, err)
	}
	return Parse(data)
}

// CycleLength returns the number of days in the repeating cycle.
func (s *Schedule) CycleLength() int {
	return s.length
}

// BoxesForDay returns the boxes due on the given cycle day, ordered as
// configured. A day with no configured boxes yields an empty slice,
// meaning no cards are due. Day indexes outside [1, CycleLength] fail
// with ErrDayOutOfRange.
func (s *Schedule) BoxesForDay(dayIndex int) ([]int, error) {
	if dayIndex < 1 || dayIndex > s.length {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrDayOutOfRange, dayIndex, s.length)
	}
	return append([]int(nil), s.days[dayIndex]...), nil
}

// Boxes returns the sorted set of boxes appearing anywhere in the cycle.
func (s *Schedule) Boxes() []int {
	seen := map[int]bool{}
	for _, boxes := range s.days {
		for _, box := range boxes {
			seen[box] = true
		}
	}
	out := make([]int, 0, len(seen))
	for box := range seen {
		out = append(out, box)
	}
	sort.Ints(out)
	return out
}

// DayIndex computes the 1-based cycle day for today given the cycle
// start date, using floor modulo so dates before the anchor still land
// in [1, cycleLength]. Only the calendar date of each argument matters.
func DayIndex(start, today time.Time, cycleLength int) int {
	delta := daysBetween(start, today)
	normalized := ((delta % cycleLength) + cycleLength) % cycleLength
	return normalized + 1
}

func daysBetween(start, end time.Time) int {
	s := midnightUTC(start)
	e := midnightUTC(end)
	return int(e.Sub(s).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
