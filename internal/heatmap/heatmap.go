// Package heatmap expands sparse per-day solve counts into a GitHub-style
// contribution grid: a Sunday-aligned trailing year split into week columns
// of seven rows, with month labels anchored to week columns.
package heatmap

import (
	"iter"
	"time"
)

const (
	// DaysPerWeek is the number of grid rows
	DaysPerWeek = 7

	// MaxWeeks caps the number of rendered week columns
	MaxWeeks = 53

	// WindowDays is how far back from the end date the window starts,
	// before Sunday alignment
	WindowDays = 365

	dayLayout = "2006-01-02"
)

// Entry is one calendar day of the grid
type Entry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level Bucket `json:"level"`
}

// MonthLabel anchors a month abbreviation to a week column
type MonthLabel struct {
	WeekIndex int    `json:"index"`
	Label     string `json:"label"`
}

// Window is the inclusive range of days covered by a heatmap
type Window struct {
	Start time.Time `json:"start"` // always a Sunday
	End   time.Time `json:"end"`
}

// Grid is the display-ready heatmap
type Grid struct {
	Window      Window       `json:"window"`
	TotalDays   int          `json:"totalDays"`
	Weeks       [][]Entry    `json:"weeks"`
	MonthLabels []MonthLabel `json:"monthLabels"`
}

// NewWindow returns the trailing window ending on the UTC calendar day of now
func NewWindow(now time.Time) Window {
	end := truncateDay(now)
	start := end.AddDate(0, 0, -WindowDays)
	start = start.AddDate(0, 0, -int(start.Weekday()))
	return Window{Start: start, End: end}
}

// Days returns the number of days in the window, both ends included
func (w Window) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Entries yields one entry per day of the window in calendar order. The
// sequence holds no state of its own and can be ranged over repeatedly.
func (w Window) Entries(counts map[string]int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
			key := d.Format(dayLayout)
			n := counts[key]
			if !yield(Entry{Date: key, Count: n, Level: BucketFor(n)}) {
				return
			}
		}
	}
}

// Weeks partitions the window into consecutive chunks of seven days. The
// last chunk may be shorter when the window ends mid-week.
func (w Window) Weeks(counts map[string]int) iter.Seq2[int, []Entry] {
	return func(yield func(int, []Entry) bool) {
		index := 0
		week := make([]Entry, 0, DaysPerWeek)
		for e := range w.Entries(counts) {
			week = append(week, e)
			if len(week) == DaysPerWeek {
				if !yield(index, week) {
					return
				}
				index++
				week = make([]Entry, 0, DaysPerWeek)
			}
		}
		if len(week) > 0 {
			yield(index, week)
		}
	}
}

// MonthLabels returns a label for the first week and for every week that
// starts within the first seven days of a month. Neighbouring duplicates are
// kept as-is.
func (w Window) MonthLabels() []MonthLabel {
	labels := make([]MonthLabel, 0, 13)
	weeks := (w.Days() + DaysPerWeek - 1) / DaysPerWeek
	for i := 0; i < weeks; i++ {
		weekStart := w.Start.AddDate(0, 0, i*DaysPerWeek)
		if i == 0 || weekStart.Day() <= 7 {
			labels = append(labels, MonthLabel{
				WeekIndex: i,
				Label:     weekStart.Month().String()[:3],
			})
		}
	}
	return labels
}

// Build lays out counts over w. Weeks past MaxWeeks are left out of the grid.
func Build(w Window, counts map[string]int) *Grid {
	g := &Grid{
		Window:      w,
		TotalDays:   w.Days(),
		Weeks:       make([][]Entry, 0, MaxWeeks),
		MonthLabels: w.MonthLabels(),
	}

	for i, week := range w.Weeks(counts) {
		if i >= MaxWeeks {
			break
		}
		g.Weeks = append(g.Weeks, week)
	}

	return g
}

// BuildFor is Build over the trailing window ending at now
func BuildFor(now time.Time, counts map[string]int) *Grid {
	return Build(NewWindow(now), counts)
}

// Rows is the fixed number of rows in every grid
func (g *Grid) Rows() int {
	return DaysPerWeek
}

// Columns is the number of rendered week columns
func (g *Grid) Columns() int {
	return len(g.Weeks)
}

// Cell returns the entry at (week, weekday). ok is false for positions past
// the end of a trailing partial week.
func (g *Grid) Cell(week, weekday int) (Entry, bool) {
	if week < 0 || week >= len(g.Weeks) || weekday < 0 || weekday >= DaysPerWeek {
		return Entry{}, false
	}
	col := g.Weeks[week]
	if weekday >= len(col) {
		return Entry{}, false
	}
	return col[weekday], true
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
