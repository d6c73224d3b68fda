package density

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// Validation errors
var (
	ErrInvalidTimeValue = errors.New("time_value must be a positive integer")
	ErrInvalidTimeUnit  = errors.New("time_unit must be one of Hour, Day, Week, Month, Year")
)

// Window is a resolved historical playback window in UTC
type Window struct {
	TimeValue    int
	TimeUnit     string    // Hour, Day, Week, Month, Year
	ActualUnit   string    // lower-cased TimeUnit
	IntervalUnit string    // bucket width: hour, day, week or month
	TargetStart  time.Time // before clamping to available data
	End          time.Time // exclusive, truncated to the unit
}

// ResolveWindow computes the look-back window ending at the last complete unit before now
func ResolveWindow(value int, unit string, now time.Time) (Window, error) {
	if value <= 0 {
		return Window{}, ErrInvalidTimeValue
	}

	now = now.UTC()
	w := Window{TimeValue: value, TimeUnit: unit, ActualUnit: strings.ToLower(unit)}

	switch unit {
	case models.TimeUnitHour:
		w.End = now.Truncate(time.Hour)
		w.TargetStart = w.End.Add(-time.Duration(value) * time.Hour)
		w.IntervalUnit = "hour"
	case models.TimeUnitDay:
		w.End = startOfDay(now)
		w.TargetStart = w.End.AddDate(0, 0, -value)
		w.IntervalUnit = "day"
	case models.TimeUnitWeek:
		w.End = startOfWeek(now)
		w.TargetStart = w.End.AddDate(0, 0, -7*value)
		w.IntervalUnit = "week"
	case models.TimeUnitMonth:
		w.End = startOfMonth(now)
		w.TargetStart = w.End.AddDate(0, -value, 0)
		w.IntervalUnit = "month"
	case models.TimeUnitYear:
		w.End = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		w.TargetStart = w.End.AddDate(-value, 0, 0)
		w.IntervalUnit = "month"
	default:
		return Window{}, fmt.Errorf("%w: got %q", ErrInvalidTimeUnit, unit)
	}

	return w, nil
}

// ClampStart moves the start to the first complete unit after the earliest record
// when the target start precedes all data. Week and Year windows start at the
// earliest record itself.
func (w Window) ClampStart(earliest *time.Time) (start time.Time, adjusted bool) {
	if earliest == nil || !earliest.After(w.TargetStart) {
		return w.TargetStart, false
	}

	e := earliest.UTC()
	switch w.ActualUnit {
	case "hour":
		return e.Truncate(time.Hour).Add(time.Hour), true
	case "day":
		return startOfDay(e).AddDate(0, 0, 1), true
	case "month":
		return startOfMonth(e).AddDate(0, 1, 0), true
	}
	return e, true
}

// TruncateToInterval returns the start of the bucket containing t
func TruncateToInterval(t time.Time, intervalUnit string) time.Time {
	t = t.UTC()
	switch intervalUnit {
	case "hour":
		return t.Truncate(time.Hour)
	case "day":
		return startOfDay(t)
	case "week":
		return startOfWeek(t)
	case "month":
		return startOfMonth(t)
	}
	return t
}

// NextInterval returns the start of the bucket following the one starting at t
func NextInterval(t time.Time, intervalUnit string) time.Time {
	switch intervalUnit {
	case "hour":
		return t.Add(time.Hour)
	case "day":
		return t.AddDate(0, 0, 1)
	case "week":
		return t.AddDate(0, 0, 7)
	case "month":
		return t.AddDate(0, 1, 0)
	}
	return t
}

// GroupByInterval buckets positions into time groups ordered by interval start.
// Positions within a group are ordered by IMO number then timestamp; empty buckets are omitted.
func GroupByInterval(positions []models.GroupPosition, intervalUnit string) []models.TimeGroup {
	byStart := make(map[time.Time]*models.TimeGroup)
	for _, p := range positions {
		start := TruncateToInterval(p.Timestamp, intervalUnit)
		g, ok := byStart[start]
		if !ok {
			g = &models.TimeGroup{IntervalStart: start, IntervalEnd: NextInterval(start, intervalUnit)}
			byStart[start] = g
		}
		g.Positions = append(g.Positions, p)
	}

	groups := make([]models.TimeGroup, 0, len(byStart))
	for _, g := range byStart {
		sort.SliceStable(g.Positions, func(i, j int) bool {
			a, b := g.Positions[i], g.Positions[j]
			if a.IMONumber != b.IMONumber {
				return a.IMONumber < b.IMONumber
			}
			return a.Timestamp.Before(b.Timestamp)
		})
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].IntervalStart.Before(groups[j].IntervalStart)
	})
	return groups
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
