package density

import (
	"errors"
	"testing"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// 2025-03-12 is a Wednesday
var now = time.Date(2025, 3, 12, 14, 37, 5, 0, time.UTC)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		unit      string
		value     int
		wantStart time.Time
		wantEnd   time.Time
		interval  string
	}{
		{models.TimeUnitHour, 3, date(2025, 3, 12, 11), date(2025, 3, 12, 14), "hour"},
		{models.TimeUnitDay, 2, date(2025, 3, 10, 0), date(2025, 3, 12, 0), "day"},
		{models.TimeUnitWeek, 1, date(2025, 3, 3, 0), date(2025, 3, 10, 0), "week"},
		{models.TimeUnitMonth, 3, date(2024, 12, 1, 0), date(2025, 3, 1, 0), "month"},
		{models.TimeUnitYear, 1, date(2024, 1, 1, 0), date(2025, 1, 1, 0), "month"},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			w, err := ResolveWindow(tt.value, tt.unit, now)
			if err != nil {
				t.Fatalf("ResolveWindow: %v", err)
			}
			if !w.TargetStart.Equal(tt.wantStart) {
				t.Errorf("TargetStart = %v, want %v", w.TargetStart, tt.wantStart)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", w.End, tt.wantEnd)
			}
			if w.IntervalUnit != tt.interval {
				t.Errorf("IntervalUnit = %s, want %s", w.IntervalUnit, tt.interval)
			}
		})
	}
}

func TestResolveWindowInvalid(t *testing.T) {
	if _, err := ResolveWindow(0, models.TimeUnitHour, now); !errors.Is(err, ErrInvalidTimeValue) {
		t.Errorf("value 0: err = %v, want ErrInvalidTimeValue", err)
	}
	if _, err := ResolveWindow(1, "Fortnight", now); !errors.Is(err, ErrInvalidTimeUnit) {
		t.Errorf("bad unit: err = %v, want ErrInvalidTimeUnit", err)
	}
	if _, err := ResolveWindow(1, "hour", now); !errors.Is(err, ErrInvalidTimeUnit) {
		t.Errorf("lower-case unit: err = %v, want ErrInvalidTimeUnit", err)
	}
}

func TestClampStart(t *testing.T) {
	hourWin, _ := ResolveWindow(48, models.TimeUnitHour, now)
	earliest := time.Date(2025, 3, 11, 9, 12, 0, 0, time.UTC)

	start, adjusted := hourWin.ClampStart(&earliest)
	if !adjusted || !start.Equal(date(2025, 3, 11, 10)) {
		t.Errorf("hour clamp = %v/%v, want 2025-03-11T10:00 adjusted", start, adjusted)
	}

	dayWin, _ := ResolveWindow(30, models.TimeUnitDay, now)
	start, _ = dayWin.ClampStart(&earliest)
	if !start.Equal(date(2025, 3, 12, 0)) {
		t.Errorf("day clamp = %v, want 2025-03-12", start)
	}

	monthWin, _ := ResolveWindow(6, models.TimeUnitMonth, now)
	dec := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	start, _ = monthWin.ClampStart(&dec)
	if !start.Equal(date(2025, 1, 1, 0)) {
		t.Errorf("month clamp = %v, want 2025-01-01", start)
	}

	weekWin, _ := ResolveWindow(4, models.TimeUnitWeek, now)
	start, adjusted = weekWin.ClampStart(&earliest)
	if !adjusted || !start.Equal(earliest) {
		t.Errorf("week clamp = %v, want earliest record", start)
	}

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	start, adjusted = hourWin.ClampStart(&old)
	if adjusted || !start.Equal(hourWin.TargetStart) {
		t.Errorf("no clamp expected, got %v/%v", start, adjusted)
	}
	start, adjusted = hourWin.ClampStart(nil)
	if adjusted || !start.Equal(hourWin.TargetStart) {
		t.Errorf("nil earliest: got %v/%v", start, adjusted)
	}
}

func TestTruncateToIntervalWeekStartsMonday(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC)
	if got := TruncateToInterval(sunday, "week"); !got.Equal(date(2025, 3, 10, 0)) {
		t.Errorf("Sunday truncates to %v, want Monday 2025-03-10", got)
	}
	monday := date(2025, 3, 10, 5)
	if got := TruncateToInterval(monday, "week"); !got.Equal(date(2025, 3, 10, 0)) {
		t.Errorf("Monday truncates to %v", got)
	}
}

func TestGroupByInterval(t *testing.T) {
	positions := []models.GroupPosition{
		{IMONumber: "2", Timestamp: date(2025, 3, 12, 10).Add(5 * time.Minute)},
		{IMONumber: "1", Timestamp: date(2025, 3, 12, 8).Add(59 * time.Minute)},
		{IMONumber: "1", Timestamp: date(2025, 3, 12, 10).Add(30 * time.Minute)},
		{IMONumber: "1", Timestamp: date(2025, 3, 12, 10)},
	}
	groups := GroupByInterval(positions, "hour")
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !groups[0].IntervalStart.Equal(date(2025, 3, 12, 8)) || !groups[0].IntervalEnd.Equal(date(2025, 3, 12, 9)) {
		t.Errorf("first group = %v..%v", groups[0].IntervalStart, groups[0].IntervalEnd)
	}
	second := groups[1]
	if len(second.Positions) != 3 {
		t.Fatalf("second group has %d positions, want 3", len(second.Positions))
	}
	if second.Positions[0].IMONumber != "1" || !second.Positions[0].Timestamp.Equal(date(2025, 3, 12, 10)) {
		t.Errorf("positions not ordered by IMO then time: %+v", second.Positions)
	}
	if second.Positions[2].IMONumber != "2" {
		t.Errorf("last position IMO = %s, want 2", second.Positions[2].IMONumber)
	}
}

func TestGroupByIntervalMonth(t *testing.T) {
	positions := []models.GroupPosition{
		{IMONumber: "1", Timestamp: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)},
		{IMONumber: "1", Timestamp: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	groups := GroupByInterval(positions, "month")
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !groups[0].IntervalEnd.Equal(groups[1].IntervalStart) {
		t.Errorf("month buckets should be contiguous: %v / %v", groups[0].IntervalEnd, groups[1].IntervalStart)
	}
}
