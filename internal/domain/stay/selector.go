package stay

import (
	"encoding/json"
	"time"

	"stayfinder/internal/domain/caldate"
)

// Month identifies the calendar page the selector is showing.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Shift moves the month by direction (-1 previous, +1 next).
func (m Month) Shift(direction int) Month {
	t := time.Date(m.Year, m.Month+time.Month(direction), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Days returns the number of days on this calendar page.
func (m Month) Days() int {
	return caldate.DaysInMonth(m.Year, m.Month)
}

// Selector is the two-click date range picker as an explicit state machine
// over {empty, pending, complete}. Clicking a day is infallible: every click
// is a valid transition, out-of-order pairs are swapped on completion.
type Selector struct {
	selection Interval
	visible   Month
}

// NewSelector opens the selector on the given month with nothing selected.
func NewSelector(visible Month) *Selector {
	return &Selector{visible: visible}
}

// Selection returns a copy of the current selection; the selector keeps
// exclusive ownership of its own editing state.
func (s *Selector) Selection() Interval {
	return s.selection.Copy()
}

// Visible returns the month currently shown.
func (s *Selector) Visible() Month {
	return s.visible
}

// NavigateMonth shifts the visible month by one; the selection is untouched.
func (s *Selector) NavigateMonth(direction int) {
	if direction != -1 && direction != 1 {
		return
	}
	s.visible = s.visible.Shift(direction)
}

// SelectDay applies the two-click protocol to the given day of the visible
// month. The first click of a pair starts a pending selection, the second
// completes it; a completed pair is returned exactly once, with emitted set.
// Clicking while complete starts a fresh pending selection. Days outside the
// visible month are ignored.
func (s *Selector) SelectDay(day int) (emitted Interval, ok bool) {
	if day < 1 || day > s.visible.Days() {
		return Interval{}, false
	}
	clicked := caldate.New(s.visible.Year, s.visible.Month, day)

	if s.selection.Phase() != PhasePending {
		start := clicked
		s.selection = Interval{Start: &start}
		return Interval{}, false
	}

	s.selection = NewInterval(*s.selection.Start, clicked)
	return s.selection.Copy(), true
}

// Clear resets the selection to empty without emitting anything.
func (s *Selector) Clear() {
	s.selection = Interval{}
}

// Clone returns an independent selector in the same state, sharing no
// pointers with the receiver.
func (s *Selector) Clone() *Selector {
	return &Selector{selection: s.selection.Copy(), visible: s.visible}
}

// selectorState is the serialized form used by session stores.
type selectorState struct {
	Selection Interval `json:"selection"`
	Visible   Month    `json:"visible"`
}

func (s *Selector) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectorState{Selection: s.selection, Visible: s.visible})
}

func (s *Selector) UnmarshalJSON(data []byte) error {
	var state selectorState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	s.selection = state.Selection
	s.visible = state.Visible
	return nil
}

// DayState carries the independent style states of one rendered day.
type DayState struct {
	Day      int  `json:"day"`
	Selected bool `json:"selected"`
	InRange  bool `json:"in_range"`
	Today    bool `json:"today"`
}

// MonthGrid is the visible month laid out for rendering: the number of
// leading blank cells before day 1, then one DayState per day.
type MonthGrid struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	LeadingBlanks int        `json:"leading_blanks"`
	Days          []DayState `json:"days"`
}

// Grid renders the visible month against the current selection. A day is
// selected when it equals either end, in range when strictly between the two
// ends, and today when it equals the reference date; the three states are
// evaluated independently.
func (s *Selector) Grid(today caldate.Date) MonthGrid {
	grid := MonthGrid{
		Year:          s.visible.Year,
		Month:         s.visible.Month,
		LeadingBlanks: int(caldate.FirstWeekday(s.visible.Year, s.visible.Month)),
	}
	for day := 1; day <= s.visible.Days(); day++ {
		date := caldate.New(s.visible.Year, s.visible.Month, day)
		grid.Days = append(grid.Days, DayState{
			Day:      day,
			Selected: s.isSelected(date),
			InRange:  s.isInRange(date),
			Today:    date.Equal(today),
		})
	}
	return grid
}

func (s *Selector) isSelected(date caldate.Date) bool {
	if s.selection.Start != nil && date.Equal(*s.selection.Start) {
		return true
	}
	return s.selection.End != nil && date.Equal(*s.selection.End)
}

func (s *Selector) isInRange(date caldate.Date) bool {
	if !s.selection.IsComplete() {
		return false
	}
	return date.After(*s.selection.Start) && date.Before(*s.selection.End)
}
