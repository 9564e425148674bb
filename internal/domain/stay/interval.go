package stay

import (
	"fmt"

	"stayfinder/internal/domain/caldate"
)

// Phase describes how far a stay selection has progressed.
type Phase string

const (
	PhaseEmpty    Phase = "EMPTY"
	PhasePending  Phase = "PENDING"
	PhaseComplete Phase = "COMPLETE"
)

// Interval is the inclusive check-in/check-out pair being selected.
// Whenever both ends are set, Start <= End holds.
type Interval struct {
	Start *caldate.Date `json:"start"`
	End   *caldate.Date `json:"end"`
}

// NewInterval builds a complete interval, swapping the ends if given out of
// chronological order so the invariant always holds.
func NewInterval(start, end caldate.Date) Interval {
	if end.Before(start) {
		start, end = end, start
	}
	s, e := start, end
	return Interval{Start: &s, End: &e}
}

// Phase classifies the interval: empty, pending (start only) or complete.
func (i Interval) Phase() Phase {
	switch {
	case i.Start == nil:
		return PhaseEmpty
	case i.End == nil:
		return PhasePending
	default:
		return PhaseComplete
	}
}

// IsComplete reports whether both ends are set.
func (i Interval) IsComplete() bool {
	return i.Phase() == PhaseComplete
}

// Nights counts whole days between the ends; zero unless complete.
func (i Interval) Nights() int {
	if !i.IsComplete() {
		return 0
	}
	return i.Start.NightsUntil(*i.End)
}

// Copy returns an interval that shares no pointers with the receiver, so a
// consumer can hold it while the selector keeps editing its own state.
func (i Interval) Copy() Interval {
	var out Interval
	if i.Start != nil {
		s := *i.Start
		out.Start = &s
	}
	if i.End != nil {
		e := *i.End
		out.End = &e
	}
	return out
}

// Summary renders the selection label shown above the calendar.
func (i Interval) Summary() string {
	switch i.Phase() {
	case PhaseComplete:
		return fmt.Sprintf("%s - %s", i.Start.Format(), i.End.Format())
	case PhasePending:
		return fmt.Sprintf("%s - Select end date", i.Start.Format())
	default:
		return "No dates selected"
	}
}
