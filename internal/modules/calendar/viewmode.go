package calendar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

// Granularity is the calendar's time scale.
type Granularity string

const (
	Month Granularity = "month"
	Week  Granularity = "week"
	Day   Granularity = "day"
)

// Mode is the page-level display toggle. It is independent of Granularity.
type Mode string

const (
	ModeCalendar Mode = "calendar"
	ModeList     Mode = "list"
)

// MonthRestrictedNotice explains a month request redirected to week.
const MonthRestrictedNotice = "Month view is only available to admin and regional managers"

var (
	ErrUnknownGranularity = errors.New("unknown calendar view")
	ErrUnknownMode        = errors.New("unknown display mode")
)

// ParseGranularity accepts month, week or day in any case.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Month, Week, Day:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// ParseMode accepts calendar or list in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCalendar, ModeList:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ViewState is the current granularity and display mode.
type ViewState struct {
	Granularity Granularity `json:"view"`
	Mode        Mode        `json:"mode"`
}

// CanViewMonth reports whether the role may use the month view.
func CanViewMonth(r access.Role) bool {
	return r == access.RoleAdmin || r == access.RoleRegional
}

// InitialView is the state a role lands on: day for maintenance, month for
// admin and regional, week for everyone else.
func InitialView(r access.Role) ViewState {
	switch {
	case r == access.RoleMaintenance:
		return ViewState{Granularity: Day, Mode: ModeCalendar}
	case CanViewMonth(r):
		return ViewState{Granularity: Month, Mode: ModeCalendar}
	default:
		return ViewState{Granularity: Week, Mode: ModeCalendar}
	}
}

// SelectGranularity moves v to the requested granularity. Month is
// redirected to week for roles that may not view it, and the returned
// notice says why. Mode is carried over unchanged.
func (v ViewState) SelectGranularity(r access.Role, requested Granularity) (ViewState, string, error) {
	switch requested {
	case Week, Day:
		v.Granularity = requested
		return v, "", nil
	case Month:
		if !CanViewMonth(r) {
			v.Granularity = Week
			return v, MonthRestrictedNotice, nil
		}
		v.Granularity = Month
		return v, "", nil
	}
	return v, "", fmt.Errorf("%w: %q", ErrUnknownGranularity, requested)
}

// WithMode returns v switched to mode m.
func (v ViewState) WithMode(m Mode) ViewState {
	v.Mode = m
	return v
}
