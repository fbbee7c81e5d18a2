package engine

import (
	"fmt"
	"time"
)

// tickIntervals maps game speed to wall-clock time per simulated day. Speed 0 is stopped.
var tickIntervals = [MaxSpeed + 1]time.Duration{
	0,
	500 * time.Millisecond,
	200 * time.Millisecond,
	100 * time.Millisecond,
	50 * time.Millisecond,
	20 * time.Millisecond,
}

// TickInterval returns the duration of one simulated day at speed, 0 when the clock should not run.
func TickInterval(speed int) time.Duration {
	if speed <= 0 || speed > MaxSpeed {
		return 0
	}
	return tickIntervals[speed]
}

// Running reports whether the shell should schedule date ticks.
func (s NationState) Running() bool { return !s.Paused && TickInterval(s.Speed) > 0 }

// NextDate advances date by one calendar day. A malformed date restarts at StartDate.
func NextDate(date string) string {
	y, m, d, ok := parseDate(date)
	if !ok {
		return StartDate
	}
	d++
	if d > daysIn(y, m) {
		d = 1
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return formatDate(y, m, d)
}

// IsMonthStart reports whether date falls on the first of a month.
func IsMonthStart(date string) bool {
	_, _, d, ok := parseDate(date)
	return ok && d == 1
}

// DayActions returns what one clock tick dispatches: the new date and, on rollover, a month tick.
func DayActions(s NationState) []Action {
	next := NextDate(s.Date)
	out := []Action{SetDate{Date: next}}
	if IsMonthStart(next) {
		out = append(out, MonthTick{})
	}
	return out
}

// LongDate renders "11 November 1444".
func LongDate(date string) string {
	y, m, d, ok := parseDate(date)
	if !ok {
		return date
	}
	return fmt.Sprintf("%d %s %d", d, time.Month(m).String(), y)
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
