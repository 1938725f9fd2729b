package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the attendance rules of a deployment. Every rule is a pure
// function of its inputs; callers pass the current time explicitly.
type Policy struct {
	// LateHour is the first local hour counted as late. Comparison is hour
	// granular: with LateHour 9, 08:59:59 is present and 09:00:00 is late.
	LateHour int

	// HalfDayHours is the worked-hours threshold below which a checked-out
	// day becomes half-day.
	HalfDayHours decimal.Decimal

	NonWorkingDay time.Weekday
	Location      *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		LateHour:      9,
		HalfDayHours:  decimal.NewFromInt(4),
		NonWorkingDay: time.Sunday,
		Location:      time.Local,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// DayOf truncates t to midnight of its calendar day in the policy location.
func (p Policy) DayOf(t time.Time) time.Time {
	loc := p.location()
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func (p Policy) IsNonWorkingDay(t time.Time) bool {
	return t.In(p.location()).Weekday() == p.NonWorkingDay
}

// MonthRange returns the first and last calendar day of the month.
func (p Policy) MonthRange(year int, month time.Month) (time.Time, time.Time) {
	loc := p.location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// DetermineCheckInStatus classifies a check-in instant. A nil check-in is absent.
func (p Policy) DetermineCheckInStatus(checkIn *time.Time) Status {
	if checkIn == nil {
		return StatusAbsent
	}
	if checkIn.In(p.location()).Hour() >= p.LateHour {
		return StatusLate
	}
	return StatusPresent
}

// ApplyHalfDayOverride downgrades a worked day shorter than HalfDayHours to
// half-day. Absent stays absent.
func (p Policy) ApplyHalfDayOverride(status Status, totalHours decimal.Decimal) Status {
	if status == StatusAbsent {
		return status
	}
	if totalHours.LessThan(p.HalfDayHours) {
		return StatusHalfDay
	}
	return status
}

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// ComputeHours returns the hours between check-in and check-out rounded to two
// decimals, or zero when either side is missing.
func ComputeHours(checkIn, checkOut *time.Time) (decimal.Decimal, error) {
	if checkIn == nil || checkOut == nil {
		return decimal.Zero, nil
	}
	if checkOut.Before(*checkIn) {
		return decimal.Zero, ErrInvalidInterval
	}

	elapsed := decimal.NewFromInt(int64(checkOut.Sub(*checkIn)))
	return elapsed.Div(nanosPerHour).Round(2), nil
}
