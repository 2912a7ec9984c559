// Package hours maps arbitrary timestamps into the configured business-hours
// window and derives safe send times for follow-up attempts.
package hours

import "time"

// Window describes the operating hours of the business. Hours are local-time
// hour-of-day values; a day absent from DaysOpen is closed all day.
type Window struct {
	WeekdayStart  int
	WeekdayEnd    int
	SaturdayStart int
	SaturdayEnd   int
	DaysOpen      []time.Weekday
}

// DefaultWindow is Mon-Fri 08:00-18:00, Sat 09:00-13:00, Sunday closed.
func DefaultWindow() Window {
	return Window{
		WeekdayStart:  8,
		WeekdayEnd:    18,
		SaturdayStart: 9,
		SaturdayEnd:   13,
		DaysOpen: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
	}
}

// Calculator adjusts timestamps into the window and computes attempt times.
type Calculator struct {
	window      Window
	firstDelay  time.Duration
	secondDelay time.Duration
}

// NewCalculator creates a calculator over the given window. firstDelay applies
// to attempt 1 (counted from the lead's last interaction), secondDelay to every
// later attempt (counted from now).
func NewCalculator(window Window, firstDelay, secondDelay time.Duration) *Calculator {
	return &Calculator{
		window:      window,
		firstDelay:  firstDelay,
		secondDelay: secondDelay,
	}
}

func (c *Calculator) open(d time.Weekday) bool {
	for _, day := range c.window.DaysOpen {
		if day == d {
			return true
		}
	}
	return false
}

// windowFor returns the start and end hour for an open day.
func (c *Calculator) windowFor(d time.Weekday) (start, end int) {
	if d == time.Saturday {
		return c.window.SaturdayStart, c.window.SaturdayEnd
	}
	return c.window.WeekdayStart, c.window.WeekdayEnd
}

func startOfDay(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

// Adjust maps t to the nearest equal-or-later timestamp inside the business
// window. It is pure, total and idempotent. A time in the closing hour counts
// as after close even when minutes are non-zero, so 18:20 on a weekday rolls
// to the next morning.
func (c *Calculator) Adjust(t time.Time) time.Time {
	day := t.Weekday()

	if !c.open(day) {
		next := startOfDay(t.AddDate(0, 0, 1), 0)
		for !c.open(next.Weekday()) {
			next = next.AddDate(0, 0, 1)
		}
		start, _ := c.windowFor(next.Weekday())
		return startOfDay(next, start)
	}

	start, end := c.windowFor(day)

	if day == time.Saturday && t.Hour() >= end {
		monday := t
		for monday.Weekday() != time.Monday {
			monday = monday.AddDate(0, 0, 1)
		}
		return startOfDay(monday, c.window.WeekdayStart)
	}

	if t.Hour() < start {
		return startOfDay(t, start)
	}

	if t.Hour() >= end {
		// Roll to the next calendar day and re-apply; the recursion
		// terminates because each step lands on a day-start, which is
		// either inside the window or handled by the closed-day branch.
		return c.Adjust(startOfDay(t.AddDate(0, 0, 1), 0))
	}

	return t
}

// NextAttemptTime computes the scheduled time for the given attempt number,
// already adjusted into the business window. scale shrinks the base delay for
// high-interest leads; pass 1 for the default timing.
func (c *Calculator) NextAttemptTime(attemptNumber int, lastInteraction, now time.Time, scale float64) time.Time {
	if scale <= 0 {
		scale = 1
	}

	var raw time.Time
	if attemptNumber <= 1 {
		raw = lastInteraction.Add(time.Duration(float64(c.firstDelay) * scale))
	} else {
		raw = now.Add(time.Duration(float64(c.secondDelay) * scale))
	}

	adjusted := c.Adjust(raw)
	if !adjusted.After(now) {
		// Clock skew or a delay underflow put the slot in the past.
		adjusted = c.Adjust(now.Add(5 * time.Minute))
	}
	return adjusted
}
