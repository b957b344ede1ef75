package ledger

import (
	"fmt"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// GenerateSchedule builds the ordered installment list for a credit.
// Only Number and DueDate are populated; the allocation engine fills in
// the derived fields. Due dates are normalized to local noon.
func GenerateSchedule(start time.Time, freq models.Frequency, pair models.BiweeklyPair, count int) ([]models.Installment, error) {
	if count <= 0 {
		return nil, fmt.Errorf("installment count must be positive, got %d", count)
	}

	var dates []time.Time
	switch freq {
	case models.FrequencyDaily:
		dates = dailyDates(start, count)
	case models.FrequencyWeekly:
		dates = weeklyDates(start, count)
	case models.FrequencyBiweekly:
		if !pair.Valid() {
			return nil, fmt.Errorf("unknown biweekly pair %q", pair)
		}
		dates = biweeklyDates(start, pair, count)
	case models.FrequencyMonthly:
		dates = monthlyDates(start, count)
	default:
		return nil, fmt.Errorf("unknown frequency %q", freq)
	}

	schedule := make([]models.Installment, count)
	for i, d := range dates {
		schedule[i] = models.Installment{Number: i + 1, DueDate: d}
	}
	return schedule, nil
}

// dailyDates: consecutive calendar days starting at the start date.
func dailyDates(start time.Time, count int) []time.Time {
	d := DateOnly(start)
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, d)
		d = d.AddDate(0, 0, 1)
	}
	return dates
}

// weeklyDates anchors the schedule to the Saturday on or after the
// start date, then shifts one day. The shift matches the collection day
// observed in the field ledgers (cobro happens the day after the anchor
// Saturday); keep it unless the intended weekday is confirmed otherwise.
func weeklyDates(start time.Time, count int) []time.Time {
	d := DateOnly(start)
	for d.Weekday() != time.Saturday {
		d = d.AddDate(0, 0, 1)
	}
	d = d.AddDate(0, 0, 1)

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, d)
		d = d.AddDate(0, 0, 7)
	}
	return dates
}

// biweeklyDates walks the fixed day-of-month pair: each installment
// falls on the first pair day on or after the cursor, rolling to the
// first day of the next month when both are behind; the cursor then
// advances to the day after the chosen date.
func biweeklyDates(start time.Time, pair models.BiweeklyPair, count int) []time.Time {
	d1, d2 := pair.Days()
	cursor := DateOnly(start)
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		due := nextPairDay(cursor, d1, d2)
		dates = append(dates, due)
		cursor = due.AddDate(0, 0, 1)
	}
	return dates
}

func nextPairDay(cursor time.Time, d1, d2 int) time.Time {
	y, m, day := cursor.Date()
	loc := cursor.Location()
	switch {
	case day <= d1:
		return time.Date(y, m, d1, 12, 0, 0, 0, loc)
	case day <= d2:
		return time.Date(y, m, d2, 12, 0, 0, 0, loc)
	default:
		return time.Date(y, m+1, d1, 12, 0, 0, 0, loc)
	}
}

// monthlyDates keeps the start date's day-of-month, advancing one
// calendar month per installment starting the month after disbursement.
// The day is clamped when the target month is shorter.
func monthlyDates(start time.Time, count int) []time.Time {
	base := DateOnly(start)
	dom := base.Day()
	dates := make([]time.Time, 0, count)
	for i := 1; i <= count; i++ {
		y, m, _ := base.Date()
		target := time.Date(y, m+time.Month(i), 1, 12, 0, 0, 0, base.Location())
		day := dom
		if last := daysIn(target.Year(), target.Month()); day > last {
			day = last
		}
		dates = append(dates, time.Date(target.Year(), target.Month(), day, 12, 0, 0, 0, base.Location()))
	}
	return dates
}
