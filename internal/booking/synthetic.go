package booking

import "time"

const syntheticWindowDays = 14

var syntheticTimes = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

// Synthetic generates placeholder slots for the 14 days starting at from,
// skipping weekends. It is deterministic for a given date and only exists so
// the booking page stays usable when the availability table cannot be read.
func Synthetic(from time.Time) []Slot {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	slots := make([]Slot, 0, syntheticWindowDays*len(syntheticTimes))
	for i := 0; i < syntheticWindowDays; i++ {
		d := day.AddDate(0, 0, i)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		date := d.Format(DateLayout)
		for _, t := range syntheticTimes {
			slots = append(slots, Slot{Date: date, Time: t, Available: true})
		}
	}
	return slots
}
