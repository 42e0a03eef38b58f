package booking

import (
	"context"
	"iter"
	"time"

	"github.com/mrlokans/consultorio/internal/entities"
)

const (
	DateLayout = time.DateOnly // "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is one bookable (date, time) pair.
type Slot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Key identifies the slot; (date, time) is unique.
func (s Slot) Key() string {
	return s.Date + " " + s.Time
}

// SlotSource streams available slots on or after a date, ordered by date
// then time.
type SlotSource interface {
	ListAvailable(ctx context.Context, from time.Time) iter.Seq2[entities.AvailabilitySlot, error]
}

// Listing is what the booking page offers. Synthetic listings come from the
// fallback generator and are not real availability.
type Listing struct {
	Slots     []Slot `json:"slots"`
	Synthetic bool   `json:"synthetic"`
}

// collect drains seq, keeping only available slots.
func collect(seq iter.Seq2[entities.AvailabilitySlot, error]) ([]Slot, error) {
	var slots []Slot
	for row, err := range seq {
		if err != nil {
			return nil, err
		}
		if !row.Available {
			continue
		}
		slots = append(slots, Slot{Date: row.Date, Time: row.Time, Available: true})
	}
	return slots, nil
}
