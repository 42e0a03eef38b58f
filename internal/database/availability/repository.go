// Package availability reads bookable slots from the availability table.
//
// # Usage
//
//	repo := availability.NewRepository(db)
//	for slot, err := range repo.ListAvailable(ctx, time.Now()) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(slot.Date, slot.Time)
//	}
package availability

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/consultorio/internal/entities"
)

// ErrSequenceConsumed is yielded when a slot sequence is ranged over twice.
var ErrSequenceConsumed = errors.New("slot sequence already consumed")

// Repository handles availability queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new availability repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAvailable yields available slots dated on or after from, ordered by
// date then time. Rows are streamed from the cursor as the caller ranges;
// the sequence can be consumed only once.
func (r *Repository) ListAvailable(ctx context.Context, from time.Time) iter.Seq2[entities.AvailabilitySlot, error] {
	var used atomic.Bool
	return func(yield func(entities.AvailabilitySlot, error) bool) {
		var zero entities.AvailabilitySlot
		if !used.CompareAndSwap(false, true) {
			yield(zero, ErrSequenceConsumed)
			return
		}

		rows, err := r.db.WithContext(ctx).
			Model(&entities.AvailabilitySlot{}).
			Where("date >= ? AND available = ?", from.Format(time.DateOnly), true).
			Order("date ASC").
			Order("time ASC").
			Rows()
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var slot entities.AvailabilitySlot
			if err := r.db.ScanRows(rows, &slot); err != nil {
				yield(zero, err)
				return
			}
			if !yield(slot, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}
