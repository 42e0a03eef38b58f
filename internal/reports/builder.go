// Package reports aggregates consultations, orders and members into the
// financial summary shown on the reports screen and exported as CSV or PDF.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/consultorio/internal/entities"
)

// Source lists rows whose column falls in [from, to).
type Source[T any] interface {
	ListBetween(ctx context.Context, column string, from, to any) ([]T, error)
}

type Report struct {
	Period                 Period    `json:"period"`
	PeriodLabel            string    `json:"period_label"`
	From                   time.Time `json:"from"`
	To                     time.Time `json:"to"`
	TotalRevenue           float64   `json:"total_revenue"`
	ConsultationRevenue    float64   `json:"consultation_revenue"`
	ProductRevenue         float64   `json:"product_revenue"`
	Consultations          int       `json:"consultations"`
	CompletedConsultations int       `json:"completed_consultations"`
	CancelledConsultations int       `json:"cancelled_consultations"`
	Orders                 int       `json:"orders"`
	NewMembers             int       `json:"new_members"`
	AverageTicket          float64   `json:"average_ticket"`
	GeneratedAt            time.Time `json:"generated_at"`
}

type Builder struct {
	consultations Source[entities.Consultation]
	orders        Source[entities.Order]
	members       Source[entities.Member]
	now           func() time.Time
}

func NewBuilder(consultations Source[entities.Consultation], orders Source[entities.Order], members Source[entities.Member]) *Builder {
	return &Builder{
		consultations: consultations,
		orders:        orders,
		members:       members,
		now:           time.Now,
	}
}

// Build aggregates the period. Consultations are matched on their booking
// date, orders and members on creation time.
//
// Consultation revenue counts consultations that are paid or completed.
// Product revenue counts orders that are paid, shipped or delivered. The
// average ticket divides total revenue by the number of revenue-bearing
// consultations and orders.
func (b *Builder) Build(ctx context.Context, period Period) (*Report, error) {
	now := b.now()
	from, to := period.Range(now)

	consultations, err := b.consultations.ListBetween(ctx, "date",
		from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to load consultations: %w", err)
	}
	orders, err := b.orders.ListBetween(ctx, "created_at", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	members, err := b.members.ListBetween(ctx, "created_at", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	r := &Report{
		Period:        period,
		PeriodLabel:   period.Label(),
		From:          from,
		To:            to,
		Consultations: len(consultations),
		Orders:        len(orders),
		NewMembers:    len(members),
		GeneratedAt:   now,
	}

	paying := 0
	for _, c := range consultations {
		switch c.Status {
		case entities.ConsultationStatusCompleted:
			r.CompletedConsultations++
		case entities.ConsultationStatusCancelled:
			r.CancelledConsultations++
		}
		if c.PaymentStatus == entities.PaymentStatusPaid || c.Status == entities.ConsultationStatusCompleted {
			r.ConsultationRevenue += c.Price
			paying++
		}
	}
	for _, o := range orders {
		switch o.Status {
		case entities.OrderStatusPaid, entities.OrderStatusShipped, entities.OrderStatusDelivered:
			r.ProductRevenue += o.Total
			paying++
		}
	}

	r.TotalRevenue = r.ConsultationRevenue + r.ProductRevenue
	if paying > 0 {
		r.AverageTicket = r.TotalRevenue / float64(paying)
	}
	return r, nil
}
