package booking

import (
	"context"
	"errors"
	"iter"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/messaging"
	"github.com/mrlokans/consultorio/internal/settingsstore"
)

type mockSlotSource struct {
	rows []entities.AvailabilitySlot
	err  error
}

func (m *mockSlotSource) ListAvailable(ctx context.Context, from time.Time) iter.Seq2[entities.AvailabilitySlot, error] {
	return func(yield func(entities.AvailabilitySlot, error) bool) {
		if m.err != nil {
			yield(entities.AvailabilitySlot{}, m.err)
			return
		}
		for _, r := range m.rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

type mockConsultations struct {
	created []*entities.Consultation
	err     error
}

func (m *mockConsultations) Create(ctx context.Context, c *entities.Consultation) error {
	if m.err != nil {
		return m.err
	}
	c.ID = "c-1"
	m.created = append(m.created, c)
	return nil
}

type mockNotifier struct {
	drafts []messaging.Draft
	err    error
}

func (m *mockNotifier) Compose(ctx context.Context, d messaging.Draft) (*entities.Message, error) {
	m.drafts = append(m.drafts, d)
	if m.err != nil {
		return nil, m.err
	}
	return &entities.Message{}, nil
}

type staticSettings settingsstore.Settings

func (s staticSettings) LoadPublic(ctx context.Context) settingsstore.Settings {
	return settingsstore.Settings(s)
}

func TestService_Slots(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("only available slots, in order", func(t *testing.T) {
		src := &mockSlotSource{rows: []entities.AvailabilitySlot{
			{Date: "2024-05-10", Time: "09:00", Available: true},
			{Date: "2024-05-10", Time: "10:00", Available: false},
			{Date: "2024-05-11", Time: "08:00", Available: true},
		}}
		svc := NewService(src, &mockConsultations{}, nil, nil, true)

		listing, err := svc.Slots(ctx, from)
		require.NoError(t, err)
		assert.False(t, listing.Synthetic)
		require.Len(t, listing.Slots, 2)
		for _, s := range listing.Slots {
			assert.True(t, s.Available)
		}
		assert.True(t, sort.SliceIsSorted(listing.Slots, func(i, j int) bool {
			return listing.Slots[i].Key() < listing.Slots[j].Key()
		}))
	})

	t.Run("backend failure falls back to flagged synthetic slots", func(t *testing.T) {
		svc := NewService(&mockSlotSource{err: errors.New("connection refused")}, &mockConsultations{}, nil, nil, true)

		listing, err := svc.Slots(ctx, from)
		require.NoError(t, err)
		assert.True(t, listing.Synthetic)
		assert.NotEmpty(t, listing.Slots)
	})

	t.Run("backend failure without fallback is an error", func(t *testing.T) {
		svc := NewService(&mockSlotSource{err: errors.New("connection refused")}, &mockConsultations{}, nil, nil, false)

		_, err := svc.Slots(ctx, from)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestSynthetic(t *testing.T) {
	// Friday
	from := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	slots := Synthetic(from)

	// 14 days from a Friday contain 10 weekdays
	assert.Len(t, slots, 10*6)
	assert.Equal(t, Slot{Date: "2024-05-10", Time: "09:00", Available: true}, slots[0])
	assert.Equal(t, Synthetic(from), slots)

	for _, s := range slots {
		d, err := time.Parse(DateLayout, s.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.True(t, s.Available)
	}
	assert.True(t, sort.SliceIsSorted(slots, func(i, j int) bool { return slots[i].Key() < slots[j].Key() }))
}

func readySession(t *testing.T) *Session {
	t.Helper()
	s := sessionOnSlotStep(t)
	require.NoError(t, s.SelectSlot(testListing.Slots[0]))
	return s
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("records one pending consultation priced from settings", func(t *testing.T) {
		settings := settingsstore.Defaults()
		settings.ConsultationPrice = 150.5
		settings.ConsultationDuration = 45
		consultations := &mockConsultations{}
		notifier := &mockNotifier{}
		svc := NewService(nil, consultations, notifier, staticSettings(settings), false)

		session := readySession(t)
		result, err := svc.Submit(ctx, session)
		require.NoError(t, err)

		require.Len(t, consultations.created, 1)
		c := consultations.created[0]
		assert.Equal(t, "Maria", c.ClientName)
		assert.Equal(t, "2024-05-10", c.Date)
		assert.Equal(t, "09:00", c.Time)
		assert.Equal(t, 150.5, c.Price)
		assert.Equal(t, 45, c.Duration)
		assert.Equal(t, entities.ConsultationStatusPending, c.Status)

		assert.Equal(t, "c-1", result.ConsultationID)
		assert.True(t, result.MessageQueued)
		require.Len(t, notifier.drafts, 1)
		assert.Equal(t, entities.MessageTypeWhatsApp, notifier.drafts[0].Type)
		assert.Equal(t, "10/05/2024", notifier.drafts[0].Vars["date"])

		assert.Equal(t, StateConfirmed, session.State)
		assert.Equal(t, result, session.Result)
	})

	t.Run("no message when whatsapp notifications are off", func(t *testing.T) {
		settings := settingsstore.Defaults()
		settings.WhatsAppNotifications = false
		notifier := &mockNotifier{}
		svc := NewService(nil, &mockConsultations{}, notifier, staticSettings(settings), false)

		result, err := svc.Submit(ctx, readySession(t))
		require.NoError(t, err)
		assert.False(t, result.MessageQueued)
		assert.Empty(t, notifier.drafts)
	})

	t.Run("message failure does not fail the booking", func(t *testing.T) {
		notifier := &mockNotifier{err: errors.New("boom")}
		svc := NewService(nil, &mockConsultations{}, notifier, staticSettings(settingsstore.Defaults()), false)

		session := readySession(t)
		result, err := svc.Submit(ctx, session)
		require.NoError(t, err)
		assert.False(t, result.MessageQueued)
		assert.Equal(t, StateConfirmed, session.State)
	})

	t.Run("backend failure leaves the session on slot selection", func(t *testing.T) {
		consultations := &mockConsultations{err: errors.New("insert consultations: permission denied")}
		svc := NewService(nil, consultations, nil, nil, false)

		session := readySession(t)
		_, err := svc.Submit(ctx, session)
		assert.EqualError(t, err, "insert consultations: permission denied")
		assert.Equal(t, StateSlotSelection, session.State)
		assert.Nil(t, session.Result)
	})

	t.Run("cannot submit without a slot", func(t *testing.T) {
		consultations := &mockConsultations{}
		svc := NewService(nil, consultations, nil, nil, false)

		_, err := svc.Submit(ctx, sessionOnSlotStep(t))
		assert.True(t, errors.Is(err, ErrNoSlotSelected))
		assert.Empty(t, consultations.created)
	})

	t.Run("second submit is rejected", func(t *testing.T) {
		consultations := &mockConsultations{}
		svc := NewService(nil, consultations, nil, nil, false)

		session := readySession(t)
		_, err := svc.Submit(ctx, session)
		require.NoError(t, err)
		_, err = svc.Submit(ctx, session)
		assert.True(t, errors.Is(err, ErrAlreadyConfirmed))
		assert.Len(t, consultations.created, 1)
	})
}
