// Package admin implements the back office resource screens as one generic
// table driven by a Schema.
//
// A Table keeps the last loaded list in memory. Search, equality filters and
// sorting run over that list without touching the backend. Every mutation is
// a single backend call followed by a full reload; when the call fails the
// in-memory list is left exactly as it was and an error notification is
// emitted with the backend's message.
//
// # Usage
//
//	members := admin.NewTable(admin.Members, resource.NewRepository[entities.Member](db), notifier)
//	if err := members.Load(ctx); err != nil {
//		return err
//	}
//	visible := members.Visible(admin.Query{Search: "maria", Sort: "name"})
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/notify"
)

// ErrBusy is returned when a caller attempts a mutation while its previous
// one on the same table is still running. Callers are told apart by
// notify.Recipient; different callers never block each other.
var ErrBusy = errors.New("another action is in progress")

// Client is the CRUD surface a table needs from its resource.
type Client[T any] interface {
	GetAll(ctx context.Context, f resource.Filter) ([]T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id string, patch resource.Patch) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Query is the in-memory view over the loaded list.
type Query struct {
	Search string            // case-insensitive substring over searchable fields
	Eq     map[string]string // field name -> value as text
	Sort   string
	Desc   bool
}

type Table[T any] struct {
	schema   Schema
	client   Client[T]
	notifier notify.Notifier

	mu      sync.RWMutex
	rows    []T
	records []map[string]any

	busyMu sync.Mutex
	busy   map[string]struct{}
}

// NewTable creates a table for schema backed by client. notifier may be nil.
func NewTable[T any](schema Schema, client Client[T], notifier notify.Notifier) *Table[T] {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Table[T]{schema: schema, client: client, notifier: notifier, busy: make(map[string]struct{})}
}

func (t *Table[T]) Schema() Schema {
	return t.schema
}

// InProgress reports whether the caller of ctx has a mutation running.
func (t *Table[T]) InProgress(ctx context.Context) bool {
	t.busyMu.Lock()
	defer t.busyMu.Unlock()
	_, ok := t.busy[notify.Recipient(ctx)]
	return ok
}

func (t *Table[T]) begin(ctx context.Context) error {
	id := notify.Recipient(ctx)

	t.busyMu.Lock()
	defer t.busyMu.Unlock()
	if _, ok := t.busy[id]; ok {
		return ErrBusy
	}
	t.busy[id] = struct{}{}
	return nil
}

func (t *Table[T]) end(ctx context.Context) {
	t.busyMu.Lock()
	delete(t.busy, notify.Recipient(ctx))
	t.busyMu.Unlock()
}

// Load replaces the local list with every row from the backend. On failure
// the previous list is kept.
func (t *Table[T]) Load(ctx context.Context) error {
	rows, err := t.client.GetAll(ctx, resource.Filter{
		OrderBy: t.schema.DefaultOrder,
		Desc:    t.schema.DefaultDesc,
	})
	if err != nil {
		t.notifier.Notify(ctx, notify.Error(err))
		return err
	}

	records := make([]map[string]any, len(rows))
	for i := range rows {
		rec, err := toRecord(rows[i])
		if err != nil {
			return fmt.Errorf("failed to read %s row: %w", t.schema.Resource, err)
		}
		records[i] = rec
	}

	t.mu.Lock()
	t.rows = rows
	t.records = records
	t.mu.Unlock()
	return nil
}

// Len returns the number of loaded rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Visible filters and sorts the loaded list in memory.
func (t *Table[T]) Visible(q Query) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	idx := make([]int, 0, len(t.rows))
	for i, rec := range t.records {
		if search != "" && !t.matchesSearch(rec, search) {
			continue
		}
		if !matchesEq(rec, q.Eq) {
			continue
		}
		idx = append(idx, i)
	}

	if f, ok := t.schema.Field(q.Sort); ok && f.Sortable {
		sort.SliceStable(idx, func(a, b int) bool {
			c := compare(t.records[idx[a]][f.Name], t.records[idx[b]][f.Name])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = t.rows[j]
	}
	return out
}

func (t *Table[T]) matchesSearch(rec map[string]any, search string) bool {
	for _, f := range t.schema.Fields {
		if !f.Searchable {
			continue
		}
		if strings.Contains(strings.ToLower(text(rec[f.Name])), search) {
			return true
		}
	}
	return false
}

func matchesEq(rec map[string]any, eq map[string]string) bool {
	for name, want := range eq {
		if text(rec[name]) != want {
			return false
		}
	}
	return true
}

// Create validates values against the schema, inserts one row and reloads.
func (t *Table[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	if err := t.begin(ctx); err != nil {
		return nil, err
	}
	defer t.end(ctx)

	if t.schema.Prepare != nil {
		t.schema.Prepare(values)
	}
	if err := t.schema.ValidateCreate(values); err != nil {
		t.notifier.Notify(ctx, notify.Error(err))
		return nil, err
	}

	row, err := fromRecord[T](values)
	if err != nil {
		err = &ValidationError{Resource: t.schema.Resource, Fields: map[string]string{"_": err.Error()}}
		t.notifier.Notify(ctx, notify.Error(err))
		return nil, err
	}

	if err := t.client.Create(ctx, row); err != nil {
		t.notifier.Notify(ctx, notify.Error(err))
		return nil, err
	}

	t.afterMutation(ctx, t.schema.Title+" criado com sucesso")
	return row, nil
}

// Update validates patch, applies it to one row and reloads.
func (t *Table[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	if err := t.begin(ctx); err != nil {
		return nil, err
	}
	defer t.end(ctx)

	if err := t.schema.ValidatePatch(patch); err != nil {
		t.notifier.Notify(ctx, notify.Error(err))
		return nil, err
	}

	row, err := t.client.Update(ctx, id, resource.Patch(patch))
	if err != nil {
		t.notifier.Notify(ctx, notify.Error(err))
		return nil, err
	}

	t.afterMutation(ctx, t.schema.Title+" atualizado com sucesso")
	return row, nil
}

// Delete removes one row and reloads.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	if err := t.begin(ctx); err != nil {
		return err
	}
	defer t.end(ctx)

	if err := t.client.Delete(ctx, id); err != nil {
		t.notifier.Notify(ctx, notify.Error(err))
		return err
	}

	t.afterMutation(ctx, t.schema.Title+" excluído com sucesso")
	return nil
}

// afterMutation reloads the list. A failed reload does not undo the
// mutation; it is reported as a warning.
func (t *Table[T]) afterMutation(ctx context.Context, msg string) {
	if err := t.Load(ctx); err != nil {
		t.notifier.Notify(ctx, notify.Warning(msg + ", mas a lista não pôde ser recarregada: " + err.Error()))
		return
	}
	t.notifier.Notify(ctx, notify.Success(msg))
}

func toRecord(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func fromRecord[T any](values map[string]any) (*T, error) {
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	row := new(T)
	if err := json.Unmarshal(b, row); err != nil {
		return nil, err
	}
	return row, nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}

// compare orders two decoded JSON values: nil first, then numbers, bools
// and strings (case-insensitive) in their natural order.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(strings.ToLower(text(a)), strings.ToLower(text(b)))
}
