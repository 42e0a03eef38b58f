// Package resource provides one generic CRUD repository shared by every
// business table.
//
// The repository does no validation of its own: required fields and
// uniqueness are the caller's or the backend's concern. Every backend
// failure comes back as an *OperationError carrying the backend's message.
//
// # Usage
//
//	members := resource.NewRepository[entities.Member](db)
//	rows, err := members.GetAll(ctx, resource.Filter{
//		Eq:      map[string]any{"status": "active"},
//		OrderBy: "name",
//	})
//	updated, err := members.Update(ctx, id, resource.Patch{"phone": "+55 11 99999-0000"})
package resource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrReadOnlyColumn = errors.New("column cannot be changed")
)

// OperationError wraps a backend failure with the table and operation that
// produced it. Its message embeds the backend text unchanged.
type OperationError struct {
	Table string
	Op    string
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Filter narrows GetAll by column equality and sets the order. Column names
// are checked against the table before any SQL is built.
type Filter struct {
	Eq      map[string]any
	OrderBy string
	Desc    bool
}

// Patch is a partial update keyed by column name.
type Patch map[string]any

var readOnlyColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// Repository is the CRUD client for the table backing T.
type Repository[T any] struct {
	db        *gorm.DB
	schema    *schema.Schema
	schemaErr error
}

// NewRepository creates a repository for T using the shared client.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	s, err := schema.Parse(new(T), &sync.Map{}, db.NamingStrategy)
	return &Repository[T]{db: db, schema: s, schemaErr: err}
}

// Table returns the backing table name.
func (r *Repository[T]) Table() string {
	if r.schema == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return r.schema.Table
}

// Columns returns the table's column names.
func (r *Repository[T]) Columns() []string {
	if r.schema == nil {
		return nil
	}
	return append([]string(nil), r.schema.DBNames...)
}

func (r *Repository[T]) fail(op string, err error) error {
	return &OperationError{Table: r.Table(), Op: op, Err: err}
}

func (r *Repository[T]) field(name string) (*schema.Field, error) {
	if r.schemaErr != nil {
		return nil, r.schemaErr
	}
	f := r.schema.LookUpField(name)
	if f == nil || f.DBName == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return f, nil
}

// GetAll returns every row matching the filter. There is no pagination.
func (r *Repository[T]) GetAll(ctx context.Context, f Filter) ([]T, error) {
	q := r.db.WithContext(ctx).Model(new(T))

	keys := make([]string, 0, len(f.Eq))
	for k := range f.Eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col, err := r.field(k)
		if err != nil {
			return nil, r.fail("select", err)
		}
		q = q.Where(clause.Eq{Column: clause.Column{Name: col.DBName}, Value: f.Eq[k]})
	}

	if f.OrderBy != "" {
		col, err := r.field(f.OrderBy)
		if err != nil {
			return nil, r.fail("select", err)
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col.DBName}, Desc: f.Desc})
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, r.fail("select", err)
	}
	return rows, nil
}

// ListBetween returns rows whose column falls in [from, to).
func (r *Repository[T]) ListBetween(ctx context.Context, column string, from, to any) ([]T, error) {
	col, err := r.field(column)
	if err != nil {
		return nil, r.fail("select", err)
	}
	var rows []T
	err = r.db.WithContext(ctx).
		Where(clause.Gte{Column: clause.Column{Name: col.DBName}, Value: from}).
		Where(clause.Lt{Column: clause.Column{Name: col.DBName}, Value: to}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col.DBName}}).
		Find(&rows).Error
	if err != nil {
		return nil, r.fail("select", err)
	}
	return rows, nil
}

// Get retrieves one row by primary key.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.fail("select", ErrNotFound)
		}
		return nil, r.fail("select", err)
	}
	return &row, nil
}

// Create inserts one row. The row's ID and timestamps are filled in place.
func (r *Repository[T]) Create(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return r.fail("insert", err)
	}
	return nil
}

// Update applies a partial patch by primary key and returns the fresh row.
func (r *Repository[T]) Update(ctx context.Context, id string, patch Patch) (*T, error) {
	updates := make(map[string]any, len(patch))
	for k, v := range patch {
		col, err := r.field(k)
		if err != nil {
			return nil, r.fail("update", err)
		}
		if readOnlyColumns[col.DBName] {
			return nil, r.fail("update", fmt.Errorf("%w: %s", ErrReadOnlyColumn, col.DBName))
		}
		updates[col.DBName] = v
	}

	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, r.fail("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, r.fail("update", ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete hard-deletes by primary key. Deleting an absent row is not an error.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}
