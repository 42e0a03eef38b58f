package admin

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindEmail    FieldKind = "email"
	KindPhone    FieldKind = "phone"
	KindNumber   FieldKind = "number"
	KindMoney    FieldKind = "money"
	KindBool     FieldKind = "bool"
	KindDate     FieldKind = "date" // "2006-01-02"
	KindTime     FieldKind = "time" // "15:04"
	KindSelect   FieldKind = "select"
	KindRef      FieldKind = "ref" // id of a row in another resource
	KindDateTime FieldKind = "datetime"
)

// Field describes one column of a resource as the admin screen sees it.
type Field struct {
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Kind       FieldKind `json:"kind"`
	Required   bool      `json:"required,omitempty"`
	Searchable bool      `json:"searchable,omitempty"`
	Sortable   bool      `json:"sortable,omitempty"`
	ReadOnly   bool      `json:"read_only,omitempty"`
	Options    []string  `json:"options,omitempty"`
	Ref        string    `json:"ref,omitempty"` // resource name for KindRef
}

// Schema drives the generic resource table: which fields exist, which are
// required, how the list is searched and ordered.
type Schema struct {
	Resource     string  `json:"resource"`
	Title        string  `json:"title"`
	Fields       []Field `json:"fields"`
	DefaultOrder string  `json:"default_order"`
	DefaultDesc  bool    `json:"default_desc,omitempty"`

	// Prepare fills derived values of a create draft before validation.
	Prepare func(values map[string]any) `json:"-"`
}

// Field returns the field called name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ValidationError lists per-field problems, keyed by field name.
type ValidationError struct {
	Resource string
	Fields   map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("invalid %s: %s", e.Resource, strings.Join(parts, "; "))
}

// ValidateCreate checks a full draft: every required field must be present
// and non-blank, and every value must fit its field kind.
func (s Schema) ValidateCreate(values map[string]any) error {
	errs := map[string]string{}
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if f.Required && (!ok || isBlank(v)) {
			errs[f.Name] = "is required"
		}
	}
	s.checkValues(values, errs)
	return s.result(errs)
}

// ValidatePatch checks only the fields present in patch. Required fields
// cannot be blanked.
func (s Schema) ValidatePatch(patch map[string]any) error {
	errs := map[string]string{}
	for name, v := range patch {
		if f, ok := s.Field(name); ok && f.Required && isBlank(v) {
			errs[name] = "is required"
		}
	}
	s.checkValues(patch, errs)
	return s.result(errs)
}

func (s Schema) result(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Resource: s.Resource, Fields: errs}
}

func (s Schema) checkValues(values map[string]any, errs map[string]string) {
	for name, v := range values {
		if _, seen := errs[name]; seen {
			continue
		}
		f, ok := s.Field(name)
		if !ok {
			errs[name] = "unknown field"
			continue
		}
		if f.ReadOnly {
			errs[name] = "is read-only"
			continue
		}
		if v == nil || isBlank(v) {
			continue
		}
		if msg := checkKind(f, v); msg != "" {
			errs[name] = msg
		}
	}
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

func checkKind(f Field, v any) string {
	switch f.Kind {
	case KindNumber, KindMoney:
		n, ok := asFloat(v)
		if !ok {
			return "must be a number"
		}
		if f.Kind == KindMoney && n < 0 {
			return "must not be negative"
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return "must be true or false"
		}
	case KindEmail:
		s, ok := v.(string)
		if !ok || !strings.Contains(s, "@") {
			return "must be an email address"
		}
	case KindDate:
		s, ok := v.(string)
		if !ok {
			return "must be a date"
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return "must be a date (YYYY-MM-DD)"
		}
	case KindTime:
		s, ok := v.(string)
		if !ok {
			return "must be a time"
		}
		if _, err := time.Parse("15:04", s); err != nil {
			return "must be a time (HH:MM)"
		}
	case KindDateTime:
		s, ok := v.(string)
		if !ok {
			return "must be a timestamp"
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return "must be an RFC 3339 timestamp"
		}
	case KindSelect:
		s, ok := v.(string)
		if !ok {
			return "must be one of " + strings.Join(f.Options, ", ")
		}
		for _, o := range f.Options {
			if o == s {
				return ""
			}
		}
		return "must be one of " + strings.Join(f.Options, ", ")
	default:
		if _, ok := v.(string); !ok {
			return "must be text"
		}
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}
