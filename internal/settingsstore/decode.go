package settingsstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mrlokans/consultorio/internal/entities"
)

// errNotStringLiteral rejects JSON that is valid but not a string, such as
// null, which json.Unmarshal would otherwise turn into "".
var errNotStringLiteral = errors.New("not a JSON string literal")

// Value is a decoded setting. Exactly one of Str, Num or Bool is meaningful,
// selected by Type. Unknown row types decode to a string Value holding the
// raw text with Type preserved.
type Value struct {
	Type entities.SettingType
	Str  string
	Num  float64
	Bool bool
}

// Any returns the Go value carried by v.
func (v Value) Any() any {
	switch v.Type {
	case entities.SettingTypeNumber:
		return v.Num
	case entities.SettingTypeBoolean:
		return v.Bool
	default:
		return v.Str
	}
}

// AsString renders v for a string-typed field.
func (v Value) AsString() string {
	switch v.Type {
	case entities.SettingTypeNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case entities.SettingTypeBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// AsNumber reads v for a number-typed field; text that is not a number is 0.
func (v Value) AsNumber() float64 {
	switch v.Type {
	case entities.SettingTypeNumber:
		return v.Num
	case entities.SettingTypeBoolean:
		if v.Bool {
			return 1
		}
		return 0
	default:
		n, _ := parseNumber(v.Str)
		return n
	}
}

// AsBool reads v for a boolean-typed field; only the text "true" is true.
func (v Value) AsBool() bool {
	switch v.Type {
	case entities.SettingTypeBoolean:
		return v.Bool
	case entities.SettingTypeNumber:
		return false
	default:
		return v.Str == "true"
	}
}

// DecodeError reports a row whose value did not match its type. The Value
// returned alongside it is still usable.
type DecodeError struct {
	Key   string
	Type  entities.SettingType
	Raw   string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("setting %q: cannot decode %q as %s: %v", e.Key, e.Raw, e.Type, e.Cause)
	}
	return fmt.Sprintf("setting %q: cannot decode %q as %s", e.Key, e.Raw, e.Type)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func parseNumber(raw string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return n, nil
}

func parseStringLiteral(raw string) (string, error) {
	if !strings.HasPrefix(strings.TrimSpace(raw), `"`) {
		return "", errNotStringLiteral
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return "", err
	}
	return s, nil
}

// Decode interprets row.Value according to row.Type:
//
//   - string: a JSON string literal, or the raw text when it is not one
//   - number: a float, or 0 when it does not parse
//   - boolean: true only for the exact text "true"
//   - anything else: the raw text, uncoerced
//
// A non-nil error is always a *DecodeError and never prevents using the
// returned Value.
func Decode(row entities.Setting) (Value, error) {
	switch row.Type {
	case entities.SettingTypeString:
		s, err := parseStringLiteral(row.Value)
		if err != nil {
			return Value{Type: row.Type, Str: row.Value}, &DecodeError{Key: row.Key, Type: row.Type, Raw: row.Value, Cause: err}
		}
		return Value{Type: row.Type, Str: s}, nil

	case entities.SettingTypeNumber:
		n, err := parseNumber(row.Value)
		if err != nil {
			return Value{Type: row.Type, Num: 0}, &DecodeError{Key: row.Key, Type: row.Type, Raw: row.Value, Cause: err}
		}
		return Value{Type: row.Type, Num: n}, nil

	case entities.SettingTypeBoolean:
		switch row.Value {
		case "true":
			return Value{Type: row.Type, Bool: true}, nil
		case "false":
			return Value{Type: row.Type, Bool: false}, nil
		default:
			return Value{Type: row.Type, Bool: false}, &DecodeError{Key: row.Key, Type: row.Type, Raw: row.Value}
		}

	default:
		return Value{Type: row.Type, Str: row.Value}, nil
	}
}

// Encode is the inverse of Decode for the value types a form can submit.
func Encode(key string, v any) (entities.Setting, error) {
	row := entities.Setting{Key: key}
	switch x := v.(type) {
	case string:
		b, err := json.Marshal(x)
		if err != nil {
			return row, err
		}
		row.Type, row.Value = entities.SettingTypeString, string(b)
	case bool:
		row.Type, row.Value = entities.SettingTypeBoolean, strconv.FormatBool(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return row, fmt.Errorf("%w: %s is not a finite number", ErrUnsupportedValue, key)
		}
		row.Type, row.Value = entities.SettingTypeNumber, strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		row.Type, row.Value = entities.SettingTypeNumber, strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		row.Type, row.Value = entities.SettingTypeNumber, strconv.Itoa(x)
	case int64:
		row.Type, row.Value = entities.SettingTypeNumber, strconv.FormatInt(x, 10)
	case int32:
		row.Type, row.Value = entities.SettingTypeNumber, strconv.FormatInt(int64(x), 10)
	case uint:
		row.Type, row.Value = entities.SettingTypeNumber, strconv.FormatUint(uint64(x), 10)
	case json.Number:
		if _, err := parseNumber(x.String()); err != nil {
			return row, fmt.Errorf("%w: %s", ErrUnsupportedValue, key)
		}
		row.Type, row.Value = entities.SettingTypeNumber, x.String()
	default:
		return row, fmt.Errorf("%w: %s (%T)", ErrUnsupportedValue, key, v)
	}
	return row, nil
}
