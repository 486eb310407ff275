package conf

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Parser converts a raw string, typically read from an environment variable
// or a command-line flag, into a property's native value.
type Parser func(s string) (any, error)

// Kind is a semantic type tag naming one of the built-in parsers.
type Kind string

const (
	KindString  Kind = "string"
	KindInt     Kind = "int"
	KindFloat   Kind = "float"
	KindBool    Kind = "bool"
	KindBytes   Kind = "bytes"
	KindTime    Kind = "time"
	KindDate    Kind = "date"
	KindDecimal Kind = "decimal"
	KindSlice   Kind = "slice"
	KindMap     Kind = "map"
	KindTuple   Kind = "tuple"
)

var (
	parserMu sync.RWMutex

	// kindParsers maps semantic type tags to their string parsers.
	kindParsers = map[Kind]Parser{
		KindString:  func(s string) (any, error) { return s, nil },
		KindInt:     parseInt,
		KindFloat:   parseFloat,
		KindBool:    parseBool,
		KindBytes:   func(s string) (any, error) { return []byte(s), nil },
		KindTime:    parseTime,
		KindDate:    parseDate,
		KindDecimal: parseDecimal,
		KindSlice:   parseJSONAs(reflect.TypeOf([]any(nil))),
		KindMap:     parseJSONAs(reflect.TypeOf(map[string]any(nil))),
		KindTuple:   parseJSONAs(reflect.TypeOf([]any(nil))),
	}

	// typeParsers maps concrete Go types to parsers, consulted first during
	// inference so applications can plug in their own value types.
	typeParsers = map[reflect.Type]Parser{}
)

// ParserOf returns the registered parser for a semantic type tag.
func ParserOf(kind Kind) (Parser, bool) {
	parserMu.RLock()
	defer parserMu.RUnlock()
	p, ok := kindParsers[kind]
	return p, ok
}

// RegisterKindParser registers or replaces the parser for a semantic type tag.
func RegisterKindParser(kind Kind, p Parser) {
	parserMu.Lock()
	defer parserMu.Unlock()
	kindParsers[kind] = p
}

// RegisterTypeParser registers a parser for the dynamic type of sample.
// Inference prefers a type-registered parser over the built-in ones, so
// properties defaulting to that type pick it up automatically.
func RegisterTypeParser(sample any, p Parser) {
	parserMu.Lock()
	defer parserMu.Unlock()
	typeParsers[reflect.TypeOf(sample)] = p
}

// inferParser derives a parser from a default value's dynamic type.
// Returns false when the type carries no coercion information (nil defaults).
func inferParser(def any) (Parser, bool) {
	if def == nil {
		return nil, false
	}

	parserMu.RLock()
	typed, ok := typeParsers[reflect.TypeOf(def)]
	parserMu.RUnlock()
	if ok {
		return typed, true
	}

	switch def.(type) {
	case string:
		return mustKind(KindString), true
	case []byte:
		return mustKind(KindBytes), true
	case bool:
		return mustKind(KindBool), true
	case time.Time:
		return mustKind(KindTime), true
	case decimal.Decimal:
		return mustKind(KindDecimal), true
	}

	// Named and sized types: parse generically, convert to the default's type
	// so loaded values compare equal to declared ones.
	t := reflect.TypeOf(def)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return convertParser(parseInt, t), true
	case reflect.Float32, reflect.Float64:
		return convertParser(parseFloat, t), true
	case reflect.String:
		return convertParser(mustKind(KindString), t), true
	case reflect.Bool:
		return convertParser(parseBool, t), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return parseJSONAs(t), true
	}

	return nil, false
}

func mustKind(kind Kind) Parser {
	p, ok := ParserOf(kind)
	if !ok {
		panic(fmt.Sprintf("conf: no parser registered for kind %q", kind))
	}
	return p
}

func parseInt(s string) (any, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as integer: %w", s, err)
	}
	return i, nil
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as float: %w", s, err)
	}
	return f, nil
}

func parseBool(s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as bool: %w", s, err)
	}
	return b, nil
}

func parseTime(s string) (any, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as RFC 3339 timestamp: %w", s, err)
	}
	return t, nil
}

func parseDate(s string) (any, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as date: %w", s, err)
	}
	return t, nil
}

func parseDecimal(s string) (any, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as decimal: %w", s, err)
	}
	return d, nil
}

// parseJSONAs returns a parser decoding JSON text into a fresh value of t.
// Used for the structured kinds (slice, map, tuple) and for inference on
// slice, array, and map defaults.
func parseJSONAs(t reflect.Type) Parser {
	return func(s string) (any, error) {
		target := reflect.New(t)
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		if err := dec.Decode(target.Interface()); err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s: %w", s, t, err)
		}
		return normalizeJSON(target.Elem().Interface()), nil
	}
}

// convertParser runs base and converts the result to t via reflection.
func convertParser(base Parser, t reflect.Type) Parser {
	return func(s string) (any, error) {
		v, err := base(s)
		if err != nil {
			return nil, err
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().ConvertibleTo(t) {
			return nil, fmt.Errorf("cannot convert %T to %s", v, t)
		}
		return rv.Convert(t).Interface(), nil
	}
}

// normalizeJSON rewrites json.Number leaves into int64 or float64 so parsed
// structured values compare cleanly with declared defaults.
func normalizeJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i, e := range x {
			x[i] = normalizeJSON(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeJSON(e)
		}
		return x
	}
	return v
}
