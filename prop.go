package conf

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/copystructure"
	"github.com/shopspring/decimal"
)

func init() {
	// copystructure cannot walk unexported fields; these types are immutable
	// value types and safe to share.
	copystructure.Copiers[reflect.TypeOf(time.Time{})] = func(v any) (any, error) {
		return v.(time.Time), nil
	}
	copystructure.Copiers[reflect.TypeOf(decimal.Decimal{})] = func(v any) (any, error) {
		return v.(decimal.Decimal), nil
	}
}

// Prop declares a configuration property with more detail than a bare
// default value. It may be used anywhere a default is accepted:
//
//	c.DeclareGroup("cache", map[string]any{
//	    "backend": "memory",
//	    "expire":  conf.Prop{Default: 60, Description: "TTL in seconds"},
//	    "quota":   conf.Prop{Kind: conf.KindDecimal, Default: decimal.New(1, 0)},
//	})
//
// Parser takes precedence over Kind; when both are absent the parser is
// inferred from Default's dynamic type. A nil Default with no Parser and no
// Kind is rejected with ErrAmbiguousType, since nil carries no type to infer
// coercion from.
type Prop struct {
	Default     any
	Description string
	Kind        Kind
	Parser      Parser
}

// property is a sealed value cell inside a group. Created once at declaration
// time; only currentValue changes afterwards.
type property struct {
	name         string
	defaultValue any
	currentValue any
	description  string
	parser       Parser
}

func newProperty(group, name string, def any) (*property, error) {
	decl, ok := def.(Prop)
	if !ok {
		decl = Prop{Default: def}
	}

	parser := decl.Parser
	if parser == nil && decl.Kind != "" {
		kp, ok := ParserOf(decl.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: no parser registered for kind %q (property '%s.%s')",
				ErrAmbiguousType, decl.Kind, group, name)
		}
		parser = kp
	}
	if parser == nil {
		ip, ok := inferParser(decl.Default)
		if !ok {
			return nil, fmt.Errorf("%w: property '%s.%s' has a nil default; supply Prop.Parser or Prop.Kind",
				ErrAmbiguousType, group, name)
		}
		parser = ip
	}

	return &property{
		name:         name,
		defaultValue: decl.Default,
		currentValue: deepCopy(decl.Default),
		description:  decl.Description,
		parser:       parser,
	}, nil
}

// deepCopy isolates stored values from caller mutation. Types copystructure
// cannot handle are shared as-is.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	dup, err := copystructure.Copy(v)
	if err != nil {
		return v
	}
	return dup
}
