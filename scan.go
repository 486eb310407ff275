package conf

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// Scan decodes a group's current values into target, which must be a
// non-nil pointer to a struct or map. Field mapping uses the "conf" struct
// tag, falling back to the field name.
func (c *Conf) Scan(group string, target any) error {
	g, err := c.Group(group)
	if err != nil {
		return err
	}
	return g.Scan(target)
}

// Scan decodes the group's current values into target.
func (g *Group) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	g.conf.mu.RLock()
	values := make(map[string]any, len(g.props))
	for name, p := range g.props {
		values[name] = p.currentValue
	}
	g.conf.mu.RUnlock()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "conf",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
			stringToDecimalHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to scan configuration group '%s' into %T: %w", g.name, target, err)
	}
	return nil
}

// stringToDecimalHookFunc handles decimal.Decimal conversion.
func stringToDecimalHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(decimal.Decimal{}) {
			return data, nil
		}
		d, err := decimal.NewFromString(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid decimal: %w", err)
		}
		return d, nil
	}
}
