package conf

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Typed accessors for the common property types. Each attempts conversion
// from related stored types so a value loaded as int64 from TOML still
// satisfies an int-defaulted property read.

// String retrieves group.prop as a string.
func (c *Conf) String(group, prop string) (string, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.String:
		return rv.String(), nil
	}

	return "", fmt.Errorf("cannot convert type %T to string for '%s.%s'", val, group, prop)
}

// Int64 retrieves group.prop as an int64.
func (c *Conf) Int64(group, prop string) (int64, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value of '%s.%s' is nil, cannot convert to int64", group, prop)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(^uint64(0)>>1) {
			return 0, fmt.Errorf("cannot convert %d to int64 for '%s.%s': overflow", u, group, prop)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.String:
		s := rv.String()
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to int64 for '%s.%s': %w", s, group, prop, err)
		}
		return i, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for '%s.%s'", val, group, prop)
}

// Int retrieves group.prop as an int.
func (c *Conf) Int(group, prop string) (int, error) {
	i, err := c.Int64(group, prop)
	return int(i), err
}

// Bool retrieves group.prop as a bool.
func (c *Conf) Bool(group, prop string) (bool, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value of '%s.%s' is nil, cannot convert to bool", group, prop)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		s := rv.String()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for '%s.%s': %w", s, group, prop, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for '%s.%s'", val, group, prop)
}

// Float64 retrieves group.prop as a float64.
func (c *Conf) Float64(group, prop string) (float64, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value of '%s.%s' is nil, cannot convert to float64", group, prop)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		s := rv.String()
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for '%s.%s': %w", s, group, prop, err)
		}
		return f, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to float64 for '%s.%s'", val, group, prop)
}

// Bytes retrieves group.prop as a byte slice.
func (c *Conf) Bytes(group, prop string) ([]byte, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return nil, err
	}
	switch v := val.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("cannot convert type %T to bytes for '%s.%s'", val, group, prop)
}

// Time retrieves group.prop as a time.Time, parsing RFC 3339 strings.
func (c *Conf) Time(group, prop string) (time.Time, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return time.Time{}, err
	}
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot convert string %q to time for '%s.%s': %w", v, group, prop, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot convert type %T to time for '%s.%s'", val, group, prop)
}

// Decimal retrieves group.prop as a decimal.Decimal, converting from
// numeric and string representations.
func (c *Conf) Decimal(group, prop string) (decimal.Decimal, error) {
	val, err := c.Get(group, prop)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch v := val.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("cannot convert string %q to decimal for '%s.%s': %w", v, group, prop, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.New(int64(v), 0), nil
	case int64:
		return decimal.New(v, 0), nil
	}
	return decimal.Decimal{}, fmt.Errorf("cannot convert type %T to decimal for '%s.%s'", val, group, prop)
}
