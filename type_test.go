package conf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confreg/conf"
)

func TestTypedAccessors(t *testing.T) {
	c := conf.New()
	_, err := c.DeclareGroup("mixed", map[string]any{
		"name":    "fish",
		"rank":    3,
		"weight":  10.5,
		"sold":    true,
		"payload": []byte("raw"),
		"rate":    decimal.RequireFromString("10.55"),
		"at":      time.Date(2018, 6, 1, 3, 2, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("DirectTypes", func(t *testing.T) {
		s, err := c.String("mixed", "name")
		require.NoError(t, err)
		assert.Equal(t, "fish", s)

		i, err := c.Int64("mixed", "rank")
		require.NoError(t, err)
		assert.Equal(t, int64(3), i)

		n, err := c.Int("mixed", "rank")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		f, err := c.Float64("mixed", "weight")
		require.NoError(t, err)
		assert.Equal(t, 10.5, f)

		b, err := c.Bool("mixed", "sold")
		require.NoError(t, err)
		assert.True(t, b)

		raw, err := c.Bytes("mixed", "payload")
		require.NoError(t, err)
		assert.Equal(t, []byte("raw"), raw)

		d, err := c.Decimal("mixed", "rate")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("10.55").Equal(d))

		at, err := c.Time("mixed", "at")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2018, 6, 1, 3, 2, 0, 0, time.UTC), at)
	})

	t.Run("Conversions", func(t *testing.T) {
		// int -> string, float, bool
		s, err := c.String("mixed", "rank")
		require.NoError(t, err)
		assert.Equal(t, "3", s)

		f, err := c.Float64("mixed", "rank")
		require.NoError(t, err)
		assert.Equal(t, 3.0, f)

		b, err := c.Bool("mixed", "rank")
		require.NoError(t, err)
		assert.True(t, b)

		// float -> int64 truncates
		i, err := c.Int64("mixed", "weight")
		require.NoError(t, err)
		assert.Equal(t, int64(10), i)

		// string conversions fail when not parsable
		_, err = c.Int64("mixed", "name")
		assert.Error(t, err)
		_, err = c.Bool("mixed", "name")
		assert.Error(t, err)
	})

	t.Run("UnknownPathsPropagate", func(t *testing.T) {
		_, err := c.String("nope", "x")
		assert.ErrorIs(t, err, conf.ErrUnknownGroup)

		_, err = c.Int64("mixed", "nope")
		assert.ErrorIs(t, err, conf.ErrUnknownProp)
	})
}
