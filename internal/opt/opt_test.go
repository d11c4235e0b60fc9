package opt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOption_SomeAndNone(t *testing.T) {
	some := Some(42)
	assert.True(t, some.IsSome())
	assert.False(t, some.IsNone())

	v, ok := some.Unwrap()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	none := None[int]()
	assert.True(t, none.IsNone())
	assert.Equal(t, 7, none.Or(7))
	assert.Equal(t, 42, some.Or(7))
}

func TestOption_ZeroValueIsNone(t *testing.T) {
	var o Option[string]
	assert.True(t, o.IsNone())
}

func TestOption_Map(t *testing.T) {
	doubled := Map(Some(3), func(n int) int { return n * 2 })
	v, ok := doubled.Unwrap()
	assert.True(t, ok)
	assert.Equal(t, 6, v)

	empty := Map(None[int](), func(n int) int { return n * 2 })
	assert.True(t, empty.IsNone())
}

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok("hello")
	assert.True(t, ok.IsOk())
	v, err := ok.Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, "hello", v)

	boom := errors.New("boom")
	bad := Err[string](boom)
	assert.True(t, bad.IsErr())
	_, err = bad.Unwrap()
	assert.ErrorIs(t, err, boom)
}

func TestMapResult_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	mapped := MapResult(Err[int](boom), func(n int) string { return "x" })
	assert.True(t, mapped.IsErr())

	good := MapResult(Ok(2), func(n int) int { return n + 1 })
	v, err := good.Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
}
