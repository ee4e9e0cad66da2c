package curb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawRecordString(t *testing.T) {
	rec := RawRecord{
		"present": "value",
		"empty":   "",
		"nil":     nil,
		"number":  42.0,
	}

	assert.Equal(t, "value", rec.String("present", "def"))
	assert.Equal(t, "def", rec.String("empty", "def"))
	assert.Equal(t, "def", rec.String("nil", "def"))
	assert.Equal(t, "def", rec.String("number", "def"))
	assert.Equal(t, "def", rec.String("absent", "def"))
}

func TestRawRecordFloat(t *testing.T) {
	rec := RawRecord{
		"float":  40.7,
		"int":    3,
		"string": "-74.006",
		"bad":    "not a number",
		"nil":    nil,
	}

	v, ok := rec.Float("float")
	assert.True(t, ok)
	assert.Equal(t, 40.7, v)

	v, ok = rec.Float("int")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = rec.Float("string")
	assert.True(t, ok)
	assert.Equal(t, -74.006, v)

	_, ok = rec.Float("bad")
	assert.False(t, ok)
	_, ok = rec.Float("nil")
	assert.False(t, ok)
	_, ok = rec.Float("absent")
	assert.False(t, ok)
}

func TestRawRecordObject(t *testing.T) {
	rec := RawRecord{
		"nested": map[string]any{"latitude": "40.7"},
		"flat":   "x",
	}

	obj, ok := rec.Object("nested")
	assert.True(t, ok)
	assert.Equal(t, "40.7", obj.String("latitude", ""))

	_, ok = rec.Object("flat")
	assert.False(t, ok)
	_, ok = rec.Object("absent")
	assert.False(t, ok)
}

func TestRuleIsActiveNow(t *testing.T) {
	active := true
	inactive := false

	assert.False(t, Rule{}.IsActiveNow())
	assert.False(t, Rule{ActiveNow: &inactive}.IsActiveNow())
	assert.True(t, Rule{ActiveNow: &active}.IsActiveNow())
}
