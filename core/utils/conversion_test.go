package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.io", NormalizeEmail("  A@X.io "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Equal(t, "x", *StringPtr("x"))
	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "x", Deref(StringPtr("x")))
}

func TestEqualPtr(t *testing.T) {
	a, b := "one", "one"
	c := "two"

	assert.True(t, EqualPtr(nil, nil))
	assert.True(t, EqualPtr(&a, &b))
	assert.False(t, EqualPtr(&a, &c))
	assert.False(t, EqualPtr(&a, nil))
	assert.False(t, EqualPtr(nil, &c))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToBool(tt.in), tt.in)
	}
}
