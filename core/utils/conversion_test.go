package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestConversions(t *testing.T) {
	assert.Equal(t, int64(42), ToInt64("42"))
	assert.Equal(t, int64(7), ToInt64([]byte(" 7 ")))
	assert.Equal(t, int64(1), ToInt64(true))
	assert.Equal(t, 1.5, ToFloat("1.5"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "", ToString(nil))
	assert.True(t, ToBool(int8(1)))
	assert.True(t, ToBool("TRUE"))
	assert.False(t, ToBool("yes"))
}

func TestEqual(t *testing.T) {
	name := "Acme"
	var nilName *string

	tests := []struct {
		name    string
		stored  any
		desired any
		want    bool
	}{
		{"tinyint vs bool", int64(1), true, true},
		{"tinyint vs false", int64(1), false, false},
		{"bytes vs string", []byte("5G"), "5G", true},
		{"decimal vs float", "3.00", 3.0, true},
		{"int widths", int32(2147483647), int64(2147483647), true},
		{"pointer deref", &name, "Acme", true},
		{"nil pointer vs empty", nilName, "", true},
		{"nil vs value", nil, "x", false},
		{"json valuer", []byte(`[1,2]`), datatypes.JSON(`[1,2]`), true},
		{"different strings", "a", "b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.stored, tt.desired))
		})
	}
}
