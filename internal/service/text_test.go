package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid", "héllo", "héllo"},
		{"invalid byte", "he\xffllo", "hello"},
		{"truncated rune", "ok\xe2\x82", "ok"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeUTF8(tt.in))
		})
	}
}
