package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{phone: "081234567890", want: true},
		{phone: "000000000000", want: true},
		{phone: "08123456789", want: false},   // 11 digits
		{phone: "0812345678901", want: false}, // 13 digits
		{phone: "08123456789a", want: false},
		{phone: "08123-567890", want: false},
		{phone: "", want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validPhone(tt.phone), "phone=%q", tt.phone)
	}
}
