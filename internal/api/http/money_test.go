package http

import (
	"testing"

	"rentout-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"150.00", 15000, false},
		{"0.1", 10, false},
		{"1.500", 150, false},
		{"-2.25", -225, false},
		{"1.005", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := toCents("amount", decimal.RequireFromString(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "150.00", formatCents(15000))
	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "-1.20", formatCents(-120))
}
