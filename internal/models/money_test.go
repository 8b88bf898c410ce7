package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "comma decimal", in: "2487,17", want: 2487.17},
		{name: "thousands and decimal", in: "1.234,56", want: 1234.56},
		{name: "currency prefix", in: "R$ 150,00", want: 150.00},
		{name: "quoted", in: `"1.000,00"`, want: 1000.00},
		{name: "integer", in: "42", want: 42},
		{name: "negative", in: "-12,50", want: -12.50},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBRNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}
