package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrderRef(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		want      OrderRef
		wantErr   bool
	}{
		{name: "valid reference", reference: "O1234", want: 1234},
		{name: "single digit", reference: "O7", want: 7},
		{name: "lowercase prefix", reference: "o1234", wantErr: true},
		{name: "missing prefix", reference: "1234", wantErr: true},
		{name: "trailing text", reference: "O1234X", wantErr: true},
		{name: "embedded reference", reference: "XO1234", wantErr: true},
		{name: "empty", reference: "", wantErr: true},
		{name: "prefix only", reference: "O", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOrderRef(tt.reference)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnresolvableRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAccountCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    AccountCode
		wantErr bool
	}{
		{name: "valid code", code: "R56", want: 56},
		{name: "long code", code: "R123456", want: 123456},
		{name: "order prefix", code: "O56", wantErr: true},
		{name: "no digits", code: "R", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAccountCode(tt.code)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnresolvableRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
