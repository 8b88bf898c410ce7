package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const statementHeader = "Data e hora,Meio - Meio,Identificador,Valor (R$),Líquido (R$)\n"

func TestStatementParserParse(t *testing.T) {
	parser := NewStatementParser(zap.NewNop())

	t.Run("well formed feed", func(t *testing.T) {
		feed := statementHeader +
			`"27 Jun, 2025 · 14:32",Crédito,TX001,"2.487,17","2.400,00"` + "\n" +
			`"28 Jun, 2025 · 09:05",Pix,TX002,"150,00","150,00"` + "\n"

		diag := NewDiagnostics()
		txs, err := parser.Parse(strings.NewReader(feed), diag)
		require.NoError(t, err)
		require.Len(t, txs, 2)

		assert.Equal(t, time.Date(2025, 6, 27, 14, 32, 0, 0, time.UTC), txs[0].Timestamp)
		assert.Equal(t, "Crédito", txs[0].MethodLabel)
		assert.Equal(t, "TX001", txs[0].Identifier)
		assert.InDelta(t, 2487.17, txs[0].GrossValue, 0.001)
		assert.InDelta(t, 2400.00, txs[0].NetValue, 0.001)

		assert.Equal(t, "Pix", txs[1].MethodLabel)
		assert.InDelta(t, 150.00, txs[1].GrossValue, 0.001)
		assert.Zero(t, diag.Total())
	})

	t.Run("bad rows excluded not fatal", func(t *testing.T) {
		feed := statementHeader +
			`"27 Jun, 2025 · 14:32",Crédito,TX001,"100,00","98,00"` + "\n" +
			`"not a date",Pix,TX002,"50,00","50,00"` + "\n" +
			`"30 Jun, 2025 · 10:00",Pix,TX003,"abc","50,00"` + "\n"

		diag := NewDiagnostics()
		txs, err := parser.Parse(strings.NewReader(feed), diag)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "TX001", txs[0].Identifier)
		assert.Equal(t, 2, diag.Count(ReasonBadStatementRow))
	})

	t.Run("short rows excluded not fatal", func(t *testing.T) {
		feed := statementHeader +
			`"27 Jun, 2025 · 14:32",Crédito` + "\n" +
			`"28 Jun, 2025 · 09:05"` + "\n" +
			`"29 Jun, 2025 · 11:10",Pix,TX003,"75,00"` + "\n"

		diag := NewDiagnostics()
		txs, err := parser.Parse(strings.NewReader(feed), diag)
		require.NoError(t, err)
		require.Len(t, txs, 1, "row without the optional net column still parses")
		assert.Equal(t, "TX003", txs[0].Identifier)
		assert.Zero(t, txs[0].NetValue)
		assert.Equal(t, 2, diag.Count(ReasonBadStatementRow))
	})

	t.Run("bad net value keeps row", func(t *testing.T) {
		feed := statementHeader +
			`"27 Jun, 2025 · 14:32",Crédito,TX001,"100,00",n/d` + "\n"

		diag := NewDiagnostics()
		txs, err := parser.Parse(strings.NewReader(feed), diag)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Zero(t, txs[0].NetValue)
		assert.Zero(t, diag.Total())
	})

	t.Run("missing required column is fatal", func(t *testing.T) {
		feed := "Data e hora,Meio - Meio,Valor (R$)\n" +
			`"27 Jun, 2025 · 14:32",Crédito,"100,00"` + "\n"

		_, err := parser.Parse(strings.NewReader(feed), NewDiagnostics())
		require.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := parser.Parse(strings.NewReader(""), NewDiagnostics())
		require.ErrorIs(t, err, ErrEmptySource)
	})
}

func TestParseStatementTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "middle dot separator",
			in:   "27 Jun, 2025 · 14:32",
			want: time.Date(2025, 6, 27, 14, 32, 0, 0, time.UTC),
		},
		{
			name: "dash separator",
			in:   "3 Mar, 2025 - 9:05",
			want: time.Date(2025, 3, 3, 9, 5, 0, 0, time.UTC),
		},
		{
			name: "no comma after month",
			in:   "15 Dez 2024 · 23:59",
			want: time.Date(2024, 12, 15, 23, 59, 0, 0, time.UTC),
		},
		{
			name: "single digit day",
			in:   "1 Mar, 2025 · 08:00",
			want: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{name: "unknown month", in: "27 Xyz, 2025 · 14:32", wantErr: true},
		{name: "day overflow", in: "31 Jun, 2025 · 14:32", wantErr: true},
		{name: "plain layout", in: "2025-06-27 14:32", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatementTime(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}
