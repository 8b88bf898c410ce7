package report

import "github.com/xuri/excelize/v2"

// Visual configuration carried over from the workshop's report theme.
const (
	headerBackground = "2E86AB"
	headerFontColor  = "FFFFFF"
	borderColor      = "B0B0B0"

	currencyFormatBRL = `"R$" #,##0.00`
	dateFormatBR      = "dd/mm/yyyy"

	defaultColumnWidth = 15
)

// columnWidths by header; anything missing gets defaultColumnWidth.
var columnWidths = map[string]float64{
	"N° OS":             10,
	"VEÍCULO (PLACA)":   28,
	"Identificador":     34,
	"Observação":        60,
	"Métrica":           34,
	"Valor":             22,
	"Status":            22,
	"VALOR MÃO DE OBRA": 18,
}

// styleSet holds the resolved style IDs for one workbook.
type styleSet struct {
	header   int
	data     int
	currency int
	date     int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	borders := []excelize.Border{
		{Type: "left", Color: borderColor, Style: 1},
		{Type: "right", Color: borderColor, Style: 1},
		{Type: "top", Color: borderColor, Style: 1},
		{Type: "bottom", Color: borderColor, Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFontColor},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerBackground}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders,
	})
	if err != nil {
		return styleSet{}, err
	}

	data, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    borders,
	})
	if err != nil {
		return styleSet{}, err
	}

	brl := currencyFormatBRL
	currency, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &brl,
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       borders,
	})
	if err != nil {
		return styleSet{}, err
	}

	dateFmt := dateFormatBR
	date, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &dateFmt,
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:       borders,
	})
	if err != nil {
		return styleSet{}, err
	}

	return styleSet{header: header, data: data, currency: currency, date: date}, nil
}

func widthFor(header string) float64 {
	if w, ok := columnWidths[header]; ok {
		return w
	}
	return defaultColumnWidth
}
