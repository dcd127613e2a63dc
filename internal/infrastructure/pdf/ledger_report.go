// Package pdf genera el reporte de movimientos (kardex) de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Modelo + Tipo       │  Fecha de emisión            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: Proveedor / Deflexión / Costo unitario            │
//	│  RESUMEN: Entradas / Salidas / Existencia / Costo prom. / Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cant. | Costo | Total | Descripción   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	ledger "github.com/jhoicas/stock-ledger-api/internal/domain/stock"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorIn      = &props.Color{Red: 0, Green: 110, Blue: 60}
	colorOut     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ stock.ReportGenerator = (*LedgerReportGenerator)(nil)

// LedgerReportGenerator implementa stock.ReportGenerator usando Maroto v2.
type LedgerReportGenerator struct {
	now func() time.Time
}

// NewLedgerReportGenerator construye el generador.
func NewLedgerReportGenerator() *LedgerReportGenerator {
	return &LedgerReportGenerator{now: time.Now}
}

// GenerateLedgerReport genera el PDF y devuelve sus bytes. entries debe venir ordenado por fecha.
func (g *LedgerReportGenerator) GenerateLedgerReport(product *entity.Product, entries []*entity.StockEntry) ([]byte, error) {
	if product == nil {
		return nil, fmt.Errorf("pdf: producto nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Movimientos de stock "+product.Model, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(product))
	m.AddRows(summaryRow(product, entries))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(entries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range tableRows(entries) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p *entity.Product, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(p.Model, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Tipo: "+nonEmpty(p.Type, "—"), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("MOVIMIENTOS DE STOCK", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func productRow(p *entity.Product) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Proveedor: %s   |   Deflexión: %s   |   Costo unitario: $%s",
				nonEmpty(p.Supplier, "—"),
				nonEmpty(p.Deflection, "—"),
				formatMoney(p.UnitCost),
			), props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

func summaryRow(p *entity.Product, entries []*entity.StockEntry) core.Row {
	var in, out int64
	for _, e := range entries {
		if e.StockType == entity.StockTypeOut {
			out += e.Quantity
		} else {
			in += e.Quantity
		}
	}
	cell := func(size int, label, value string, c *props.Color) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6, Color: c}),
		)
	}
	v := ledger.Valuate(entries)
	return row.New(16).Add(
		cell(2, "Entradas", fmt.Sprintf("%d", in), colorIn),
		cell(2, "Salidas", fmt.Sprintf("%d", out), colorOut),
		cell(2, "Existencia", fmt.Sprintf("%d", p.Quantity), colorPrimary),
		cell(3, "Costo promedio", "$"+formatMoney(v.AverageCost), colorGray),
		cell(3, "Valor en stock", "$"+formatMoney(v.Value), colorPrimary),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Costo unit.", 2, align.Right),
		h("Total", 2, align.Right),
		h("Descripción", 3, align.Left),
	)
}

func tableRows(entries []*entity.StockEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		color := colorIn
		if e.StockType == entity.StockTypeOut {
			color = colorOut
		}
		total := e.UnitCost.Mul(decimal.NewFromInt(e.Quantity))
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(e.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(e.StockType, props.Text{Size: 8, Top: 1, Color: color})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", e.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(e.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(truncate(e.Description, 60), props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal. Ej: 1234567.5 → "1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
