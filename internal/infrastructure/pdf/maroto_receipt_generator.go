// Package pdf implementa la generación del recibo de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  N° Recibo + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: email                                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Cant | P.Unit | Imp% | Total línea          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Pagado / Cambio / Remanente                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appbilling "github.com/jhoicas/caja-pos/internal/application/billing"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa billing.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	businessName string
}

// NewMarotoReceiptGenerator construye el generador con el nombre del negocio
// que encabeza el recibo.
func NewMarotoReceiptGenerator(businessName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{businessName: businessName}
}

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	purchase *entity.Purchase,
	customer *entity.Customer,
	items []*entity.PurchaseItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de compra", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, purchase))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(purchase) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y N° recibo + fecha (der).
func headerRow(businessName string, purchase *entity.Purchase) core.Row {
	fecha := purchase.Timestamp.Format("02/01/2006 15:04")
	return row.New(16).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Recibo: "+purchase.ID, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fecha, props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// customerRow: email del cliente.
func customerRow(customer *entity.Customer) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Cliente: "+customer.Email, props.Text{Size: 9, Top: 1}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}
	return row.New(8).Add(
		col.New(3).Add(text.New("Código", header)),
		col.New(2).Add(text.New("Cant.", header)),
		col.New(2).Add(text.New("P. Unit", header)),
		col.New(2).Add(text.New("Imp. %", header)),
		col.New(3).Add(text.New("Total línea", header)),
	)
}

func tableItemRows(items []*entity.PurchaseItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(item.ProductCode, props.Text{Size: 8})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", item.Qty), props.Text{Size: 8})),
			col.New(2).Add(text.New(item.UnitPrice.StringFixed(2), props.Text{Size: 8})),
			col.New(2).Add(text.New(item.TaxPercent.StringFixed(1), props.Text{Size: 8})),
			col.New(3).Add(text.New(item.LineTotal.StringFixed(2), props.Text{Size: 8})),
		))
	}
	return rows
}

// totalsRows: total, pagado, cambio y, si aplica, el remanente que la caja
// no pudo entregar.
func totalsRows(purchase *entity.Purchase) []core.Row {
	label := props.Text{Size: 9, Align: align.Right}
	value := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}

	rows := []core.Row{
		totalsLine("TOTAL:", purchase.TotalAmount.StringFixed(2), label, value),
		totalsLine("Pagado:", purchase.PaidAmount.StringFixed(2), label, value),
		totalsLine("Cambio:", purchase.ChangeDue.StringFixed(2), label, value),
	}
	if purchase.ChangeLeftover > 0 {
		rows = append(rows, totalsLine(
			"No entregado (sin denominaciones):",
			fmt.Sprintf("%d", purchase.ChangeLeftover),
			label, value,
		))
	}
	return rows
}

func totalsLine(name, amount string, label, value props.Text) core.Row {
	return row.New(6).Add(
		col.New(9).Add(text.New(name, label)),
		col.New(3).Add(text.New(amount, value)),
	)
}
