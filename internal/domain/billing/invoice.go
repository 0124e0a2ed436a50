// Package billing contiene la aritmética pura de la factura: totales por
// línea con impuesto, total general y cambio a devolver. La persistencia y
// el descuento de caja viven en la capa de aplicación.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// Razones por las que una línea solicitada queda fuera de la factura.
const (
	SkipUnknownProduct = "UNKNOWN_PRODUCT"
	SkipInvalidQty     = "INVALID_QTY"
)

// LineRequest es una línea tal como llega del cajero: código y cantidad.
type LineRequest struct {
	ProductCode string
	Qty         int64
}

// Line es una línea ya valorizada de la factura.
type Line struct {
	Product    *entity.Product
	Qty        int64
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
	LineTotal  decimal.Decimal
}

// SkippedLine registra una línea descartada y su razón, para que la capa de
// aplicación pueda emitir el diagnóstico (un código mal digitado no falla
// la factura completa, pero tampoco debe perderse en silencio).
type SkippedLine struct {
	ProductCode string
	Qty         int64
	Reason      string
}

// Invoice es el borrador en memoria de la factura: líneas valorizadas,
// total y cambio. ChangeDue conserva el signo: un pago insuficiente produce
// un valor negativo que se registra tal cual (la política de bloqueo, si la
// hubiera, es decisión de una capa superior).
type Invoice struct {
	Items     []Line
	Total     decimal.Decimal
	Paid      decimal.Decimal
	ChangeDue decimal.Decimal
	Skipped   []SkippedLine
}

// ProductLookup resuelve un código de producto a su entidad; nil si no existe.
type ProductLookup func(code string) *entity.Product

var oneHundred = decimal.NewFromInt(100)

// LineTotal calcula round(price*qty*(1+tax/100), 2) para una línea.
func LineTotal(unitPrice decimal.Decimal, qty int64, taxPercent decimal.Decimal) decimal.Decimal {
	net := unitPrice.Mul(decimal.NewFromInt(qty))
	tax := net.Mul(taxPercent.Div(oneHundred))
	return net.Add(tax).Round(2)
}

// BuildInvoice valoriza las líneas solicitadas contra el catálogo y produce
// el borrador de factura.
//
// Comportamiento tolerante heredado del sistema: un código desconocido o una
// cantidad no positiva descartan solo esa línea (queda en Skipped con su
// razón), nunca la factura completa.
func BuildInvoice(lines []LineRequest, lookup ProductLookup, paid decimal.Decimal) *Invoice {
	inv := &Invoice{Paid: paid}
	total := decimal.Zero

	for _, req := range lines {
		if req.Qty <= 0 {
			inv.Skipped = append(inv.Skipped, SkippedLine{ProductCode: req.ProductCode, Qty: req.Qty, Reason: SkipInvalidQty})
			continue
		}
		product := lookup(req.ProductCode)
		if product == nil {
			inv.Skipped = append(inv.Skipped, SkippedLine{ProductCode: req.ProductCode, Qty: req.Qty, Reason: SkipUnknownProduct})
			continue
		}
		lineTotal := LineTotal(product.Price, req.Qty, product.TaxPercent)
		inv.Items = append(inv.Items, Line{
			Product:    product,
			Qty:        req.Qty,
			UnitPrice:  product.Price,
			TaxPercent: product.TaxPercent,
			LineTotal:  lineTotal,
		})
		total = total.Add(lineTotal)
	}

	inv.Total = total.Round(2)
	inv.ChangeDue = paid.Sub(inv.Total).Round(2)
	return inv
}
