package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del punto de venta.
// AvailableStock se descuenta en cada venta y nunca baja de cero
// (política permisiva: una venta no se bloquea por conteo desactualizado).
type Product struct {
	ID             string
	Code           string // código único del producto (lo que digita el cajero)
	Name           string
	Price          decimal.Decimal // precio unitario sin impuesto
	TaxPercent     decimal.Decimal // 0–100
	AvailableStock int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
