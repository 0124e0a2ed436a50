package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa la cabecera de una venta ya cobrada.
// ChangeDue puede ser negativo si el cliente pagó de menos; se registra tal
// cual (la capa superior decide política, no se rechaza la venta).
// ChangeLeftover es el remanente en unidades enteras que la caja no pudo
// entregar con las denominaciones disponibles.
type Purchase struct {
	ID             string
	CustomerID     string
	Timestamp      time.Time
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	ChangeDue      decimal.Decimal
	ChangeLeftover int64
}

// PurchaseItem representa una línea de la venta. Pertenece a su Purchase
// (se crea y consulta siempre junto a la cabecera).
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	ProductCode string
	Qty         int64
	UnitPrice   decimal.Decimal
	TaxPercent  decimal.Decimal
	LineTotal   decimal.Decimal // round(UnitPrice*Qty*(1+TaxPercent/100), 2)
}
