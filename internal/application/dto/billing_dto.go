package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillLineRequest línea solicitada por el cajero: código y cantidad.
type BillLineRequest struct {
	ProductCode string `json:"product_code"`
	Qty         int64  `json:"qty"`
}

// GenerateBillRequest petición para generar una venta.
type GenerateBillRequest struct {
	CustomerEmail string            `json:"customer_email"`
	PaidAmount    decimal.Decimal   `json:"paid_amount"`
	Items         []BillLineRequest `json:"items"`
}

// BillItemResponse línea valorizada de la factura.
type BillItemResponse struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Qty         int64           `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SkippedLineResponse línea descartada y su razón (diagnóstico para el operador).
type SkippedLineResponse struct {
	ProductCode string `json:"product_code"`
	Qty         int64  `json:"qty"`
	Reason      string `json:"reason"`
}

// ChangeLineResponse una denominación entregada como cambio.
type ChangeLineResponse struct {
	Value int64 `json:"value"`
	Count int64 `json:"count"`
}

// BillResponse resultado de la venta: factura, cambio desglosado y remanente.
// Leftover > 0 significa que la caja no alcanzó a dar cambio exacto; el
// operador debe saberlo, no es un error.
type BillResponse struct {
	PurchaseID      string                `json:"purchase_id"`
	CustomerEmail   string                `json:"customer_email"`
	Timestamp       time.Time             `json:"timestamp"`
	Items           []BillItemResponse    `json:"items"`
	Skipped         []SkippedLineResponse `json:"skipped,omitempty"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	ChangeDue       decimal.Decimal       `json:"change_due"`
	ChangeBreakdown []ChangeLineResponse  `json:"change_breakdown"`
	ChangeLeftover  int64                 `json:"change_leftover"`
}

// PurchaseSummaryResponse cabecera de una venta en el historial.
type PurchaseSummaryResponse struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	ChangeDue   decimal.Decimal `json:"change_due"`
}

// PurchaseHistoryResponse historial de compras de un cliente.
type PurchaseHistoryResponse struct {
	CustomerEmail string                    `json:"customer_email"`
	Purchases     []PurchaseSummaryResponse `json:"purchases"`
}

// PurchaseDetailResponse una venta con sus líneas.
type PurchaseDetailResponse struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	ChangeDue      decimal.Decimal    `json:"change_due"`
	ChangeLeftover int64              `json:"change_leftover"`
	Items          []BillItemResponse `json:"items"`
}
