package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de la venta. El caso de uso hace todo el ciclo
// leer-calcular-persistir dentro de fn; si fn retorna error se hace rollback
// (atomicidad: nunca quedan items sin factura ni descuentos parciales).
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		denominationRepo repository.DenominationRepository,
	) error) error
}

// ReceiptMailer envía el recibo de la venta por correo. Best-effort:
// un fallo de correo jamás revierte ni falla la venta, solo se loguea.
type ReceiptMailer interface {
	SendReceipt(to, purchaseID string, total, changeDue decimal.Decimal) error
}

// ReceiptPDFGenerator genera el PDF del recibo de una venta ya confirmada.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		purchase *entity.Purchase,
		customer *entity.Customer,
		items []*entity.PurchaseItem,
	) ([]byte, error)
}
