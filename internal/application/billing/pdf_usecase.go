package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// PDFUseCase genera el recibo en PDF de una venta ya confirmada.
type PDFUseCase struct {
	purchaseRepo repository.PurchaseRepository
	customerRepo repository.CustomerRepository
	generator    ReceiptPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	purchaseRepo repository.PurchaseRepository,
	customerRepo repository.CustomerRepository,
	generator ReceiptPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		purchaseRepo: purchaseRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadReceiptPDF recupera la venta con sus líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe.
func (uc *PDFUseCase) DownloadReceiptPDF(ctx context.Context, purchaseID string) (pdfBytes []byte, filename string, err error) {
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if purchase == nil {
		return nil, "", domain.ErrNotFound
	}

	items, err := uc.purchaseRepo.GetItemsByPurchaseID(purchaseID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	customer, err := uc.customerRepo.GetByID(purchase.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: cliente %s no encontrado", purchase.CustomerID)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, purchase, customer, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar recibo: %w", err)
	}
	filename = fmt.Sprintf("recibo-%s.pdf", purchase.ID)
	return pdfBytes, filename, nil
}
