package billing

import (
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// HistoryUseCase consultas de lectura sobre ventas ya confirmadas.
type HistoryUseCase struct {
	customerRepo repository.CustomerRepository
	purchaseRepo repository.PurchaseRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(customerRepo repository.CustomerRepository, purchaseRepo repository.PurchaseRepository) *HistoryUseCase {
	return &HistoryUseCase{customerRepo: customerRepo, purchaseRepo: purchaseRepo}
}

// PurchasesByEmail devuelve el historial de un cliente (más reciente
// primero). Un email sin cliente registrado devuelve historial vacío, no
// error: es el comportamiento esperado por el mostrador.
func (uc *HistoryUseCase) PurchasesByEmail(email string, limit, offset int) (*dto.PurchaseHistoryResponse, error) {
	resp := &dto.PurchaseHistoryResponse{
		CustomerEmail: email,
		Purchases:     []dto.PurchaseSummaryResponse{},
	}
	customer, err := uc.customerRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return resp, nil
	}
	purchases, err := uc.purchaseRepo.ListByCustomer(customer.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, p := range purchases {
		resp.Purchases = append(resp.Purchases, dto.PurchaseSummaryResponse{
			ID:          p.ID,
			Timestamp:   p.Timestamp,
			TotalAmount: p.TotalAmount,
			PaidAmount:  p.PaidAmount,
			ChangeDue:   p.ChangeDue,
		})
	}
	return resp, nil
}

// PurchaseByID devuelve una venta con sus líneas.
func (uc *HistoryUseCase) PurchaseByID(id string) (*dto.PurchaseDetailResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchaseRepo.GetItemsByPurchaseID(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.PurchaseDetailResponse{
		ID:             purchase.ID,
		Timestamp:      purchase.Timestamp,
		TotalAmount:    purchase.TotalAmount,
		PaidAmount:     purchase.PaidAmount,
		ChangeDue:      purchase.ChangeDue,
		ChangeLeftover: purchase.ChangeLeftover,
		Items:          make([]dto.BillItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.BillItemResponse{
			ProductCode: item.ProductCode,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			TaxPercent:  item.TaxPercent,
			LineTotal:   item.LineTotal,
		})
	}
	return resp, nil
}
