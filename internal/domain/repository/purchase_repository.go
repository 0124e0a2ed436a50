package repository

import (
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para Purchase y sus
// líneas. Las líneas se crean siempre dentro de la misma transacción que la
// cabecera (nunca items sueltos sin factura padre).
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	GetItemsByPurchaseID(purchaseID string) ([]*entity.PurchaseItem, error)
	ListByCustomer(customerID string, limit, offset int) ([]*entity.Purchase, error)
}
