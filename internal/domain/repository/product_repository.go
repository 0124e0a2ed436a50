package repository

import (
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	// DecrementStockClamped descuenta qty del stock sin dejarlo negativo
	// (clamp en cero): sobrevender más allá del stock registrado se tolera
	// para no bloquear ventas por conteos desactualizados.
	DecrementStockClamped(productID string, qty int64) error
}
