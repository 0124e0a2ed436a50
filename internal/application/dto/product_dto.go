package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest datos para crear un producto del catálogo.
type CreateProductRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	TaxPercent     decimal.Decimal `json:"tax_percent"`
	AvailableStock int64           `json:"available_stock"`
}

// UpdateProductRequest campos opcionales a actualizar.
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Price          *decimal.Decimal `json:"price"`
	TaxPercent     *decimal.Decimal `json:"tax_percent"`
	AvailableStock *int64           `json:"available_stock"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	TaxPercent     decimal.Decimal `json:"tax_percent"`
	AvailableStock int64           `json:"available_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
