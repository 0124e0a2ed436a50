package dto

// DenominationResponse una denominación de la caja y sus unidades disponibles.
type DenominationResponse struct {
	Value int64 `json:"value"`
	Count int64 `json:"count"`
}

// DenominationListResponse inventario completo de la caja (valor descendente).
type DenominationListResponse struct {
	Items []DenominationResponse `json:"items"`
}

// RecountRequest recuento manual de la caja: valor -> nuevo conteo.
// Valores que no existen en la caja se ignoran.
type RecountRequest struct {
	Counts map[int64]int64 `json:"counts"`
}
