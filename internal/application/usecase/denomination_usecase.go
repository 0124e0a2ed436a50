package usecase

import (
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// DenominationUseCase consulta y recuento manual del inventario de la caja.
// El descuento por cambio entregado NO pasa por aquí: ocurre dentro de la
// transacción de la venta (GenerateBillUseCase).
type DenominationUseCase struct {
	repo repository.DenominationRepository
}

// NewDenominationUseCase construye el caso de uso.
func NewDenominationUseCase(repo repository.DenominationRepository) *DenominationUseCase {
	return &DenominationUseCase{repo: repo}
}

// List devuelve el inventario de la caja en orden de valor descendente.
func (uc *DenominationUseCase) List() (*dto.DenominationListResponse, error) {
	denominations, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	resp := &dto.DenominationListResponse{Items: make([]dto.DenominationResponse, 0, len(denominations))}
	for _, d := range denominations {
		resp.Items = append(resp.Items, dto.DenominationResponse{Value: d.Value, Count: d.Count})
	}
	return resp, nil
}

// Recount fija conteos tras un recuento físico de la caja. Valores que no
// existen en la caja se ignoran sin error (mismo contrato que el recuento
// original); conteos negativos rechazan la petición completa.
func (uc *DenominationUseCase) Recount(in dto.RecountRequest) (*dto.DenominationListResponse, error) {
	if len(in.Counts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, count := range in.Counts {
		if count < 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	for value, count := range in.Counts {
		if err := uc.repo.SetCount(value, count); err != nil {
			return nil, err
		}
	}
	return uc.List()
}
