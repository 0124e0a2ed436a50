package repository

import (
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/till"
)

// DenominationRepository define el puerto de persistencia para el inventario
// de denominaciones de la caja.
type DenominationRepository interface {
	// List devuelve las denominaciones ordenadas por valor descendente.
	List() ([]*entity.Denomination, error)
	// SnapshotForUpdate devuelve el inventario como snapshot bloqueando las
	// filas (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una
	// transacción: es la disciplina single-writer de la caja.
	SnapshotForUpdate() (till.Ledger, error)
	// DecrementDispensed descuenta las unidades entregadas con guardia de
	// disponibilidad en el propio UPDATE; retorna
	// domain.ErrInsufficientDenomination si alguna fila no alcanza.
	DecrementDispensed(dispensed till.Breakdown) error
	// SetCount fija el conteo de una denominación existente (recuento
	// manual). Valores desconocidos se ignoran sin error.
	SetCount(value, count int64) error
	Upsert(denomination *entity.Denomination) error
}
