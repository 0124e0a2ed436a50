package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
	"github.com/jhoicas/caja-pos/internal/domain/till"
)

var _ repository.DenominationRepository = (*DenominationRepo)(nil)

// DenominationRepo implementación de DenominationRepository (usable con pool o tx).
// El par SnapshotForUpdate + DecrementDispensed implementa la disciplina
// single-writer de la caja: las filas quedan bloqueadas desde el snapshot
// hasta el commit de la venta.
type DenominationRepo struct {
	q Querier
}

// NewDenominationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDenominationRepository(q Querier) *DenominationRepo {
	return &DenominationRepo{q: q}
}

// List devuelve las denominaciones en orden de valor descendente.
func (r *DenominationRepo) List() ([]*entity.Denomination, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT value, count FROM denominations ORDER BY value DESC`)
	if err != nil {
		return nil, fmt.Errorf("list denominations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Denomination
	for rows.Next() {
		var d entity.Denomination
		if err := rows.Scan(&d.Value, &d.Count); err != nil {
			return nil, fmt.Errorf("scan denomination: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// SnapshotForUpdate lee el inventario completo bloqueando las filas
// (FOR UPDATE). Debe llamarse dentro de una transacción; el lock vive hasta
// el commit/rollback.
func (r *DenominationRepo) SnapshotForUpdate() (till.Ledger, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT value, count FROM denominations ORDER BY value DESC FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("snapshot denominations: %w", err)
	}
	defer rows.Close()
	ledger := till.Ledger{}
	for rows.Next() {
		var value, count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, fmt.Errorf("scan denomination: %w", err)
		}
		ledger[value] = count
	}
	return ledger, rows.Err()
}

// DecrementDispensed descuenta las unidades entregadas. La guardia
// count >= $2 en el WHERE re-verifica disponibilidad: si la fila no se
// afecta es que el stock ya no alcanza y se retorna
// domain.ErrInsufficientDenomination (el caller hace rollback).
func (r *DenominationRepo) DecrementDispensed(dispensed till.Breakdown) error {
	for value, count := range dispensed {
		if count <= 0 {
			continue
		}
		cmd, err := r.q.Exec(context.Background(),
			`UPDATE denominations SET count = count - $2 WHERE value = $1 AND count >= $2`,
			value, count,
		)
		if err != nil {
			return fmt.Errorf("decrement denomination %d: %w", value, err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrInsufficientDenomination
		}
	}
	return nil
}

// SetCount fija el conteo de una denominación existente (recuento manual).
// Un valor que no existe en la caja no afecta filas y se ignora sin error.
func (r *DenominationRepo) SetCount(value, count int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE denominations SET count = $2 WHERE value = $1`,
		value, count,
	)
	if err != nil {
		return fmt.Errorf("set denomination count: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza una denominación (siembra de la caja).
func (r *DenominationRepo) Upsert(denomination *entity.Denomination) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO denominations (value, count) VALUES ($1, $2)
		 ON CONFLICT (value) DO UPDATE SET count = EXCLUDED.count`,
		denomination.Value, denomination.Count,
	)
	if err != nil {
		return fmt.Errorf("upsert denomination: %w", err)
	}
	return nil
}
