// Package till contiene la lógica pura de la caja registradora: cálculo
// voraz del cambio a entregar contra el inventario de denominaciones y la
// conciliación posterior del inventario.
//
// El algoritmo es voraz en orden descendente de valor. Es exacto para
// juegos de denominaciones canónicos (familias 1/2/5/10, p. ej.
// {100,50,20,10,5,1}) pero NO está probado óptimo para juegos arbitrarios;
// es una limitación de diseño conocida. No reemplazar por coin-change
// óptimo (programación dinámica) sin decisión de producto: cambiaría el
// resultado observable para juegos de denominaciones no canónicos.
package till

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/domain"
)

// Ledger es un snapshot del inventario de la caja: valor → unidades
// disponibles. Las funciones de este paquete nunca lo mutan.
type Ledger map[int64]int64

// Breakdown es el desglose de cambio entregado: valor → unidades.
type Breakdown map[int64]int64

// Total devuelve la suma valor*unidades del desglose.
func (b Breakdown) Total() int64 {
	var sum int64
	for value, count := range b {
		sum += value * count
	}
	return sum
}

// Clone devuelve una copia independiente del snapshot.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for value, count := range l {
		out[value] = count
	}
	return out
}

// ComputeChange calcula el desglose voraz del cambio contra un snapshot de
// la caja. Es una función pura: no muta el ledger (la conciliación es
// responsabilidad del caller vía ApplyDispensed).
//
// Reglas:
//   - changeAmount <= 0 → desglose vacío y leftover 0 (no se debe cambio;
//     un pago insuficiente nunca produce conteos de denominación espurios).
//   - El monto se redondea a la unidad entera más cercana antes de asignar:
//     las fracciones por debajo de una unidad siempre quedan en leftover,
//     porque las denominaciones son de unidad entera.
//   - Por cada valor de mayor a menor: need = remaining/v,
//     take = min(need, disponible). Lo que no se pueda representar se
//     reporta en leftover, nunca se descarta (el operador necesita saber
//     que la caja no alcanza a dar cambio exacto).
func ComputeChange(changeAmount decimal.Decimal, ledger Ledger) (Breakdown, int64) {
	breakdown := Breakdown{}
	if !changeAmount.IsPositive() {
		return breakdown, 0
	}

	remaining := changeAmount.Round(0).IntPart()

	values := make([]int64, 0, len(ledger))
	for value := range ledger {
		values = append(values, value)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	for _, value := range values {
		if remaining <= 0 {
			break
		}
		if value <= 0 {
			continue
		}
		need := remaining / value
		take := need
		if available := ledger[value]; take > available {
			take = available
		}
		if take > 0 {
			breakdown[value] = take
			remaining -= value * take
		}
	}
	return breakdown, remaining
}

// ApplyDispensed descuenta del snapshot las unidades entregadas y devuelve
// el ledger resultante sin tocar el original. Re-verifica la disponibilidad
// aunque ComputeChange ya acota take <= disponible: si otra venta consumió
// el stock entre el cálculo y la conciliación, falla con
// domain.ErrInsufficientDenomination en lugar de dejar un conteo negativo.
func ApplyDispensed(ledger Ledger, dispensed Breakdown) (Ledger, error) {
	updated := ledger.Clone()
	for value, count := range dispensed {
		if count <= 0 {
			continue
		}
		available, ok := updated[value]
		if !ok || available < count {
			return nil, domain.ErrInsufficientDenomination
		}
		updated[value] = available - count
	}
	return updated, nil
}
