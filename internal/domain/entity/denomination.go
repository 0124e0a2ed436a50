package entity

// Denomination representa una denominación física de la caja (billete o
// moneda) y cuántas unidades hay disponibles. Value es único en la caja.
// Se siembra al montar la caja, se descuenta al entregar cambio y se corrige
// con recuentos manuales; nunca se elimina.
type Denomination struct {
	Value int64 // valor en unidades enteras de moneda
	Count int64 // unidades disponibles, nunca negativo
}
