package entity

import "time"

// Customer representa un cliente identificado por su email.
// Se crea automáticamente (upsert) al generar su primera factura.
type Customer struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
