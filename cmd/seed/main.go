// seed crea el esquema de caja-pos y lo puebla con datos de demostración:
// productos, denominaciones de la caja y un usuario administrador.
//
// Uso: go run ./cmd/seed
// Lee la conexión de DATABASE_URL o de las variables DB_* (ver pkg/config).
// Es idempotente: usa IF NOT EXISTS y ON CONFLICT, se puede re-ejecutar.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/caja-pos/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id              TEXT PRIMARY KEY,
    code            TEXT NOT NULL UNIQUE,
    name            TEXT NOT NULL,
    price           NUMERIC(14,2) NOT NULL,
    tax_percent     NUMERIC(5,2)  NOT NULL DEFAULT 0,
    available_stock BIGINT        NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ   NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ   NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS customers (
    id         TEXT PRIMARY KEY,
    email      TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS purchases (
    id              TEXT PRIMARY KEY,
    customer_id     TEXT NOT NULL REFERENCES customers(id),
    timestamp       TIMESTAMPTZ NOT NULL DEFAULT now(),
    total_amount    NUMERIC(14,2) NOT NULL,
    paid_amount     NUMERIC(14,2) NOT NULL,
    change_due      NUMERIC(14,2) NOT NULL,
    change_leftover BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS purchase_items (
    id           TEXT PRIMARY KEY,
    purchase_id  TEXT NOT NULL REFERENCES purchases(id),
    product_id   TEXT NOT NULL REFERENCES products(id),
    product_code TEXT NOT NULL,
    qty          BIGINT NOT NULL,
    unit_price   NUMERIC(14,2) NOT NULL,
    tax_percent  NUMERIC(5,2)  NOT NULL,
    line_total   NUMERIC(14,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_purchases_customer  ON purchases(customer_id);
CREATE INDEX IF NOT EXISTS idx_purchase_items_pid  ON purchase_items(purchase_id);

CREATE TABLE IF NOT EXISTS denominations (
    value BIGINT PRIMARY KEY,
    count BIGINT NOT NULL DEFAULT 0 CHECK (count >= 0)
);

CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    role          TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'active',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type demoProduct struct {
	code  string
	name  string
	price string
	tax   string
	stock int64
}

var demoProducts = []demoProduct{
	{"CAFE-250", "Café molido 250g", "18500.00", "19.00", 40},
	{"PAN-001", "Pan campesino", "4200.00", "0.00", 25},
	{"LECHE-1L", "Leche entera 1L", "4800.00", "0.00", 60},
	{"AZUCAR-1K", "Azúcar refinada 1kg", "5300.00", "5.00", 30},
	{"ARROZ-1K", "Arroz blanco 1kg", "4600.00", "5.00", 50},
}

// Denominaciones en pesos: billetes y monedas de circulación común.
var demoDenominations = map[int64]int64{
	100000: 2,
	50000:  5,
	20000:  10,
	10000:  10,
	5000:   20,
	2000:   20,
	1000:   30,
	500:    40,
	200:    50,
	100:    50,
	50:     50,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.DB.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		fmt.Fprintf(os.Stderr, "Crear esquema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Esquema creado/verificado")

	for _, p := range demoProducts {
		_, err := conn.Exec(ctx, `
			INSERT INTO products (id, code, name, price, tax_percent, available_stock)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO NOTHING`,
			uuid.NewString(), p.code, p.name, p.price, p.tax, p.stock)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Insertar producto %s: %v\n", p.code, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Productos: %d\n", len(demoProducts))

	for value, count := range demoDenominations {
		_, err := conn.Exec(ctx, `
			INSERT INTO denominations (value, count)
			VALUES ($1, $2)
			ON CONFLICT (value) DO NOTHING`,
			value, count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Insertar denominación %d: %v\n", value, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Denominaciones: %d\n", len(demoDenominations))

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@caja-pos.local"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		fmt.Println("AVISO: SEED_ADMIN_PASSWORD sin definir, usando clave por defecto")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashear clave: %v\n", err)
		os.Exit(1)
	}
	_, err = conn.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, status)
		VALUES ($1, $2, $3, 'Administrador', 'admin', 'active')
		ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), adminEmail, string(hash))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Insertar admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Admin: %s\n", adminEmail)
	fmt.Println("Listo")
}
