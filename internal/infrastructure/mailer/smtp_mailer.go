// Package mailer envía el recibo de la venta por SMTP. El envío es
// best-effort y corre fuera de la transacción de la venta: un servidor de
// correo caído jamás revierte una venta ya cobrada.
package mailer

import (
	"fmt"

	"github.com/shopspring/decimal"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/caja-pos/internal/application/billing"
	"github.com/jhoicas/caja-pos/pkg/config"
)

var _ billing.ReceiptMailer = (*SMTPMailer)(nil)

// SMTPMailer implementación de billing.ReceiptMailer sobre gomail.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer construye el mailer. Retorna nil si no hay host configurado
// (correo deshabilitado; el caso de uso tolera mailer nil).
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if cfg.Host == "" {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

// SendReceipt envía el recibo de la venta al correo del cliente.
func (m *SMTPMailer) SendReceipt(to, purchaseID string, total, changeDue decimal.Decimal) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Recibo de compra %s", purchaseID))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Gracias por su compra.\n\nRecibo: %s\nTotal: %s\nCambio: %s\n",
		purchaseID, total.StringFixed(2), changeDue.StringFixed(2),
	))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar recibo %s: %w", purchaseID, err)
	}
	return nil
}
