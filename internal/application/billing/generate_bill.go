package billing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	domainbilling "github.com/jhoicas/caja-pos/internal/domain/billing"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
	"github.com/jhoicas/caja-pos/internal/domain/till"
	"github.com/jhoicas/caja-pos/pkg/logger"
)

// GenerateBillUseCase genera una venta completa en una sola transacción:
// factura valorizada, cálculo de cambio contra la caja, persistencia de la
// venta, descuento de stock y descuento de denominaciones.
//
// Disciplina de concurrencia (single-writer sobre la caja): el snapshot de
// denominaciones se toma con FOR UPDATE dentro de la transacción, de modo
// que dos ventas compitiendo por el último billete se serializan: una lo
// entrega y la otra calcula contra el inventario ya descontado (cambio
// reducido o leftover), nunca un conteo negativo. Ante un conflicto de
// serialización se reintenta una vez con snapshot fresco.
type GenerateBillUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	mailer       ReceiptMailer
	log          *logger.Logger
}

// NewGenerateBillUseCase construye el caso de uso. mailer puede ser nil
// (correo deshabilitado).
func NewGenerateBillUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	mailer ReceiptMailer,
	log *logger.Logger,
) *GenerateBillUseCase {
	return &GenerateBillUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		mailer:       mailer,
		log:          log,
	}
}

// Generate procesa la venta. Un pago insuficiente se registra tal cual
// (ChangeDue negativo, sin cambio entregado); líneas con código desconocido
// o cantidad inválida se descartan individualmente y se reportan en
// Skipped, con un WARN por cada una para que los errores de digitación no
// queden enmascarados.
func (uc *GenerateBillUseCase) Generate(ctx context.Context, in dto.GenerateBillRequest) (*dto.BillResponse, error) {
	if in.CustomerEmail == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.upsertCustomer(in.CustomerEmail)
	if err != nil {
		return nil, err
	}

	lines := make([]domainbilling.LineRequest, 0, len(in.Items))
	for _, item := range in.Items {
		lines = append(lines, domainbilling.LineRequest{ProductCode: item.ProductCode, Qty: item.Qty})
	}

	result, err := uc.sellOnce(ctx, customer, lines, in)
	if errors.Is(err, domain.ErrLedgerConflict) {
		// Reintento único con snapshot refrescado (§ disciplina de caja).
		uc.log.Warn().Str("customer", in.CustomerEmail).Msg("conflicto de caja, reintentando venta")
		result, err = uc.sellOnce(ctx, customer, lines, in)
	}
	if err != nil {
		return nil, err
	}

	for _, skipped := range result.invoice.Skipped {
		uc.log.Warn().
			Str("product_code", skipped.ProductCode).
			Int64("qty", skipped.Qty).
			Str("reason", skipped.Reason).
			Msg("línea descartada de la factura")
	}

	uc.notify(customer, result)

	return uc.toResponse(customer, result), nil
}

// saleResult estado de una venta confirmada.
type saleResult struct {
	purchase  *entity.Purchase
	invoice   *domainbilling.Invoice
	breakdown till.Breakdown
	leftover  int64
}

// sellOnce ejecuta un intento completo de venta dentro de una transacción.
func (uc *GenerateBillUseCase) sellOnce(
	ctx context.Context,
	customer *entity.Customer,
	lines []domainbilling.LineRequest,
	in dto.GenerateBillRequest,
) (*saleResult, error) {
	result := &saleResult{}

	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		denominationRepo repository.DenominationRepository,
	) error {
		// 1) Snapshot de la caja con filas bloqueadas: desde aquí hasta el
		// commit nadie más toca las denominaciones.
		ledger, err := denominationRepo.SnapshotForUpdate()
		if err != nil {
			return err
		}

		// 2) Valorizar la factura contra el catálogo (lookup tolerante).
		var lookupErr error
		lookup := func(code string) *entity.Product {
			product, err := productRepo.GetByCode(code)
			if err != nil {
				lookupErr = err
				return nil
			}
			return product
		}
		invoice := domainbilling.BuildInvoice(lines, lookup, in.PaidAmount)
		if lookupErr != nil {
			return lookupErr
		}

		// 3) Cambio voraz sobre el snapshot (puro, sin efectos).
		breakdown, leftover := till.ComputeChange(invoice.ChangeDue, ledger)

		// 4) Persistir cabecera y líneas.
		now := time.Now()
		purchase := &entity.Purchase{
			ID:             uuid.New().String(),
			CustomerID:     customer.ID,
			Timestamp:      now,
			TotalAmount:    invoice.Total,
			PaidAmount:     in.PaidAmount,
			ChangeDue:      invoice.ChangeDue,
			ChangeLeftover: leftover,
		}
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		for _, line := range invoice.Items {
			item := &entity.PurchaseItem{
				ID:          uuid.New().String(),
				PurchaseID:  purchase.ID,
				ProductID:   line.Product.ID,
				ProductCode: line.Product.Code,
				Qty:         line.Qty,
				UnitPrice:   line.UnitPrice,
				TaxPercent:  line.TaxPercent,
				LineTotal:   line.LineTotal,
			}
			if err := purchaseRepo.CreateItem(item); err != nil {
				return err
			}
			// Stock con clamp en cero: no se bloquea la venta por stock
			// registrado insuficiente.
			if err := productRepo.DecrementStockClamped(line.Product.ID, line.Qty); err != nil {
				return err
			}
		}

		// 5) Conciliar la caja. El guard en SQL re-verifica disponibilidad;
		// con las filas bloqueadas no debería fallar, pero si falla es
		// rollback completo, jamás un conteo negativo.
		if len(breakdown) > 0 {
			if err := denominationRepo.DecrementDispensed(breakdown); err != nil {
				return err
			}
		}

		result.purchase = purchase
		result.invoice = invoice
		result.breakdown = breakdown
		result.leftover = leftover
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// upsertCustomer busca el cliente por email y lo crea si no existe.
func (uc *GenerateBillUseCase) upsertCustomer(email string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}
	customer = &entity.Customer{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otra venta lo creó primero; releer.
			return uc.customerRepo.GetByEmail(email)
		}
		return nil, err
	}
	return customer, nil
}

// notify dispara el correo del recibo en background. Fire-and-forget: un
// fallo se loguea y nada más, la venta ya está confirmada.
func (uc *GenerateBillUseCase) notify(customer *entity.Customer, result *saleResult) {
	if uc.mailer == nil {
		return
	}
	go func() {
		if err := uc.mailer.SendReceipt(customer.Email, result.purchase.ID, result.purchase.TotalAmount, result.purchase.ChangeDue); err != nil {
			uc.log.Error().Err(err).
				Str("purchase_id", result.purchase.ID).
				Str("to", customer.Email).
				Msg("envío de recibo por correo falló")
		}
	}()
}

func (uc *GenerateBillUseCase) toResponse(customer *entity.Customer, result *saleResult) *dto.BillResponse {
	resp := &dto.BillResponse{
		PurchaseID:     result.purchase.ID,
		CustomerEmail:  customer.Email,
		Timestamp:      result.purchase.Timestamp,
		TotalAmount:    result.purchase.TotalAmount,
		PaidAmount:     result.purchase.PaidAmount,
		ChangeDue:      result.purchase.ChangeDue,
		ChangeLeftover: result.leftover,
		Items:          make([]dto.BillItemResponse, 0, len(result.invoice.Items)),
	}
	for _, line := range result.invoice.Items {
		resp.Items = append(resp.Items, dto.BillItemResponse{
			ProductCode: line.Product.Code,
			ProductName: line.Product.Name,
			Qty:         line.Qty,
			UnitPrice:   line.UnitPrice,
			TaxPercent:  line.TaxPercent,
			LineTotal:   line.LineTotal,
		})
	}
	for _, skipped := range result.invoice.Skipped {
		resp.Skipped = append(resp.Skipped, dto.SkippedLineResponse{
			ProductCode: skipped.ProductCode,
			Qty:         skipped.Qty,
			Reason:      skipped.Reason,
		})
	}
	// Desglose en orden de valor descendente (como se entrega físicamente).
	values := make([]int64, 0, len(result.breakdown))
	for value := range result.breakdown {
		values = append(values, value)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })
	for _, value := range values {
		resp.ChangeBreakdown = append(resp.ChangeBreakdown, dto.ChangeLineResponse{Value: value, Count: result.breakdown[value]})
	}
	return resp
}
