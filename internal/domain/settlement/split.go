// Package settlement contiene la aritmética pura de la liquidación de ventas:
// cupo de crédito, reparto del pago entre deuda previa y factura, y estado de pago.
// No conoce persistencia; el caso de uso de ventas la aplica dentro de la transacción.
package settlement

import (
	"github.com/jhoicas/pintureria-api/internal/domain"
	"github.com/jhoicas/pintureria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Split es el resultado de repartir un pago.
//
// Siempre se cumple:
//
//	FinalDebt = PreviousDebt + DebtDelta
//	FinalDebt = PreviousRemaining + InvoiceOutstanding - Excess
type Split struct {
	PreviousDebt       decimal.Decimal
	InvoiceTotal       decimal.Decimal
	Paid               decimal.Decimal
	TowardPrevious     decimal.Decimal
	TowardInvoice      decimal.Decimal
	Excess             decimal.Decimal
	DebtDelta          decimal.Decimal
	PreviousRemaining  decimal.Decimal
	InvoiceOutstanding decimal.Decimal
	FinalDebt          decimal.Decimal
	Status             string
}

// SplitPayment reparte paid primero contra la deuda previa y luego contra la factura;
// lo que sobra es sobrepago y reduce la deuda (puede dejarla negativa).
// Una deuda previa negativa (saldo a favor) no recibe abono.
func SplitPayment(previousDebt, invoiceTotal, paid decimal.Decimal) Split {
	owed := decimal.Max(previousDebt, decimal.Zero)
	towardPrevious := decimal.Min(paid, owed)
	towardInvoice := decimal.Min(paid.Sub(towardPrevious), invoiceTotal)
	excess := paid.Sub(towardPrevious).Sub(towardInvoice)

	delta := towardPrevious.Neg().
		Add(invoiceTotal.Sub(towardInvoice)).
		Sub(excess)

	return Split{
		PreviousDebt:       previousDebt,
		InvoiceTotal:       invoiceTotal,
		Paid:               paid,
		TowardPrevious:     towardPrevious,
		TowardInvoice:      towardInvoice,
		Excess:             excess,
		DebtDelta:          delta,
		PreviousRemaining:  previousDebt.Sub(towardPrevious),
		InvoiceOutstanding: invoiceTotal.Sub(towardInvoice),
		FinalDebt:          previousDebt.Add(delta),
		Status:             StatusFor(towardInvoice, invoiceTotal),
	}
}

// CashSettlement liquida una venta de contado: se cobra la venta más toda la deuda previa
// y la deuda queda en cero. InvoiceTotal y Paid incluyen la deuda previa.
func CashSettlement(previousDebt, saleTotal decimal.Decimal) Split {
	total := saleTotal.Add(previousDebt)
	towardPrevious := decimal.Max(previousDebt, decimal.Zero)
	return Split{
		PreviousDebt:       previousDebt,
		InvoiceTotal:       total,
		Paid:               total,
		TowardPrevious:     towardPrevious,
		TowardInvoice:      total.Sub(towardPrevious),
		Excess:             decimal.Zero,
		DebtDelta:          previousDebt.Neg(),
		PreviousRemaining:  decimal.Zero,
		InvoiceOutstanding: decimal.Zero,
		FinalDebt:          decimal.Zero,
		Status:             entity.PaymentStatusPaid,
	}
}

// StatusFor deriva el estado de pago a partir de lo abonado a la factura.
func StatusFor(towardInvoice, invoiceTotal decimal.Decimal) string {
	switch {
	case towardInvoice.GreaterThanOrEqual(invoiceTotal):
		return entity.PaymentStatusPaid
	case towardInvoice.IsPositive():
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusUnpaid
	}
}

// CheckCreditLimit rechaza la venta si currentDebt + total - paid supera el límite.
func CheckCreditLimit(currentDebt, creditLimit, total, paid decimal.Decimal) error {
	remaining := currentDebt.Add(total).Sub(paid)
	if remaining.GreaterThan(creditLimit) {
		return &domain.CreditLimitExceededError{
			Available: creditLimit.Sub(currentDebt),
			Requested: total.Sub(paid),
		}
	}
	return nil
}
