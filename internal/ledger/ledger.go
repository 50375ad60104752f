// Package ledger holds the pure aggregation primitives of the shift ledger:
// per-payment-method totals, ticket counts and expense sums. Everything here
// is side-effect free and operates on in-memory slices; persistence and
// locking concerns live in repository/service.
package ledger

import (
	"errors"
	"fmt"

	"pudahuelpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrMetodoPagoInvalido reports a sale whose payment method falls outside
// the closed set. Aggregation rejects the whole input rather than silently
// miscounting a bucket.
var ErrMetodoPagoInvalido = errors.New("metodo de pago invalido")

// Resumen is the aggregated view of a shift's sales.
// Invariant: Total equals PorMetodo.Suma(); there is no independent
// computation path that could drift.
type Resumen struct {
	Total     decimal.Decimal
	Tickets   int
	PorMetodo model.DesglosePagos
}

// ResumenZero returns an all-zero summary (used when no shift is active).
func ResumenZero() Resumen {
	return Resumen{Total: decimal.Zero}
}

// ResumenTurno aggregates every venta belonging to turnoID into a Resumen.
// Sales add to their method bucket and count a ticket; returns subtract
// from the bucket without counting. ventas may contain rows from other
// shifts; they are filtered here. A nil turnoID yields a zero summary.
func ResumenTurno(ventas []model.Venta, turnoID *uuid.UUID) (Resumen, error) {
	if turnoID == nil {
		return ResumenZero(), nil
	}

	r := ResumenZero()
	for i := range ventas {
		v := &ventas[i]
		if v.TurnoID == nil || *v.TurnoID != *turnoID {
			continue
		}
		if !model.EsMetodoPago(v.MetodoPago) {
			return Resumen{}, fmt.Errorf("ticket %d: metodo %q: %w", v.NumeroTicket, v.MetodoPago, ErrMetodoPagoInvalido)
		}
		switch v.Tipo {
		case model.VentaTipoDevolucion:
			sumarMetodo(&r.PorMetodo, v.MetodoPago, v.Total.Neg())
		default:
			sumarMetodo(&r.PorMetodo, v.MetodoPago, v.Total)
			r.Tickets++
		}
	}
	r.Total = r.PorMetodo.Suma()
	return r, nil
}

// SumarGastos totals the expenses booked against turnoID.
func SumarGastos(gastos []model.GastoTurno, turnoID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for i := range gastos {
		if gastos[i].TurnoID == turnoID {
			total = total.Add(gastos[i].Monto)
		}
	}
	return total
}

// EfectivoEsperado computes the cash the drawer should hold at close:
// declared opening cash plus the cash bucket of the summary.
func EfectivoEsperado(efectivoInicial decimal.Decimal, resumen Resumen) decimal.Decimal {
	return efectivoInicial.Add(resumen.PorMetodo.Cash)
}

func sumarMetodo(d *model.DesglosePagos, metodo string, monto decimal.Decimal) {
	switch metodo {
	case model.MetodoCash:
		d.Cash = d.Cash.Add(monto)
	case model.MetodoCard:
		d.Card = d.Card.Add(monto)
	case model.MetodoTransfer:
		d.Transfer = d.Transfer.Add(monto)
	case model.MetodoFiado:
		d.Fiado = d.Fiado.Add(monto)
	case model.MetodoStaff:
		d.Staff = d.Staff.Add(monto)
	}
}
