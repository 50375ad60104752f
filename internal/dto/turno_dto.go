package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirTurnoRequest struct {
	Vendedor        string          `json:"vendedor"         validate:"required,min=2"`
	Tipo            string          `json:"tipo"             validate:"required,oneof=dia noche"`
	EfectivoInicial decimal.Decimal `json:"efectivo_inicial" validate:"min=0"`
}

// CerrarTurnoRequest carries the blind cash count declared by the seller.
type CerrarTurnoRequest struct {
	EfectivoContado decimal.Decimal `json:"efectivo_contado" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DesglosePagosResponse struct {
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
	Fiado    decimal.Decimal `json:"fiado"`
	Staff    decimal.Decimal `json:"staff"`
}

type TurnoResponse struct {
	ID              string          `json:"id"`
	Vendedor        string          `json:"vendedor"`
	Tipo            string          `json:"tipo"`
	Estado          string          `json:"estado"`
	EfectivoInicial decimal.Decimal `json:"efectivo_inicial"`
	OpenedAt        string          `json:"opened_at"`
	ClosedAt        *string         `json:"closed_at,omitempty"`

	// Populated only on closed shifts (immutable snapshot).
	EfectivoEsperado *decimal.Decimal       `json:"efectivo_esperado,omitempty"`
	EfectivoContado  *decimal.Decimal       `json:"efectivo_contado,omitempty"`
	Diferencia       *decimal.Decimal       `json:"diferencia,omitempty"`
	TotalVentas      *decimal.Decimal       `json:"total_ventas,omitempty"`
	Tickets          *int                   `json:"tickets,omitempty"`
	DesglosePagos    *DesglosePagosResponse `json:"desglose_pagos,omitempty"`
}

// ResumenTurnoResponse is the live aggregation of the open shift.
type ResumenTurnoResponse struct {
	TurnoID     string                `json:"turno_id"`
	Total       decimal.Decimal       `json:"total"`
	Tickets     int                   `json:"tickets"`
	PorMetodo   DesglosePagosResponse `json:"por_metodo"`
	TotalGastos decimal.Decimal       `json:"total_gastos"`
}

type TurnoListResponse struct {
	Data  []TurnoResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
