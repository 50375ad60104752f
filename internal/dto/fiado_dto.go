package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre     string          `json:"nombre"     validate:"required,min=2,max=120"`
	Limite     decimal.Decimal `json:"limite"     validate:"min=0"`
	Autorizado bool            `json:"autorizado"`
}

// RegistrarPagoRequest books an abono (partial) or pago total against the
// client's debt. For modo=total the monto is ignored and the debt is zeroed.
type RegistrarPagoRequest struct {
	Modo        string          `json:"modo"        validate:"required,oneof=abono total"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
}

type AutorizacionRequest struct {
	Autorizado bool `json:"autorizado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoClienteResponse struct {
	ID           string          `json:"id"`
	Monto        decimal.Decimal `json:"monto"`
	Tipo         string          `json:"tipo"`
	Descripcion  string          `json:"descripcion"`
	SaldoDespues decimal.Decimal `json:"saldo_despues"`
	CreatedAt    string          `json:"created_at"`
}

type ClienteResponse struct {
	ID         string          `json:"id"`
	Nombre     string          `json:"nombre"`
	Autorizado bool            `json:"autorizado"`
	Saldo      decimal.Decimal `json:"saldo"`
	Limite     decimal.Decimal `json:"limite"`
	Disponible decimal.Decimal `json:"disponible"`
}

type ClienteDetalleResponse struct {
	ClienteResponse
	Movimientos []MovimientoClienteResponse `json:"movimientos"`
}
