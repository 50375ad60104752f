package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha string `form:"fecha"`            // YYYY-MM-DD; empty = today
	Tipo  string `form:"tipo,default=all"` // sale | return | all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"       validate:"required,dive"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=cash card transfer fiado staff"`
	// EfectivoRecibido is required when metodo_pago = cash.
	EfectivoRecibido *decimal.Decimal `json:"efectivo_recibido"`
	// ClienteID is required when metodo_pago = fiado.
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
}

type ItemDevolucionRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"min=0"`
}

type RegistrarDevolucionRequest struct {
	Items        []ItemDevolucionRequest `json:"items"         validate:"required,min=1,dive"`
	Motivo       string                  `json:"motivo"`
	MetodoReembolso string               `json:"metodo_reembolso" validate:"required,oneof=cash card transfer fiado staff"`
}

type CambiarMetodoPagoRequest struct {
	MetodoPago string `json:"metodo_pago" validate:"required,oneof=cash card transfer fiado staff"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID           string              `json:"id"`
	NumeroTicket int                 `json:"numero_ticket"`
	Tipo         string              `json:"tipo"`
	Total        decimal.Decimal     `json:"total"`
	MetodoPago   string              `json:"metodo_pago"`
	Vuelto       *decimal.Decimal    `json:"vuelto,omitempty"`
	TurnoID      *string             `json:"turno_id"`
	Vendedor     string              `json:"vendedor"`
	Items        []ItemVentaResponse `json:"items"`
	CreatedAt    string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
