package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarGastoRequest struct {
	Tipo  string          `json:"tipo"  validate:"required,oneof=sueldo flete proveedor otro"`
	Monto decimal.Decimal `json:"monto" validate:"required"`
	// NombreProveedor is required when tipo = proveedor.
	NombreProveedor *string `json:"nombre_proveedor"`
	Descripcion     *string `json:"descripcion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GastoResponse struct {
	ID              string          `json:"id"`
	TurnoID         string          `json:"turno_id"`
	Tipo            string          `json:"tipo"`
	Monto           decimal.Decimal `json:"monto"`
	NombreProveedor *string         `json:"nombre_proveedor"`
	Descripcion     *string         `json:"descripcion"`
	CreatedAt       string          `json:"created_at"`
}

type GastoListResponse struct {
	Data  []GastoResponse `json:"data"`
	Total decimal.Decimal `json:"total"`
}
