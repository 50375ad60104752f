package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,min=8,max=18"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	Categoria    string          `json:"categoria"     validate:"required"`
	Precio       decimal.Decimal `json:"precio"        validate:"min=0"`
	Stock        int             `json:"stock"         validate:"min=0"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
}

type ActualizarProductoRequest struct {
	CodigoBarras *string          `json:"codigo_barras" validate:"omitempty,min=8,max=18"`
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	Categoria    *string          `json:"categoria"`
	Precio       *decimal.Decimal `json:"precio"`
	StockMinimo  *int             `json:"stock_minimo"  validate:"omitempty,min=0"`
}

// AjustarStockRequest applies a signed delta; the absolute stock value is
// never accepted from the client.
type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Barcode   string `form:"barcode"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras *string         `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Categoria    string          `json:"categoria"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	StockMinimo  int             `json:"stock_minimo"`
	StockBajo    bool            `json:"stock_bajo"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	Nombre          string          `json:"nombre"`
	Precio          decimal.Decimal `json:"precio"`
	StockDisponible int             `json:"stock_disponible"`
	Categoria       string          `json:"categoria"`
}
