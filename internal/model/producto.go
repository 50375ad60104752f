package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto represents a catalog item sold at the register.
// Stock is mutated exclusively through conditional decrements (ventas),
// restores (devoluciones) and explicit adjustments — never by overwriting
// with a client-supplied absolute value from a stale read.
type Producto struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// CodigoBarras is optional; unique when present.
	CodigoBarras *string         `gorm:"uniqueIndex"`
	Nombre       string          `gorm:"index;not null"`
	Categoria    string          `gorm:"not null"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock        int             `gorm:"not null;default:0"`
	// StockMinimo is the low-stock alert threshold.
	StockMinimo int  `gorm:"not null;default:5"`
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
