package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de fiados.
const (
	MovimientoFiado     = "fiado"     // cargo: aumenta la deuda
	MovimientoAbono     = "abono"     // pago parcial
	MovimientoPagoTotal = "pago-total" // cancelacion completa de la deuda
)

// Cliente is a fiado (store credit) account holder.
// Invariant: Saldo equals the cumulative signed effect of its movements
// (fiado: +monto, abono/pago-total: -monto) and stays in [0, Limite].
type Cliente struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string          `gorm:"not null"`
	Autorizado bool            `gorm:"not null;default:false"`
	Saldo      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Limite     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Movimientos []MovimientoCliente `gorm:"foreignKey:ClienteID"`
}

func (Cliente) TableName() string { return "clientes" }

// MovimientoCliente is an immutable entry in a client's credit history.
// SaldoDespues snapshots the balance right after the movement applied.
type MovimientoCliente struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tipo        string          `gorm:"type:varchar(12);not null"`
	Descripcion string          `gorm:"not null"`
	SaldoDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}

func (MovimientoCliente) TableName() string { return "movimientos_cliente" }
