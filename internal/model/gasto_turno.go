package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de gasto de turno.
const (
	GastoSueldo    = "sueldo"
	GastoFlete     = "flete"
	GastoProveedor = "proveedor"
	GastoOtro      = "otro"
)

// GastoTurno is a cash expense booked against exactly one shift.
// Append-only: gastos are never edited after creation.
type GastoTurno struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo    string          `gorm:"type:varchar(12);not null"`
	Monto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// NombreProveedor is required iff Tipo = proveedor.
	NombreProveedor *string
	Descripcion     *string
	CreatedAt       time.Time
}

func (GastoTurno) TableName() string { return "gastos_turno" }
