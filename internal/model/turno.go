package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Turno represents a bounded work session over which sales and cash are
// tracked and reconciled at close.
// Tipo: "dia" | "noche". Estado: "abierto" | "cerrado".
// At most one Turno is abierto at any time — enforced by a serialized
// check-then-insert plus a partial unique index (see infra.applySchemaPatches).
type Turno struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Vendedor string    `gorm:"not null"`
	Tipo     string    `gorm:"type:varchar(10);not null"`
	Estado   string    `gorm:"type:varchar(10);not null;default:'abierto';index"`
	// EfectivoInicial is declared at open and never changes.
	EfectivoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Closing snapshot: written together with the Estado flip in one UPDATE
	// and never touched again. Devoluciones booked after close land on the
	// original shift's ventas but do not rewrite the snapshot.
	EfectivoContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EfectivoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalVentas      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Tickets          *int
	DesglosePagos    *DesglosePagos `gorm:"type:jsonb"`
	OpenedAt         time.Time
	ClosedAt         *time.Time
}

func (Turno) TableName() string { return "turnos" }

// DesglosePagos is the per-payment-method total snapshot stored on a closed
// Turno, and the live aggregation shape used by the ledger package.
type DesglosePagos struct {
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
	Fiado    decimal.Decimal `json:"fiado"`
	Staff    decimal.Decimal `json:"staff"`
}

// Suma returns the grand total across every method bucket.
func (d DesglosePagos) Suma() decimal.Decimal {
	return d.Cash.Add(d.Card).Add(d.Transfer).Add(d.Fiado).Add(d.Staff)
}

// Value implements driver.Valuer so GORM persists the breakdown as jsonb.
func (d DesglosePagos) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reads from the jsonb column.
func (d *DesglosePagos) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		return nil
	default:
		return fmt.Errorf("desglose_pagos: cannot scan %T", src)
	}
}
