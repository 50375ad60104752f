package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	VentaTipoVenta      = "sale"
	VentaTipoDevolucion = "return"
)

// Metodos de pago aceptados. El conjunto es cerrado: cualquier otro valor
// es un error de datos, nunca se acumula en silencio.
const (
	MetodoCash     = "cash"
	MetodoCard     = "card"
	MetodoTransfer = "transfer"
	MetodoFiado    = "fiado"
	MetodoStaff    = "staff"
)

// MetodosPago lists the closed set in display order.
var MetodosPago = []string{MetodoCash, MetodoCard, MetodoTransfer, MetodoFiado, MetodoStaff}

// EsMetodoPago reports whether m belongs to the closed payment-method set.
func EsMetodoPago(m string) bool {
	switch m {
	case MetodoCash, MetodoCard, MetodoTransfer, MetodoFiado, MetodoStaff:
		return true
	}
	return false
}

// Venta is one ticket: either a sale or a return. Rows are append-only;
// the single mutable field is MetodoPago (metadata correction, no ledger
// side effects — see VentaService.CambiarMetodoPago).
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	Tipo         string    `gorm:"type:varchar(10);not null;default:'sale'"`
	// Total is recorded positive for both types; returns decrement
	// aggregates by virtue of Tipo, not sign.
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(10);not null"`
	// EfectivoRecibido / Vuelto only carry meaning when MetodoPago = cash.
	EfectivoRecibido *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Vuelto           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// TurnoID references the shift open at creation time. A return copies
	// the shift of the original sale, which may already be closed.
	TurnoID   *uuid.UUID `gorm:"type:uuid;index"`
	Vendedor  string     `gorm:"not null"`
	Items     []VentaItem
	Notas     NotasVenta `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// VentaItem is a frozen line snapshot: PrecioUnitario is the product price
// at sale time and must never be recomputed from the current catalog.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre         string          `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad       int             `gorm:"not null"`
}

// NotasVenta is the structured payload attached to a ticket:
// the fiado client on credit sales, return metadata on devoluciones.
type NotasVenta struct {
	ClienteID      *uuid.UUID `json:"cliente_id,omitempty"`
	Motivo         *string    `json:"motivo,omitempty"`
	TicketOriginal *int       `json:"ticket_original,omitempty"`
	MetodoOriginal *string    `json:"metodo_original,omitempty"`
}

// Value implements driver.Valuer for the jsonb notas column.
func (n NotasVenta) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements sql.Scanner for the jsonb notas column.
func (n *NotasVenta) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	case nil:
		return nil
	default:
		return fmt.Errorf("notas: cannot scan %T", src)
	}
}

func (Venta) TableName() string { return "ventas" }

func (VentaItem) TableName() string { return "venta_items" }
