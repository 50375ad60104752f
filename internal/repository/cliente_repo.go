package repository

import (
	"context"

	"pudahuelpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClienteRepository is the data access contract for the fiado ledger.
// Balance mutations go through the *Tx methods under a row lock so that
// concurrent charges against the same client serialize around the
// limit check (see FiadoService).
type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	// FindByIDForUpdateTx reads the client under SELECT ... FOR UPDATE;
	// callers hold the row until the surrounding transaction ends.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context) ([]model.Cliente, error)
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error
	SetAutorizado(ctx context.Context, id uuid.UUID, autorizado bool) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCliente) error
	ListMovimientos(ctx context.Context, clienteID uuid.UUID) ([]model.MovimientoCliente, error)
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	return tx.Model(&model.Cliente{}).Where("id = ?", id).Update("saldo", saldo).Error
}

func (r *clienteRepo) SetAutorizado(ctx context.Context, id uuid.UUID, autorizado bool) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).
		Where("id = ?", id).Update("autorizado", autorizado).Error
}

func (r *clienteRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCliente) error {
	return tx.Create(m).Error
}

func (r *clienteRepo) ListMovimientos(ctx context.Context, clienteID uuid.UUID) ([]model.MovimientoCliente, error) {
	var movs []model.MovimientoCliente
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("created_at DESC").
		Find(&movs).Error
	return movs, err
}

func (r *clienteRepo) DB() *gorm.DB { return r.db }
