package repository

import (
	"context"

	"pudahuelpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.GastoTurno) error
	ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.GastoTurno, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.GastoTurno) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.GastoTurno, error) {
	var gastos []model.GastoTurno
	err := r.db.WithContext(ctx).
		Where("turno_id = ?", turnoID).
		Order("created_at ASC").
		Find(&gastos).Error
	return gastos, err
}
