package repository

import (
	"context"
	"errors"
	"time"

	"pudahuelpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTurnoYaAbierto is returned by the serialized check-then-insert when an
// open shift already exists. A partial unique index on estado='abierto'
// backs the check at the database level (see infra schema patches).
var ErrTurnoYaAbierto = errors.New("ya existe un turno abierto")

// CierreTurno carries the five snapshot fields written atomically together
// with the estado flip at close time.
type CierreTurno struct {
	EfectivoContado  decimal.Decimal
	EfectivoEsperado decimal.Decimal
	Diferencia       decimal.Decimal
	TotalVentas      decimal.Decimal
	Tickets          int
	DesglosePagos    model.DesglosePagos
	ClosedAt         time.Time
}

type TurnoRepository interface {
	// CreateAbierto inserts a new open shift, failing with ErrTurnoYaAbierto
	// when one is already open. Check and insert run in one transaction.
	CreateAbierto(ctx context.Context, t *model.Turno) error
	// FindAbierto returns the open shift, or (nil, nil) when there is none.
	FindAbierto(ctx context.Context) (*model.Turno, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	// Cerrar writes the snapshot and flips estado in a single UPDATE guarded
	// by estado='abierto', so a partially closed shift is never observable.
	Cerrar(ctx context.Context, id uuid.UUID, cierre CierreTurno) error
	ListCerrados(ctx context.Context, page, limit int) ([]model.Turno, int64, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) CreateAbierto(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var abierto model.Turno
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("estado = 'abierto'").
			First(&abierto).Error
		switch {
		case err == nil:
			return ErrTurnoYaAbierto
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *turnoRepo) FindAbierto(ctx context.Context) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).Where("estado = 'abierto'").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) Cerrar(ctx context.Context, id uuid.UUID, cierre CierreTurno) error {
	res := r.db.WithContext(ctx).Model(&model.Turno{}).
		Where("id = ? AND estado = 'abierto'", id).
		Updates(map[string]interface{}{
			"estado":            "cerrado",
			"efectivo_contado":  cierre.EfectivoContado,
			"efectivo_esperado": cierre.EfectivoEsperado,
			"diferencia":        cierre.Diferencia,
			"total_ventas":      cierre.TotalVentas,
			"tickets":           cierre.Tickets,
			"desglose_pagos":    cierre.DesglosePagos,
			"closed_at":         cierre.ClosedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *turnoRepo) ListCerrados(ctx context.Context, page, limit int) ([]model.Turno, int64, error) {
	var turnos []model.Turno
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Turno{}).Where("estado = 'cerrado'")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("opened_at DESC").Offset(offset).Limit(limit).Find(&turnos).Error
	return turnos, total, err
}
