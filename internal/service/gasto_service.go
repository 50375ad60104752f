package service

import (
	"context"
	"time"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/ledger"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
)

// GastoService books cash expenses against the open shift.
type GastoService interface {
	Registrar(ctx context.Context, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error)
	ListarTurnoActual(ctx context.Context) (*dto.GastoListResponse, error)
	ListarPorTurno(ctx context.Context, turnoID uuid.UUID) (*dto.GastoListResponse, error)
}

type gastoService struct {
	repo      repository.GastoRepository
	turnoRepo repository.TurnoRepository
}

func NewGastoService(repo repository.GastoRepository, turnoRepo repository.TurnoRepository) GastoService {
	return &gastoService{repo: repo, turnoRepo: turnoRepo}
}

func (s *gastoService) Registrar(ctx context.Context, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error) {
	turno, err := s.turnoRepo.FindAbierto(ctx)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		return nil, ErrSinTurnoActivo
	}

	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	if req.Tipo == model.GastoProveedor && (req.NombreProveedor == nil || *req.NombreProveedor == "") {
		return nil, ErrProveedorRequerido
	}

	gasto := &model.GastoTurno{
		TurnoID:         turno.ID,
		Tipo:            req.Tipo,
		Monto:           req.Monto,
		NombreProveedor: req.NombreProveedor,
		Descripcion:     req.Descripcion,
	}
	if err := s.repo.Create(ctx, gasto); err != nil {
		return nil, err
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) ListarTurnoActual(ctx context.Context) (*dto.GastoListResponse, error) {
	turno, err := s.turnoRepo.FindAbierto(ctx)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		return nil, ErrSinTurnoActivo
	}
	return s.ListarPorTurno(ctx, turno.ID)
}

func (s *gastoService) ListarPorTurno(ctx context.Context, turnoID uuid.UUID) (*dto.GastoListResponse, error) {
	gastos, err := s.repo.ListByTurno(ctx, turnoID)
	if err != nil {
		return nil, err
	}
	resp := &dto.GastoListResponse{
		Data:  make([]dto.GastoResponse, 0, len(gastos)),
		Total: ledger.SumarGastos(gastos, turnoID),
	}
	for i := range gastos {
		resp.Data = append(resp.Data, *gastoToResponse(&gastos[i]))
	}
	return resp, nil
}

func gastoToResponse(g *model.GastoTurno) *dto.GastoResponse {
	return &dto.GastoResponse{
		ID:              g.ID.String(),
		TurnoID:         g.TurnoID.String(),
		Tipo:            g.Tipo,
		Monto:           g.Monto,
		NombreProveedor: g.NombreProveedor,
		Descripcion:     g.Descripcion,
		CreatedAt:       g.CreatedAt.Format(time.RFC3339),
	}
}
