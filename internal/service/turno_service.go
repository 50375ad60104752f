package service

import (
	"context"
	"errors"
	"time"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/ledger"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"
	"pudahuelpos/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TurnoService manages the shift lifecycle: open, live summary, close with
// cash reconciliation, history of closed shifts.
type TurnoService interface {
	Abrir(ctx context.Context, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	// Cerrar reconciles the drawer against the blind count and freezes the
	// snapshot. The report job is enqueued after the commit.
	Cerrar(ctx context.Context, req dto.CerrarTurnoRequest) (*dto.TurnoResponse, error)
	// Actual returns the open shift, or nil when the register is closed.
	Actual(ctx context.Context) (*dto.TurnoResponse, error)
	// Resumen is the live aggregation of the open shift. With no open shift
	// it returns an all-zero summary rather than an error.
	Resumen(ctx context.Context) (*dto.ResumenTurnoResponse, error)
	Historial(ctx context.Context, page, limit int) (*dto.TurnoListResponse, error)
}

type turnoService struct {
	repo       repository.TurnoRepository
	ventaRepo  repository.VentaRepository
	gastoRepo  repository.GastoRepository
	dispatcher *worker.Dispatcher
	nowFn      func() time.Time
}

func NewTurnoService(
	repo repository.TurnoRepository,
	ventaRepo repository.VentaRepository,
	gastoRepo repository.GastoRepository,
	dispatcher *worker.Dispatcher,
) TurnoService {
	return &turnoService{
		repo:       repo,
		ventaRepo:  ventaRepo,
		gastoRepo:  gastoRepo,
		dispatcher: dispatcher,
		nowFn:      time.Now,
	}
}

func (s *turnoService) Abrir(ctx context.Context, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	if req.Vendedor == "" || (req.Tipo != "dia" && req.Tipo != "noche") {
		return nil, ErrAperturaInvalida
	}
	if req.EfectivoInicial.IsNegative() {
		return nil, ErrAperturaInvalida
	}

	turno := &model.Turno{
		Vendedor:        req.Vendedor,
		Tipo:            req.Tipo,
		Estado:          "abierto",
		EfectivoInicial: req.EfectivoInicial,
		OpenedAt:        s.nowFn(),
	}
	if err := s.repo.CreateAbierto(ctx, turno); err != nil {
		return nil, err
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) Cerrar(ctx context.Context, req dto.CerrarTurnoRequest) (*dto.TurnoResponse, error) {
	if req.EfectivoContado.IsNegative() {
		return nil, ErrCierreInvalido
	}

	turno, err := s.repo.FindAbierto(ctx)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		return nil, ErrSinTurnoActivo
	}

	ventas, err := s.ventaRepo.FindByTurno(ctx, turno.ID)
	if err != nil {
		return nil, err
	}
	resumen, err := ledger.ResumenTurno(ventas, &turno.ID)
	if err != nil {
		return nil, err
	}

	esperado := ledger.EfectivoEsperado(turno.EfectivoInicial, resumen)
	diferencia := req.EfectivoContado.Sub(esperado)
	closedAt := s.nowFn()

	cierre := repository.CierreTurno{
		EfectivoContado:  req.EfectivoContado,
		EfectivoEsperado: esperado,
		Diferencia:       diferencia,
		TotalVentas:      resumen.Total,
		Tickets:          resumen.Tickets,
		DesglosePagos:    resumen.PorMetodo,
		ClosedAt:         closedAt,
	}
	if err := s.repo.Cerrar(ctx, turno.ID, cierre); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost the race against another close of the same shift.
			return nil, ErrSinTurnoActivo
		}
		return nil, err
	}

	turno.Estado = "cerrado"
	turno.EfectivoContado = &cierre.EfectivoContado
	turno.EfectivoEsperado = &cierre.EfectivoEsperado
	turno.Diferencia = &cierre.Diferencia
	turno.TotalVentas = &cierre.TotalVentas
	turno.Tickets = &cierre.Tickets
	turno.DesglosePagos = &cierre.DesglosePagos
	turno.ClosedAt = &closedAt

	// Report generation is best effort; the close already committed.
	if s.dispatcher != nil {
		payload := worker.ReporteJobPayload{TurnoID: turno.ID.String()}
		if err := s.dispatcher.EnqueueReporte(ctx, payload); err != nil {
			log.Warn().Err(err).Str("turno_id", turno.ID.String()).Msg("cierre: failed to enqueue report job")
		}
	}

	return turnoToResponse(turno), nil
}

func (s *turnoService) Actual(ctx context.Context) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindAbierto(ctx)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		return nil, nil
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) Resumen(ctx context.Context) (*dto.ResumenTurnoResponse, error) {
	turno, err := s.repo.FindAbierto(ctx)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		zero := ledger.ResumenZero()
		return resumenToResponse("", zero, decimal.Zero), nil
	}

	ventas, err := s.ventaRepo.FindByTurno(ctx, turno.ID)
	if err != nil {
		return nil, err
	}
	resumen, err := ledger.ResumenTurno(ventas, &turno.ID)
	if err != nil {
		return nil, err
	}

	gastos, err := s.gastoRepo.ListByTurno(ctx, turno.ID)
	if err != nil {
		return nil, err
	}
	totalGastos := ledger.SumarGastos(gastos, turno.ID)

	return resumenToResponse(turno.ID.String(), resumen, totalGastos), nil
}

func (s *turnoService) Historial(ctx context.Context, page, limit int) (*dto.TurnoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	turnos, total, err := s.repo.ListCerrados(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		data = append(data, *turnoToResponse(&turnos[i]))
	}
	return &dto.TurnoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func turnoToResponse(t *model.Turno) *dto.TurnoResponse {
	resp := &dto.TurnoResponse{
		ID:              t.ID.String(),
		Vendedor:        t.Vendedor,
		Tipo:            t.Tipo,
		Estado:          t.Estado,
		EfectivoInicial: t.EfectivoInicial,
		OpenedAt:        t.OpenedAt.Format(time.RFC3339),
	}
	if t.ClosedAt != nil {
		closed := t.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	resp.EfectivoEsperado = t.EfectivoEsperado
	resp.EfectivoContado = t.EfectivoContado
	resp.Diferencia = t.Diferencia
	resp.TotalVentas = t.TotalVentas
	resp.Tickets = t.Tickets
	if t.DesglosePagos != nil {
		resp.DesglosePagos = &dto.DesglosePagosResponse{
			Cash:     t.DesglosePagos.Cash,
			Card:     t.DesglosePagos.Card,
			Transfer: t.DesglosePagos.Transfer,
			Fiado:    t.DesglosePagos.Fiado,
			Staff:    t.DesglosePagos.Staff,
		}
	}
	return resp
}

func resumenToResponse(turnoID string, r ledger.Resumen, totalGastos decimal.Decimal) *dto.ResumenTurnoResponse {
	return &dto.ResumenTurnoResponse{
		TurnoID: turnoID,
		Total:   r.Total,
		Tickets: r.Tickets,
		PorMetodo: dto.DesglosePagosResponse{
			Cash:     r.PorMetodo.Cash,
			Card:     r.PorMetodo.Card,
			Transfer: r.PorMetodo.Transfer,
			Fiado:    r.PorMetodo.Fiado,
			Staff:    r.PorMetodo.Staff,
		},
		TotalGastos: totalGastos,
	}
}
