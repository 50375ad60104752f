package service

import (
	"context"
	"errors"
	"time"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FiadoService is the credit ledger: per-client balance, limit enforcement
// and the append-only movement history.
type FiadoService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	Detalle(ctx context.Context, id uuid.UUID) (*dto.ClienteDetalleResponse, error)
	SetAutorizacion(ctx context.Context, id uuid.UUID, autorizado bool) (*dto.ClienteResponse, error)
	// RegistrarPago books an abono (partial) or pago total against the debt.
	RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.ClienteResponse, error)
	// RegistrarCargoTx charges monto inside the caller's transaction, locking
	// the client row first. Precondition order: authorization, amount, limit.
	RegistrarCargoTx(tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal, descripcion string) error
}

type fiadoService struct {
	repo repository.ClienteRepository
}

func NewFiadoService(repo repository.ClienteRepository) FiadoService {
	return &fiadoService{repo: repo}
}

func (s *fiadoService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if req.Limite.IsNegative() {
		return nil, ErrMontoInvalido
	}
	cliente := &model.Cliente{
		Nombre:     req.Nombre,
		Autorizado: req.Autorizado,
		Saldo:      decimal.Zero,
		Limite:     req.Limite,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *fiadoService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		resp = append(resp, *clienteToResponse(&clientes[i]))
	}
	return resp, nil
}

func (s *fiadoService) Detalle(ctx context.Context, id uuid.UUID) (*dto.ClienteDetalleResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrClienteNoEncontrado
	}
	movs, err := s.repo.ListMovimientos(ctx, id)
	if err != nil {
		return nil, err
	}
	detalle := &dto.ClienteDetalleResponse{
		ClienteResponse: *clienteToResponse(cliente),
		Movimientos:     make([]dto.MovimientoClienteResponse, 0, len(movs)),
	}
	for i := range movs {
		m := &movs[i]
		detalle.Movimientos = append(detalle.Movimientos, dto.MovimientoClienteResponse{
			ID:           m.ID.String(),
			Monto:        m.Monto,
			Tipo:         m.Tipo,
			Descripcion:  m.Descripcion,
			SaldoDespues: m.SaldoDespues,
			CreatedAt:    m.CreatedAt.Format(time.RFC3339),
		})
	}
	return detalle, nil
}

func (s *fiadoService) SetAutorizacion(ctx context.Context, id uuid.UUID, autorizado bool) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrClienteNoEncontrado
	}
	if err := s.repo.SetAutorizado(ctx, id, autorizado); err != nil {
		return nil, err
	}
	cliente.Autorizado = autorizado
	return clienteToResponse(cliente), nil
}

func (s *fiadoService) RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.ClienteResponse, error) {
	var cliente *model.Cliente
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		cliente, err = s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClienteNoEncontrado
			}
			return err
		}

		var monto decimal.Decimal
		var tipo string
		switch req.Modo {
		case "total":
			// Pago total cancels the whole debt; the request monto is
			// deliberately ignored so a stale figure cannot under-pay.
			monto = cliente.Saldo
			tipo = model.MovimientoPagoTotal
		default:
			if !req.Monto.IsPositive() {
				return ErrMontoInvalido
			}
			if req.Monto.GreaterThan(cliente.Saldo) {
				return ErrMontoExcedeSaldo
			}
			monto = req.Monto
			tipo = model.MovimientoAbono
		}

		nuevoSaldo := cliente.Saldo.Sub(monto)
		if err := s.repo.UpdateSaldoTx(tx, id, nuevoSaldo); err != nil {
			return err
		}

		descripcion := req.Descripcion
		if descripcion == "" {
			descripcion = "Pago registrado en caja"
		}
		mov := &model.MovimientoCliente{
			ClienteID:    id,
			Monto:        monto,
			Tipo:         tipo,
			Descripcion:  descripcion,
			SaldoDespues: nuevoSaldo,
		}
		if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}

		cliente.Saldo = nuevoSaldo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *fiadoService) RegistrarCargoTx(tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal, descripcion string) error {
	cliente, err := s.repo.FindByIDForUpdateTx(tx, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClienteNoEncontrado
		}
		return err
	}

	if !cliente.Autorizado {
		return ErrClienteNoAutorizado
	}
	if !monto.IsPositive() {
		return ErrMontoInvalido
	}
	nuevoSaldo := cliente.Saldo.Add(monto)
	if nuevoSaldo.GreaterThan(cliente.Limite) {
		return ErrLimiteExcedido
	}

	if err := s.repo.UpdateSaldoTx(tx, clienteID, nuevoSaldo); err != nil {
		return err
	}
	mov := &model.MovimientoCliente{
		ClienteID:    clienteID,
		Monto:        monto,
		Tipo:         model.MovimientoFiado,
		Descripcion:  descripcion,
		SaldoDespues: nuevoSaldo,
	}
	return s.repo.CreateMovimientoTx(tx, mov)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:         c.ID.String(),
		Nombre:     c.Nombre,
		Autorizado: c.Autorizado,
		Saldo:      c.Saldo,
		Limite:     c.Limite,
		Disponible: c.Limite.Sub(c.Saldo),
	}
}
