package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService orchestrates tickets: sales, returns, the metadata-only
// payment method correction and the daily listing.
type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	// RegistrarDevolucion books a return against the sale identified by id.
	// Quantities are clamped to what the ticket actually sold; the return is
	// attributed to the original sale's shift even if that shift is closed.
	RegistrarDevolucion(ctx context.Context, id uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.VentaResponse, error)
	// CambiarMetodoPago rewrites the method label only. No stock, cash or
	// credit side effects, and no revalidation of method preconditions.
	CambiarMetodoPago(ctx context.Context, id uuid.UUID, metodo string) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	turnoRepo    repository.TurnoRepository
	movRepo      repository.MovimientoStockRepository
	fiado        FiadoService
	nowFn        func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	turnoRepo repository.TurnoRepository,
	movRepo repository.MovimientoStockRepository,
	fiado FiadoService,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		turnoRepo:    turnoRepo,
		movRepo:      movRepo,
		fiado:        fiado,
		nowFn:        time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

type resolvedItem struct {
	productoID uuid.UUID
	nombre     string
	precio     decimal.Decimal
	cantidad   int
	stockAntes int
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Full sale orchestration:
//   1. Require a non-empty cart and an open shift
//   2. Resolve products, freeze unit prices, compute the total
//   3. Method preconditions: cash coverage / fiado client present
//   4. BEGIN TX: nextval ticket, conditional stock decrements, fiado charge,
//      create venta+items, record stock movements
//   5. COMMIT
//
// Inside the transaction the stock decrement runs before the fiado charge so
// a credit rejection rolls everything back. In the nil-tx path (unit tests)
// decremented stock is compensated manually.

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrCarritoVacio
	}

	turno, err := s.turnoRepo.FindAbierto(ctx)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		return nil, ErrSinTurnoActivo
	}

	if !model.EsMetodoPago(req.MetodoPago) {
		return nil, fmt.Errorf("metodo de pago %q no reconocido", req.MetodoPago)
	}

	// Resolve products and freeze prices outside the TX.
	resolved := make([]resolvedItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id invalido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil || !p.Activo {
			return nil, ErrProductoNoEncontrado
		}
		total = total.Add(p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.Precio,
			cantidad:   item.Cantidad,
			stockAntes: p.Stock,
		})
	}

	// Method preconditions.
	var vuelto *decimal.Decimal
	var clienteID *uuid.UUID
	switch req.MetodoPago {
	case model.MetodoCash:
		if req.EfectivoRecibido == nil || req.EfectivoRecibido.LessThan(total) {
			return nil, ErrEfectivoInsuficiente
		}
		v := req.EfectivoRecibido.Sub(total)
		vuelto = &v
	case model.MetodoFiado:
		if req.ClienteID == nil {
			return nil, ErrClienteRequerido
		}
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, ErrClienteRequerido
		}
		clienteID = &cid
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		// Conditional decrements: each one checks stock >= cantidad in the
		// same statement. descontados tracks what to hand back when a later
		// step fails without a surrounding transaction.
		var descontados []resolvedItem
		compensar := func(cause error) error {
			if tx == nil {
				for _, d := range descontados {
					_ = s.productoRepo.ReponerStockTx(nil, d.productoID, d.cantidad)
				}
			}
			return cause
		}

		for _, r := range resolved {
			if err := s.productoRepo.DescontarStockTx(tx, r.productoID, r.cantidad); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return compensar(fmt.Errorf("%s: %w", r.nombre, ErrStockInsuficiente))
				}
				return compensar(err)
			}
			descontados = append(descontados, r)
		}

		if req.MetodoPago == model.MetodoFiado {
			desc := fmt.Sprintf("Venta fiada #%d", ticketNum)
			if err := s.fiado.RegistrarCargoTx(tx, *clienteID, total, desc); err != nil {
				return compensar(err)
			}
		}

		venta = model.Venta{
			NumeroTicket:     ticketNum,
			Tipo:             model.VentaTipoVenta,
			Total:            total,
			MetodoPago:       req.MetodoPago,
			EfectivoRecibido: req.EfectivoRecibido,
			Vuelto:           vuelto,
			TurnoID:          &turno.ID,
			Vendedor:         turno.Vendedor,
			Notas:            model.NotasVenta{ClienteID: clienteID},
			CreatedAt:        s.nowFn(),
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Nombre:         r.nombre,
				PrecioUnitario: r.precio,
				Cantidad:       r.cantidad,
			})
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return compensar(err)
		}

		for _, r := range resolved {
			ref := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "venta",
				Cantidad:      -r.cantidad,
				StockAnterior: r.stockAntes,
				StockNuevo:    r.stockAntes - r.cantidad,
				Motivo:        fmt.Sprintf("Venta #%d", ticketNum),
				ReferenciaID:  &ref,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return compensar(err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return ventaToResponse(&venta), nil
}

// ── RegistrarDevolucion ───────────────────────────────────────────────────────

func (s *ventaService) RegistrarDevolucion(ctx context.Context, id uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.VentaResponse, error) {
	original, err := s.repo.FindByID(ctx, id)
	if err != nil || original.Tipo != model.VentaTipoVenta {
		return nil, ErrVentaNoEncontrada
	}

	if !model.EsMetodoPago(req.MetodoReembolso) {
		return nil, fmt.Errorf("metodo de reembolso %q no reconocido", req.MetodoReembolso)
	}

	// Clamp each requested quantity to what the ticket actually sold.
	// Over-asks shrink, unknown products drop to zero.
	sold := make(map[uuid.UUID]*model.VentaItem, len(original.Items))
	for i := range original.Items {
		sold[original.Items[i].ProductoID] = &original.Items[i]
	}

	type returnLine struct {
		item     *model.VentaItem
		cantidad int
	}
	var lines []returnLine
	total := decimal.Zero
	for _, r := range req.Items {
		pid, err := uuid.Parse(r.ProductoID)
		if err != nil {
			continue
		}
		item, ok := sold[pid]
		if !ok || r.Cantidad <= 0 {
			continue
		}
		cantidad := r.Cantidad
		if cantidad > item.Cantidad {
			cantidad = item.Cantidad
		}
		lines = append(lines, returnLine{item: item, cantidad: cantidad})
		// Refund at the frozen sale price, never the current catalog price.
		total = total.Add(item.PrecioUnitario.Mul(decimal.NewFromInt(int64(cantidad))))
	}
	if len(lines) == 0 {
		return nil, ErrNadaParaDevolver
	}

	var devolucion model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		motivo := req.Motivo
		devolucion = model.Venta{
			NumeroTicket: ticketNum,
			Tipo:         model.VentaTipoDevolucion,
			Total:        total,
			MetodoPago:   req.MetodoReembolso,
			TurnoID:      original.TurnoID,
			Vendedor:     original.Vendedor,
			Notas: model.NotasVenta{
				Motivo:         &motivo,
				TicketOriginal: &original.NumeroTicket,
				MetodoOriginal: &original.MetodoPago,
			},
			CreatedAt: s.nowFn(),
		}
		for _, l := range lines {
			devolucion.Items = append(devolucion.Items, model.VentaItem{
				ProductoID:     l.item.ProductoID,
				Nombre:         l.item.Nombre,
				PrecioUnitario: l.item.PrecioUnitario,
				Cantidad:       l.cantidad,
			})
		}
		if err := s.repo.Create(ctx, tx, &devolucion); err != nil {
			return err
		}

		for _, l := range lines {
			p, err := s.productoRepo.FindByID(ctx, l.item.ProductoID)
			stockAntes := 0
			if err == nil {
				stockAntes = p.Stock
			}
			if err := s.productoRepo.ReponerStockTx(tx, l.item.ProductoID, l.cantidad); err != nil {
				return err
			}
			ref := devolucion.ID
			mov := &model.MovimientoStock{
				ProductoID:    l.item.ProductoID,
				Tipo:          "devolucion",
				Cantidad:      l.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes + l.cantidad,
				Motivo:        fmt.Sprintf("Devolucion ticket #%d", original.NumeroTicket),
				ReferenciaID:  &ref,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Fiado debt is NOT reversed here. Returning merchandise from a
		// credit sale leaves the client's balance to be settled in the
		// credit ledger explicitly.
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return ventaToResponse(&devolucion), nil
}

// ── CambiarMetodoPago ─────────────────────────────────────────────────────────

func (s *ventaService) CambiarMetodoPago(ctx context.Context, id uuid.UUID, metodo string) (*dto.VentaResponse, error) {
	if !model.EsMetodoPago(metodo) {
		return nil, fmt.Errorf("metodo de pago %q no reconocido", metodo)
	}
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	if err := s.repo.UpdateMetodoPago(ctx, id, metodo); err != nil {
		return nil, err
	}
	venta.MetodoPago = metodo
	return ventaToResponse(venta), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	return ventaToResponse(venta), nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Nombre:         item.Nombre,
			PrecioUnitario: item.PrecioUnitario,
			Cantidad:       item.Cantidad,
			Subtotal:       item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))),
		})
	}
	var turnoID *string
	if v.TurnoID != nil {
		t := v.TurnoID.String()
		turnoID = &t
	}
	return &dto.VentaResponse{
		ID:           v.ID.String(),
		NumeroTicket: v.NumeroTicket,
		Tipo:         v.Tipo,
		Total:        v.Total,
		MetodoPago:   v.MetodoPago,
		Vuelto:       v.Vuelto,
		TurnoID:      turnoID,
		Vendedor:     v.Vendedor,
		Items:        items,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
	}
}
