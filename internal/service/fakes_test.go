package service

import (
	"context"
	"sync"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. They run without a DB and
// without transactions: services receive a nil *gorm.DB and runTx calls the
// body directly. Mutexes keep the stock and ledger fakes safe for the
// concurrency tests.

// ── TurnoRepository ───────────────────────────────────────────────────────────

type fakeTurnoRepo struct {
	mu     sync.Mutex
	turnos map[uuid.UUID]*model.Turno
}

func newFakeTurnoRepo() *fakeTurnoRepo {
	return &fakeTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

func (r *fakeTurnoRepo) CreateAbierto(_ context.Context, t *model.Turno) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.turnos {
		if existing.Estado == "abierto" {
			return repository.ErrTurnoYaAbierto
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *fakeTurnoRepo) FindAbierto(_ context.Context) (*model.Turno, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.turnos {
		if t.Estado == "abierto" {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTurnoRepo) Cerrar(_ context.Context, id uuid.UUID, cierre repository.CierreTurno) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.turnos[id]
	if !ok || t.Estado != "abierto" {
		return gorm.ErrRecordNotFound
	}
	closedAt := cierre.ClosedAt
	t.Estado = "cerrado"
	t.EfectivoContado = &cierre.EfectivoContado
	t.EfectivoEsperado = &cierre.EfectivoEsperado
	t.Diferencia = &cierre.Diferencia
	t.TotalVentas = &cierre.TotalVentas
	t.Tickets = &cierre.Tickets
	t.DesglosePagos = &cierre.DesglosePagos
	t.ClosedAt = &closedAt
	return nil
}

func (r *fakeTurnoRepo) ListCerrados(_ context.Context, _, _ int) ([]model.Turno, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Turno
	for _, t := range r.turnos {
		if t.Estado == "cerrado" {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.TurnoRepository = (*fakeTurnoRepo)(nil)

// ── VentaRepository ───────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	mu        sync.Mutex
	ventas    map[uuid.UUID]*model.Venta
	ticketSeq int
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *fakeVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVentaRepo) FindByTurno(_ context.Context, turnoID uuid.UUID) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if v.TurnoID != nil && *v.TurnoID == turnoID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVentaRepo) UpdateMetodoPago(_ context.Context, id uuid.UUID, metodo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.MetodoPago = metodo
	return nil
}

func (r *fakeVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *fakeVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Tipo != "" && filter.Tipo != "all" && v.Tipo != filter.Tipo {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

// ── ProductoRepository ────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode && p.Activo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) ListStockBajo(_ context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.Stock <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

// DescontarStockTx mirrors the conditional UPDATE: check and decrement happen
// under the same lock, so concurrent sales of the last unit cannot both pass.
func (r *fakeProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.Stock < cantidad {
		return repository.ErrStockInsuficiente
	}
	p.Stock -= cantidad
	return nil
}

func (r *fakeProductoRepo) ReponerStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += cantidad
	return nil
}

func (r *fakeProductoRepo) AjustarStock(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *fakeProductoRepo) DB() *gorm.DB { return nil }

func (r *fakeProductoRepo) stockDe(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productos[id].Stock
}

var _ repository.ProductoRepository = (*fakeProductoRepo)(nil)

// ── ClienteRepository ─────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	mu          sync.Mutex
	clientes    map[uuid.UUID]*model.Cliente
	movimientos []model.MovimientoCliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClienteRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeClienteRepo) UpdateSaldoTx(_ *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Saldo = saldo
	return nil
}

func (r *fakeClienteRepo) SetAutorizado(_ context.Context, id uuid.UUID, autorizado bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Autorizado = autorizado
	return nil
}

func (r *fakeClienteRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeClienteRepo) ListMovimientos(_ context.Context, clienteID uuid.UUID) ([]model.MovimientoCliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCliente
	for _, m := range r.movimientos {
		if m.ClienteID == clienteID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeClienteRepo) DB() *gorm.DB { return nil }

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

// ── GastoRepository ───────────────────────────────────────────────────────────

type fakeGastoRepo struct {
	gastos []model.GastoTurno
}

func (r *fakeGastoRepo) Create(_ context.Context, g *model.GastoTurno) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *fakeGastoRepo) ListByTurno(_ context.Context, turnoID uuid.UUID) ([]model.GastoTurno, error) {
	var out []model.GastoTurno
	for _, g := range r.gastos {
		if g.TurnoID == turnoID {
			out = append(out, g)
		}
	}
	return out, nil
}

var _ repository.GastoRepository = (*fakeGastoRepo)(nil)

// ── MovimientoStockRepository ─────────────────────────────────────────────────

type fakeMovimientoStockRepo struct {
	mu          sync.Mutex
	movimientos []model.MovimientoStock
}

func (r *fakeMovimientoStockRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	return r.CreateTx(nil, m)
}

func (r *fakeMovimientoStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovimientoStockRepo) List(_ context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*fakeMovimientoStockRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProducto(repo *fakeProductoRepo, nombre string, precio int64, stock int) *model.Producto {
	barcode := "77" + uuid.NewString()[:11]
	p := &model.Producto{
		ID:           uuid.New(),
		CodigoBarras: &barcode,
		Nombre:       nombre,
		Categoria:    "almacen",
		Precio:       decimal.NewFromInt(precio),
		Stock:        stock,
		StockMinimo:  5,
		Activo:       true,
	}
	_ = repo.Create(context.Background(), p)
	return p
}

func seedTurnoAbierto(repo *fakeTurnoRepo, efectivoInicial int64) *model.Turno {
	t := &model.Turno{
		Vendedor:        "Carla",
		Tipo:            "dia",
		Estado:          "abierto",
		EfectivoInicial: decimal.NewFromInt(efectivoInicial),
	}
	_ = repo.CreateAbierto(context.Background(), t)
	return t
}

func seedCliente(repo *fakeClienteRepo, nombre string, saldo, limite int64, autorizado bool) *model.Cliente {
	c := &model.Cliente{
		ID:         uuid.New(),
		Nombre:     nombre,
		Autorizado: autorizado,
		Saldo:      decimal.NewFromInt(saldo),
		Limite:     decimal.NewFromInt(limite),
	}
	_ = repo.Create(context.Background(), c)
	return c
}
