package service

import (
	"context"
	"time"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"
	"pudahuelpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// cache key for the public price lookup, invalidated on any catalog write
const precioCachePrefix = "precio:"

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ListarStockBajo(ctx context.Context) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	// AjustarStock applies a signed delta and records the movement in the
	// stock audit trail.
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo    repository.ProductoRepository
	movRepo repository.MovimientoStockRepository
	rdb     *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, movRepo repository.MovimientoStockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, movRepo: movRepo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	stockMinimo := req.StockMinimo
	if stockMinimo == 0 {
		stockMinimo = 5
	}
	p := &model.Producto{
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Categoria:    req.Categoria,
		Precio:       req.Precio,
		Stock:        req.Stock,
		StockMinimo:  stockMinimo,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) ListarStockBajo(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return data, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePrecioCache(ctx, p)
	return productoToResponse(p), nil
}

func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	if p.Stock+req.Delta < 0 {
		return nil, ErrStockInsuficiente
	}
	if err := s.repo.AjustarStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    id,
		Tipo:          "ajuste_manual",
		Cantidad:      req.Delta,
		StockAnterior: p.Stock,
		StockNuevo:    p.Stock + req.Delta,
		Motivo:        req.Motivo,
	}
	if err := s.movRepo.Create(ctx, mov); err != nil {
		log.Warn().Err(err).Str("producto_id", id.String()).Msg("ajuste: failed to record stock movement")
	}

	p.Stock += req.Delta
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePrecioCache(ctx, p)
	return nil
}

// invalidatePrecioCache drops the cached price lookup for the product's
// barcode so the public endpoint never serves a stale price.
func (s *productoService) invalidatePrecioCache(ctx context.Context, p *model.Producto) {
	if s.rdb == nil || p.CodigoBarras == nil {
		return
	}
	key := precioCachePrefix + *p.CodigoBarras
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("precio cache invalidation failed")
	}
}

// PrecioCacheKey builds the redis key used by the public price endpoint.
func PrecioCacheKey(barcode string) string { return precioCachePrefix + barcode }

// PrecioCacheTTL bounds staleness when invalidation is missed.
const PrecioCacheTTL = 5 * time.Minute

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Categoria:    p.Categoria,
		Precio:       p.Precio,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		StockBajo:    p.Stock <= p.StockMinimo,
		Activo:       p.Activo,
	}
}
