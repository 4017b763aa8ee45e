package service

import (
	"context"
	"errors"
	"strings"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var stockMinimoDefault = decimal.NewFromInt(5)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Consultar(ctx context.Context, id uuid.UUID) (*dto.ConsultaProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Activar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo          repository.ProductoRepository
	categoriaRepo repository.CategoriaRepository
	inventario    InventarioService
	cache         *infra.ProductoCache
}

func NewProductoService(
	repo repository.ProductoRepository,
	categoriaRepo repository.CategoriaRepository,
	inventario InventarioService,
	cache *infra.ProductoCache,
) ProductoService {
	return &productoService{repo: repo, categoriaRepo: categoriaRepo, inventario: inventario, cache: cache}
}

// Crear inserts the product with zero stock and, when an initial stock is
// given, posts it as an ajuste_pos so the kardex explains the opening balance.
func (s *productoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.StockInicial.IsNegative() {
		return nil, apierror.Validation("El stock inicial no puede ser negativo")
	}
	categoriaID, err := s.resolverCategoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		Nombre:       strings.TrimSpace(req.Nombre),
		Descripcion:  req.Descripcion,
		CategoriaID:  categoriaID,
		Unidad:       req.Unidad,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
		Stock:        decimal.Zero,
		StockMinimo:  stockMinimoDefault,
		Activo:       true,
		Imagen:       req.Imagen,
	}
	if req.StockMinimo != nil {
		if req.StockMinimo.IsNegative() {
			return nil, apierror.Validation("El stock mínimo no puede ser negativo")
		}
		p.StockMinimo = *req.StockMinimo
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if !req.StockInicial.IsPositive() {
			return nil
		}
		_, err := s.inventario.AplicarMovimientoTx(tx, p, Asiento{
			Tipo:        model.MovAjustePos,
			Cantidad:    req.StockInicial,
			UsuarioID:   usuarioID,
			Descripcion: "Stock inicial",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, p.ID)
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	resp := productoToResponse(p)
	return &resp, nil
}

// Consultar serves the cart widget lookup. Misses are not errors: the widget
// expects {encontrado:false}. Inactive products cannot be sold, so they are
// reported as not found too.
func (s *productoService) Consultar(ctx context.Context, id uuid.UUID) (*dto.ConsultaProductoResponse, error) {
	var cached dto.ConsultaProductoResponse
	if s.cache.Get(ctx, id, &cached) {
		return &cached, nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.ConsultaProductoResponse{Encontrado: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if !p.Activo {
		return &dto.ConsultaProductoResponse{Encontrado: false}, nil
	}

	precio, stock := p.PrecioVenta, p.Stock
	resp := &dto.ConsultaProductoResponse{
		Encontrado: true,
		ID:         p.ID.String(),
		Nombre:     p.Nombre,
		Precio:     &precio,
		Stock:      &stock,
		Unidad:     p.Unidad,
	}
	s.cache.Set(ctx, id, resp)
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	categoriaID, err := parseUUIDOpcional(filter.CategoriaID, "categoria_id")
	if err != nil {
		return nil, err
	}
	page, limit := repository.Pagina(filter.Page, filter.Limit)
	soloActivos := true
	if filter.SoloActivos != nil {
		soloActivos = *filter.SoloActivos
	}

	productos, total, err := s.repo.List(ctx, repository.ProductoFilter{
		Q:           filter.Q,
		CategoriaID: categoriaID,
		SoloActivos: soloActivos,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Actualizar edits catalogue fields only. Stock is not part of the request.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}

	if req.Nombre != "" {
		p.Nombre = strings.TrimSpace(req.Nombre)
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		if *req.CategoriaID == "" {
			p.CategoriaID = nil
		} else {
			cid, err := s.resolverCategoria(ctx, req.CategoriaID)
			if err != nil {
				return nil, err
			}
			p.CategoriaID = cid
		}
		p.Categoria = nil
	}
	if req.Unidad != "" {
		p.Unidad = req.Unidad
	}
	if req.PrecioCompra != nil {
		if req.PrecioCompra.IsNegative() {
			return nil, apierror.Validation("El precio de compra no puede ser negativo")
		}
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, apierror.Validation("El precio de venta no puede ser negativo")
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		if req.StockMinimo.IsNegative() {
			return nil, apierror.Validation("El stock mínimo no puede ser negativo")
		}
		p.StockMinimo = *req.StockMinimo
	}
	if req.Imagen != nil {
		p.Imagen = req.Imagen
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidar(ctx, id)
	return s.ObtenerPorID(ctx, id)
}

// Desactivar is a soft delete: sales and kardex rows keep pointing at the product.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, false)
}

func (s *productoService) Activar(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, true)
}

func (s *productoService) setActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	if err := s.repo.SetActivo(ctx, id, activo); err != nil {
		return noEncontrado(err, "Producto no encontrado")
	}
	s.cache.Invalidar(ctx, id)
	return nil
}

func (s *productoService) resolverCategoria(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apierror.Validation("categoria_id inválido")
	}
	if _, err := s.categoriaRepo.ObtenerPorID(ctx, id); err != nil {
		return nil, noEncontrado(err, "Categoría no encontrada")
	}
	return &id, nil
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Unidad:       p.Unidad,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		StockBajo:    p.StockBajo(),
		Activo:       p.Activo,
		Imagen:       p.Imagen,
	}
	if p.CategoriaID != nil {
		resp.CategoriaID = strPtr(p.CategoriaID.String())
	}
	if p.Categoria != nil {
		resp.Categoria = strPtr(p.Categoria.Nombre)
	}
	return resp
}
