package service

import (
	"context"
	"fmt"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraRegistradaResponse, error)
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListarCompras(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo          repository.CompraRepository
	productoRepo  repository.ProductoRepository
	proveedorRepo repository.ProveedorRepository
	historialRepo repository.HistorialCostoRepository
	inventario    InventarioService
	cache         *infra.ProductoCache
}

func NewCompraService(
	repo repository.CompraRepository,
	productoRepo repository.ProductoRepository,
	proveedorRepo repository.ProveedorRepository,
	historialRepo repository.HistorialCostoRepository,
	inventario InventarioService,
	cache *infra.ProductoCache,
) CompraService {
	return &compraService{
		repo:          repo,
		productoRepo:  productoRepo,
		proveedorRepo: proveedorRepo,
		historialRepo: historialRepo,
		inventario:    inventario,
		cache:         cache,
	}
}

// RegistrarCompra posts a supplier purchase: stock goes up by each line's
// quantity and the product cost becomes the line's unit cost (last cost wins).
// There is no stock check. The client total is stored as given.
func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraRegistradaResponse, error) {
	if len(req.Items) == 0 || req.IDProveedor == "" {
		return nil, apierror.Validation("Datos incompletos")
	}
	lineas, ids, err := parseCarrito(req.Items, "Datos incompletos")
	if err != nil {
		return nil, err
	}
	proveedorID, err := uuid.Parse(req.IDProveedor)
	if err != nil {
		return nil, apierror.NotFound("Proveedor no encontrado")
	}

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.proveedorRepo.FindByIDTx(tx, proveedorID); err != nil {
			return noEncontrado(err, "Proveedor no encontrado")
		}

		productos, err := s.productoRepo.LockForUpdateTx(tx, ids)
		if err != nil {
			return err
		}
		for _, l := range lineas {
			if _, ok := productos[l.productoID]; !ok {
				return apierror.NotFound("Producto no encontrado")
			}
		}

		numero, err := s.repo.NextNumeroTx(tx)
		if err != nil {
			return err
		}
		compra = model.Compra{
			Numero:      numero,
			ProveedorID: proveedorID,
			UsuarioID:   usuarioID,
			Total:       req.Total,
		}
		for i, l := range lineas {
			compra.Items = append(compra.Items, model.DetalleCompra{
				ProductoID:    l.productoID,
				Orden:         i + 1,
				Cantidad:      l.cantidad,
				CostoUnitario: l.precio,
			})
		}
		if err := s.repo.Create(ctx, tx, &compra); err != nil {
			return err
		}

		for _, l := range lineas {
			p := productos[l.productoID]
			_, err := s.inventario.AplicarMovimientoTx(tx, p, Asiento{
				Tipo:         model.MovEntrada,
				Cantidad:     l.cantidad,
				UsuarioID:    usuarioID,
				Descripcion:  fmt.Sprintf("Compra #%d", numero),
				ReferenciaID: &compra.ID,
			})
			if err != nil {
				return err
			}
			if err := s.actualizarCostoTx(tx, p, l.precio, compra.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidar(ctx, ids...)
	return &dto.CompraRegistradaResponse{
		Status:   "ok",
		IDCompra: compra.ID.String(),
		Numero:   compra.Numero,
	}, nil
}

// actualizarCostoTx overwrites the product cost and records the change in
// historial_costos. Equal costs write nothing.
func (s *compraService) actualizarCostoTx(tx *gorm.DB, p *model.Producto, costo decimal.Decimal, compraID uuid.UUID) error {
	if p.PrecioCompra.Equal(costo) {
		return nil
	}
	if err := s.productoRepo.UpdateCostoTx(tx, p.ID, costo); err != nil {
		return err
	}
	if err := s.historialRepo.CreateTx(tx, &model.HistorialCosto{
		ProductoID:    p.ID,
		CompraID:      compraID,
		CostoAnterior: p.PrecioCompra,
		CostoNuevo:    costo,
	}); err != nil {
		return err
	}
	p.PrecioCompra = costo
	return nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Compra no encontrada")
	}
	resp := compraToResponse(c)
	return &resp, nil
}

func (s *compraService) ListarCompras(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	desde, hasta, err := rangoFiltro(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}
	proveedorID, err := parseUUIDOpcional(filter.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}

	page, limit := repository.Pagina(filter.Page, filter.Limit)
	compras, total, err := s.repo.List(ctx, repository.CompraFilter{
		Desde:       desde,
		Hasta:       hasta,
		ProveedorID: proveedorID,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func compraToResponse(c *model.Compra) dto.CompraResponse {
	items := make([]dto.DetalleCompraResponse, 0, len(c.Items))
	for _, item := range c.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.DetalleCompraResponse{
			ProductoID:    item.ProductoID.String(),
			Producto:      nombre,
			Cantidad:      item.Cantidad,
			CostoUnitario: item.CostoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	resp := dto.CompraResponse{
		ID:          c.ID.String(),
		Numero:      c.Numero,
		Fecha:       c.Fecha,
		ProveedorID: c.ProveedorID.String(),
		UsuarioID:   c.UsuarioID.String(),
		Total:       c.Total,
		Items:       items,
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.Empresa
	}
	return resp
}
