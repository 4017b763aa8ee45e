package service

import (
	"context"
	"fmt"
	"io"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"
	"github.com/diazinho777/Ferreteria-sistema/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaRegistradaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	// TicketPDF renders the thermal ticket of a sale into w.
	TicketPDF(ctx context.Context, id uuid.UUID, w io.Writer) error
}

// VentaOpciones carries the configuration the sale flow depends on.
type VentaOpciones struct {
	ValidarTotal bool
	Empresa      infra.Empresa
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	inventario   InventarioService
	cache        *infra.ProductoCache
	dispatcher   *worker.Dispatcher
	opts         VentaOpciones
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	inventario InventarioService,
	cache *infra.ProductoCache,
	dispatcher *worker.Dispatcher,
	opts VentaOpciones,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		inventario:   inventario,
		cache:        cache,
		dispatcher:   dispatcher,
		opts:         opts,
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

// lineaCarrito is a parsed, validated cart line.
type lineaCarrito struct {
	productoID uuid.UUID
	cantidad   decimal.Decimal
	precio     decimal.Decimal
}

// parseCarrito validates the raw cart lines. Quantities must be positive and
// prices non-negative. An id that does not parse names no product.
func parseCarrito(items []dto.ItemCarrito, vacio string) ([]lineaCarrito, []uuid.UUID, error) {
	if len(items) == 0 {
		return nil, nil, apierror.Validation("%s", vacio)
	}
	lineas := make([]lineaCarrito, 0, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.ID)
		if err != nil {
			return nil, nil, apierror.NotFound("Producto no encontrado")
		}
		if !it.Cantidad.IsPositive() {
			return nil, nil, apierror.Validation("La cantidad debe ser mayor que cero")
		}
		if it.Precio.IsNegative() {
			return nil, nil, apierror.Validation("El precio no puede ser negativo")
		}
		lineas = append(lineas, lineaCarrito{productoID: id, cantidad: it.Cantidad, precio: it.Precio})
		ids = append(ids, id)
	}
	return lineas, ids, nil
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One transaction:
//   1. resolve the customer
//   2. validate the cart lines, discount and total
//   3. reserve: lock every product (ascending id) and check cumulative stock
//   4. commit: numero, header, lines, one salida per line through the ledger
// After commit: cache invalidation and the optional ticket email job.

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaRegistradaResponse, error) {
	var clienteID *uuid.UUID
	if req.IDCliente != nil && *req.IDCliente != "" {
		id, err := uuid.Parse(*req.IDCliente)
		if err != nil {
			return nil, apierror.NotFound("Cliente no encontrado")
		}
		clienteID = &id
	}

	var venta model.Venta
	var cliente *model.Cliente
	var lineas []lineaCarrito
	var ids []uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if clienteID != nil {
			c, err := s.clienteRepo.FindByIDTx(tx, *clienteID)
			if err != nil {
				return noEncontrado(err, "Cliente no encontrado")
			}
			cliente = c
		}

		var err error
		lineas, ids, err = s.validarCarrito(req)
		if err != nil {
			return err
		}

		productos, err := s.reservar(tx, lineas, ids)
		if err != nil {
			return err
		}

		numero, err := s.repo.NextNumeroTx(tx)
		if err != nil {
			return err
		}
		venta = model.Venta{
			Numero:    numero,
			UsuarioID: usuarioID,
			ClienteID: clienteID,
			Descuento: req.Descuento,
			Total:     req.Total,
		}
		for i, l := range lineas {
			venta.Items = append(venta.Items, model.DetalleVenta{
				ProductoID:     l.productoID,
				Orden:          i + 1,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
			})
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, l := range lineas {
			_, err := s.inventario.AplicarMovimientoTx(tx, productos[l.productoID], Asiento{
				Tipo:         model.MovSalida,
				Cantidad:     l.cantidad,
				UsuarioID:    usuarioID,
				Descripcion:  fmt.Sprintf("Venta #%d", numero),
				ReferenciaID: &venta.ID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.Invalidar(ctx, ids...)
	s.encolarTicket(ctx, &venta, cliente)

	return &dto.VentaRegistradaResponse{
		Status:  "ok",
		IDVenta: venta.ID.String(),
		Numero:  venta.Numero,
	}, nil
}

// validarCarrito checks the lines, the discount and the client total.
func (s *ventaService) validarCarrito(req dto.RegistrarVentaRequest) ([]lineaCarrito, []uuid.UUID, error) {
	lineas, ids, err := parseCarrito(req.Items, "El carrito está vacío")
	if err != nil {
		return nil, nil, err
	}
	if req.Descuento.IsNegative() {
		return nil, nil, apierror.Validation("El descuento no puede ser negativo")
	}
	if err := s.verificarTotal(lineas, req.Total, req.Descuento); err != nil {
		return nil, nil, err
	}
	return lineas, ids, nil
}

// reservar locks the cart's products and checks that each one covers the
// cumulative quantity requested across all lines. Nothing is written.
func (s *ventaService) reservar(tx *gorm.DB, lineas []lineaCarrito, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	productos, err := s.productoRepo.LockForUpdateTx(tx, ids)
	if err != nil {
		return nil, err
	}
	pedido := make(map[uuid.UUID]decimal.Decimal, len(productos))
	for _, l := range lineas {
		p, ok := productos[l.productoID]
		if !ok {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		if !p.Activo {
			return nil, apierror.Validation("El producto %s está inactivo y no puede venderse", p.Nombre)
		}
		pedido[p.ID] = pedido[p.ID].Add(l.cantidad)
		if pedido[p.ID].GreaterThan(p.Stock) {
			return nil, apierror.InsufficientStock(p.Nombre)
		}
	}
	return productos, nil
}

// verificarTotal compares the client total with Σsubtotal − descuento. The
// client value is what gets stored; a mismatch is only rejected when
// VENTA_VALIDAR_TOTAL is on.
func (s *ventaService) verificarTotal(lineas []lineaCarrito, total, descuento decimal.Decimal) error {
	suma := decimal.Zero
	for _, l := range lineas {
		suma = suma.Add(l.cantidad.Mul(l.precio))
	}
	esperado := suma.Sub(descuento).Round(2)
	if total.Round(2).Equal(esperado) {
		return nil
	}
	log.Warn().
		Str("total_recibido", total.String()).
		Str("total_calculado", esperado.String()).
		Msg("venta: total del carrito no coincide con las líneas")
	if s.opts.ValidarTotal {
		return apierror.Validation("El total no coincide con el detalle (esperado %s)", esperado.StringFixed(2))
	}
	return nil
}

func (s *ventaService) encolarTicket(ctx context.Context, venta *model.Venta, cliente *model.Cliente) {
	if cliente == nil || cliente.Email == nil || *cliente.Email == "" || !s.dispatcher.Habilitado() {
		return
	}
	err := s.dispatcher.EnqueueTicketEmail(ctx, worker.TicketEmailPayload{
		VentaID: venta.ID.String(),
		Email:   *cliente.Email,
	})
	if err != nil {
		log.Warn().Err(err).Str("venta_id", venta.ID.String()).Msg("venta: no se pudo encolar el ticket")
	}
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Venta no encontrada")
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

// ListarVentas returns a paginated list of sales, newest first.
func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	desde, hasta, err := rangoFiltro(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}
	usuarioID, err := parseUUIDOpcional(filter.UsuarioID, "usuario_id")
	if err != nil {
		return nil, err
	}
	clienteID, err := parseUUIDOpcional(filter.ClienteID, "cliente_id")
	if err != nil {
		return nil, err
	}

	page, limit := repository.Pagina(filter.Page, filter.Limit)
	ventas, total, err := s.repo.List(ctx, repository.VentaFilter{
		Desde:     desde,
		Hasta:     hasta,
		UsuarioID: usuarioID,
		ClienteID: clienteID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ventaService) TicketPDF(ctx context.Context, id uuid.UUID, w io.Writer) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, "Venta no encontrada")
	}
	return infra.WriteTicketPDF(w, v, s.opts.Empresa)
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	items := make([]dto.DetalleVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.DetalleVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	resp := dto.VentaResponse{
		ID:        v.ID.String(),
		Numero:    v.Numero,
		Fecha:     v.Fecha,
		UsuarioID: v.UsuarioID.String(),
		Descuento: v.Descuento,
		Total:     v.Total,
		Items:     items,
	}
	if v.Usuario != nil {
		resp.Usuario = v.Usuario.Nombre
	}
	if v.ClienteID != nil {
		resp.ClienteID = strPtr(v.ClienteID.String())
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.Texto()
	}
	return resp
}
