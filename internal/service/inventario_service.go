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

// Asiento describes one stock change to post to the kardex.
type Asiento struct {
	Tipo         string
	Cantidad     decimal.Decimal
	UsuarioID    uuid.UUID
	Descripcion  string
	ReferenciaID *uuid.UUID
}

// InventarioService owns the stock ledger. Every stock change in the system
// goes through AplicarMovimientoTx.
type InventarioService interface {
	// AplicarMovimientoTx requires p to have been loaded under a row lock in tx.
	// On success p.Stock holds the new value.
	AplicarMovimientoTx(tx *gorm.DB, p *model.Producto, a Asiento) (*model.Movimiento, error)
	ReportarPerdida(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjusteStockRequest) (*dto.MovimientoResponse, error)
	AjustarStock(ctx context.Context, usuarioID, productoID uuid.UUID, tipo string, req dto.AjusteStockRequest) (*dto.MovimientoResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	Kardex(ctx context.Context, productoID uuid.UUID) (*dto.KardexResponse, error)
	AlertasStockBajo(ctx context.Context) ([]dto.AlertaStockResponse, error)
	HistorialCostos(ctx context.Context, productoID uuid.UUID) ([]dto.HistorialCostoResponse, error)
}

type inventarioService struct {
	productoRepo     repository.ProductoRepository
	movimientoRepo   repository.MovimientoRepository
	historialRepo    repository.HistorialCostoRepository
	cache            *infra.ProductoCache
	permitirNegativo bool
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoRepository,
	historialRepo repository.HistorialCostoRepository,
	cache *infra.ProductoCache,
	permitirNegativo bool,
) InventarioService {
	return &inventarioService{
		productoRepo:     productoRepo,
		movimientoRepo:   movimientoRepo,
		historialRepo:    historialRepo,
		cache:            cache,
		permitirNegativo: permitirNegativo,
	}
}

func (s *inventarioService) AplicarMovimientoTx(tx *gorm.DB, p *model.Producto, a Asiento) (*model.Movimiento, error) {
	signo, ok := model.Signo(a.Tipo)
	if !ok {
		return nil, apierror.Validation("Tipo de movimiento inválido: %s", a.Tipo)
	}
	if !a.Cantidad.IsPositive() {
		return nil, apierror.Validation("La cantidad debe ser mayor que cero")
	}

	anterior := p.Stock
	nuevo := anterior.Add(a.Cantidad.Mul(decimal.NewFromInt(int64(signo))))
	if nuevo.IsNegative() && !s.permitirNegativo {
		return nil, apierror.InsufficientStock(p.Nombre)
	}

	if err := s.productoRepo.UpdateStockTx(tx, p.ID, nuevo); err != nil {
		return nil, fmt.Errorf("actualizando stock de %s: %w", p.Nombre, err)
	}
	mov := &model.Movimiento{
		ProductoID:    p.ID,
		UsuarioID:     a.UsuarioID,
		Tipo:          a.Tipo,
		Cantidad:      a.Cantidad,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Descripcion:   a.Descripcion,
		ReferenciaID:  a.ReferenciaID,
	}
	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, fmt.Errorf("registrando movimiento: %w", err)
	}
	p.Stock = nuevo
	return mov, nil
}

// ReportarPerdida posts an ajuste_neg for damaged or lost goods.
func (s *inventarioService) ReportarPerdida(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjusteStockRequest) (*dto.MovimientoResponse, error) {
	return s.ajustar(ctx, usuarioID, productoID, model.MovAjusteNeg, "Pérdida: "+req.Motivo, req.Cantidad)
}

func (s *inventarioService) AjustarStock(ctx context.Context, usuarioID, productoID uuid.UUID, tipo string, req dto.AjusteStockRequest) (*dto.MovimientoResponse, error) {
	if tipo != model.MovAjustePos && tipo != model.MovAjusteNeg {
		return nil, apierror.Validation("El tipo de ajuste debe ser %s o %s", model.MovAjustePos, model.MovAjusteNeg)
	}
	return s.ajustar(ctx, usuarioID, productoID, tipo, "Ajuste: "+req.Motivo, req.Cantidad)
}

func (s *inventarioService) ajustar(ctx context.Context, usuarioID, productoID uuid.UUID, tipo, descripcion string, cantidad decimal.Decimal) (*dto.MovimientoResponse, error) {
	if !cantidad.IsPositive() {
		return nil, apierror.Validation("La cantidad debe ser mayor que cero")
	}

	var mov *model.Movimiento
	var producto *model.Producto
	err := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		bloqueados, err := s.productoRepo.LockForUpdateTx(tx, []uuid.UUID{productoID})
		if err != nil {
			return err
		}
		p, ok := bloqueados[productoID]
		if !ok {
			return apierror.NotFound("Producto no encontrado")
		}
		mov, err = s.AplicarMovimientoTx(tx, p, Asiento{
			Tipo:        tipo,
			Cantidad:    cantidad,
			UsuarioID:   usuarioID,
			Descripcion: descripcion,
		})
		producto = p
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidar(ctx, productoID)
	mov.Producto = producto
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	productoID, err := parseUUIDOpcional(filter.ProductoID, "producto_id")
	if err != nil {
		return nil, err
	}
	if filter.Tipo != "" {
		if _, ok := model.Signo(filter.Tipo); !ok {
			return nil, apierror.Validation("Tipo de movimiento inválido: %s", filter.Tipo)
		}
	}
	desde, hasta, err := rangoFiltro(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}

	page, limit := repository.Pagina(filter.Page, filter.Limit)
	movs, total, err := s.movimientoRepo.List(ctx, repository.MovimientoFilter{
		ProductoID: productoID,
		Tipo:       filter.Tipo,
		Desde:      desde,
		Hasta:      hasta,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, movimientoToResponse(&movs[i]))
	}
	return &dto.MovimientoListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Kardex returns a product with its whole movement history, newest first.
func (s *inventarioService) Kardex(ctx context.Context, productoID uuid.UUID) (*dto.KardexResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	movs, err := s.movimientoRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	resp := &dto.KardexResponse{
		Producto:    productoToResponse(p),
		Movimientos: make([]dto.MovimientoResponse, 0, len(movs)),
	}
	for i := range movs {
		movs[i].Producto = p
		resp.Movimientos = append(resp.Movimientos, movimientoToResponse(&movs[i]))
	}
	return resp, nil
}

func (s *inventarioService) AlertasStockBajo(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
			Faltante:    p.StockMinimo.Sub(p.Stock),
		})
	}
	return alertas, nil
}

func (s *inventarioService) HistorialCostos(ctx context.Context, productoID uuid.UUID) ([]dto.HistorialCostoResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	list, err := s.historialRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.HistorialCostoResponse, 0, len(list))
	for _, h := range list {
		resp = append(resp, dto.HistorialCostoResponse{
			ID:            h.ID.String(),
			ProductoID:    h.ProductoID.String(),
			CompraID:      h.CompraID.String(),
			CostoAnterior: h.CostoAnterior,
			CostoNuevo:    h.CostoNuevo,
			Fecha:         h.CreatedAt,
		})
	}
	return resp, nil
}

func movimientoToResponse(m *model.Movimiento) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		UsuarioID:     m.UsuarioID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Descripcion:   m.Descripcion,
		Fecha:         m.Fecha,
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	if m.Usuario != nil {
		resp.Usuario = m.Usuario.Nombre
	}
	if m.ReferenciaID != nil {
		resp.ReferenciaID = strPtr(m.ReferenciaID.String())
	}
	return resp
}
