package service

import (
	"context"
	"io"
	"time"

	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"
)

const (
	topDefault        = 10
	topMaximo         = 100
	ultimasVentasHome = 5
)

// ReporteService exposes read-only derived views over current data.
type ReporteService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Financiero(ctx context.Context, rango dto.RangoFechas) (*dto.ReporteFinancieroResponse, error)
	TopProductos(ctx context.Context, rango dto.RangoFechas) ([]dto.TopProductoResponse, error)
	TopClientes(ctx context.Context, n int) ([]dto.TopClienteResponse, error)
	TopOperadores(ctx context.Context, rango dto.RangoFechas) ([]dto.TopOperadorResponse, error)
	// ExportarInventario writes the inventory valuation workbook to w.
	ExportarInventario(ctx context.Context, w io.Writer) error
}

type reporteService struct {
	repo         repository.ReporteRepository
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	ahora        func() time.Time
}

func NewReporteService(
	repo repository.ReporteRepository,
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
) ReporteService {
	return &reporteService{repo: repo, ventaRepo: ventaRepo, productoRepo: productoRepo, ahora: time.Now}
}

func limiteTop(n int) int {
	if n <= 0 {
		return topDefault
	}
	if n > topMaximo {
		return topMaximo
	}
	return n
}

// Dashboard is the home screen: today's sales, low stock count and the last sales.
func (s *reporteService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	hoy := inicioDelDia(s.ahora())
	total, count, err := s.ventaRepo.Resumen(ctx, hoy, hoy.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	stockBajo, err := s.productoRepo.CountStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	ultimas, err := s.ventaRepo.Ultimas(ctx, ultimasVentasHome)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		VentasHoyTotal: total,
		VentasHoyCount: count,
		StockBajoCount: stockBajo,
		UltimasVentas:  make([]dto.VentaResponse, 0, len(ultimas)),
	}
	for i := range ultimas {
		resp.UltimasVentas = append(resp.UltimasVentas, ventaToResponse(&ultimas[i]))
	}
	return resp, nil
}

// Financiero: margins are estimated with each product's current cost.
func (s *reporteService) Financiero(ctx context.Context, rango dto.RangoFechas) (*dto.ReporteFinancieroResponse, error) {
	desde, hasta, err := rangoReporte(rango.Desde, rango.Hasta, s.ahora())
	if err != nil {
		return nil, err
	}
	f, err := s.repo.Financiero(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	return &dto.ReporteFinancieroResponse{
		Desde:          desde,
		Hasta:          hasta.AddDate(0, 0, -1),
		NumVentas:      f.NumVentas,
		IngresosBrutos: f.IngresosBrutos,
		MargenBruto:    f.MargenBruto,
		Descuentos:     f.Descuentos,
		MargenNeto:     f.MargenBruto.Sub(f.Descuentos),
	}, nil
}

func (s *reporteService) TopProductos(ctx context.Context, rango dto.RangoFechas) ([]dto.TopProductoResponse, error) {
	desde, hasta, err := rangoReporte(rango.Desde, rango.Hasta, s.ahora())
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.TopProductos(ctx, desde, hasta, limiteTop(rango.N))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TopProductoResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.TopProductoResponse{
			ProductoID:      r.ProductoID.String(),
			Nombre:          r.Nombre,
			CantidadVendida: r.CantidadVendida,
			Ingresos:        r.Ingresos,
		})
	}
	return resp, nil
}

func (s *reporteService) TopClientes(ctx context.Context, n int) ([]dto.TopClienteResponse, error) {
	rows, err := s.repo.TopClientes(ctx, limiteTop(n))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TopClienteResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.TopClienteResponse{
			ClienteID:    r.ClienteID.String(),
			Nombres:      r.Nombres,
			NumCompras:   r.NumCompras,
			TotalGastado: r.TotalGastado,
			VIP:          esVIP(r.NumCompras),
		})
	}
	return resp, nil
}

func (s *reporteService) TopOperadores(ctx context.Context, rango dto.RangoFechas) ([]dto.TopOperadorResponse, error) {
	desde, hasta, err := rangoReporte(rango.Desde, rango.Hasta, s.ahora())
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.TopOperadores(ctx, desde, hasta, limiteTop(rango.N))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TopOperadorResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.TopOperadorResponse{
			UsuarioID: r.UsuarioID.String(),
			Nombre:    r.Nombre,
			NumVentas: r.NumVentas,
			Ingresos:  r.Ingresos,
		})
	}
	return resp, nil
}

func (s *reporteService) ExportarInventario(ctx context.Context, w io.Writer) error {
	productos, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return err
	}
	return infra.WriteInventarioXLSX(w, productos)
}
