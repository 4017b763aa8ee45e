package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// umbralVIP: a customer with more sales than this is flagged VIP.
	umbralVIP        = 5
	limiteBusqueda   = 10
	minCharsBusqueda = 2
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	CrearRapido(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteRapidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, q string) ([]dto.ClienteResponse, error)
	Buscar(ctx context.Context, q string) ([]dto.ClienteOpcion, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func esVIP(numCompras int64) bool { return numCompras > umbralVIP }

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.crear(ctx, req)
	if err != nil {
		return nil, err
	}
	return clienteToResponse(c, 0, decimal.Zero), nil
}

// CrearRapido is the widget's inline creation; the answer carries the picker label.
func (s *clienteService) CrearRapido(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteRapidoResponse, error) {
	c, err := s.crear(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.ClienteRapidoResponse{
		Status:  "ok",
		Cliente: dto.ClienteOpcion{ID: c.ID.String(), Text: c.Texto()},
	}, nil
}

func (s *clienteService) crear(ctx context.Context, req dto.CrearClienteRequest) (*model.Cliente, error) {
	cedula := normalizarOpcional(req.CedulaRUC)
	if err := s.verificarCedulaLibre(ctx, cedula, uuid.Nil); err != nil {
		return nil, err
	}
	c := &model.Cliente{
		Nombres:   strings.TrimSpace(req.Nombres),
		CedulaRUC: cedula,
		Telefono:  normalizarOpcional(req.Telefono),
		Email:     normalizarOpcional(req.Email),
		Direccion: req.Direccion,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	row, err := s.repo.FindConEstadisticas(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}
	return clienteToResponse(&row.Cliente, row.NumCompras, row.TotalGastado), nil
}

// Listar returns customers with their purchase count and total spent.
func (s *clienteService) Listar(ctx context.Context, q string) ([]dto.ClienteResponse, error) {
	rows, err := s.repo.ListConEstadisticas(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, *clienteToResponse(&rows[i].Cliente, rows[i].NumCompras, rows[i].TotalGastado))
	}
	return resp, nil
}

// Buscar feeds the cart widget customer picker.
func (s *clienteService) Buscar(ctx context.Context, q string) ([]dto.ClienteOpcion, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minCharsBusqueda {
		return []dto.ClienteOpcion{}, nil
	}
	rows, err := s.repo.Buscar(ctx, q, limiteBusqueda)
	if err != nil {
		return nil, err
	}
	opciones := make([]dto.ClienteOpcion, 0, len(rows))
	for i := range rows {
		opciones = append(opciones, dto.ClienteOpcion{
			ID:         rows[i].ID.String(),
			Text:       rows[i].Texto(),
			NumCompras: rows[i].NumCompras,
			VIP:        esVIP(rows[i].NumCompras),
		})
	}
	return opciones, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}
	cedula := normalizarOpcional(req.CedulaRUC)
	if err := s.verificarCedulaLibre(ctx, cedula, id); err != nil {
		return nil, err
	}
	c.Nombres = strings.TrimSpace(req.Nombres)
	c.CedulaRUC = cedula
	c.Telefono = normalizarOpcional(req.Telefono)
	c.Email = normalizarOpcional(req.Email)
	c.Direccion = req.Direccion
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return noEncontrado(err, "Cliente no encontrado")
	}
	usado, err := s.repo.TieneVentas(ctx, id)
	if err != nil {
		return err
	}
	if usado {
		return apierror.Validation("No se puede eliminar un cliente con ventas registradas")
	}
	return s.repo.Delete(ctx, id)
}

func (s *clienteService) verificarCedulaLibre(ctx context.Context, cedula *string, propio uuid.UUID) error {
	if cedula == nil {
		return nil
	}
	existing, err := s.repo.FindByCedula(ctx, *cedula)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != propio {
		return apierror.Validation("Ya existe un cliente con la cédula/RUC %s", *cedula)
	}
	return nil
}

// normalizarOpcional trims the value and maps blank strings to nil so unique
// columns accept many customers without a document.
func normalizarOpcional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func clienteToResponse(c *model.Cliente, numCompras int64, totalGastado decimal.Decimal) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:           c.ID.String(),
		Nombres:      c.Nombres,
		CedulaRUC:    c.CedulaRUC,
		Telefono:     c.Telefono,
		Email:        c.Email,
		Direccion:    c.Direccion,
		NumCompras:   numCompras,
		TotalGastado: totalGastado,
		VIP:          esVIP(numCompras),
	}
}
