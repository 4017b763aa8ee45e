package service

import (
	"context"
	"errors"
	"strings"

	"github.com/diazinho777/Ferreteria-sistema/internal/apierror"
	"github.com/diazinho777/Ferreteria-sistema/internal/dto"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"
	"github.com/diazinho777/Ferreteria-sistema/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, q string) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	ruc := strings.TrimSpace(req.RUC)
	if err := s.verificarRUCLibre(ctx, ruc, uuid.Nil); err != nil {
		return nil, err
	}
	p := &model.Proveedor{
		Empresa:   strings.TrimSpace(req.Empresa),
		RUC:       ruc,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, q string) ([]dto.ProveedorResponse, error) {
	list, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, 0, len(list))
	for i := range list {
		resp = append(resp, *proveedorToResponse(&list[i]))
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	ruc := strings.TrimSpace(req.RUC)
	if ruc != p.RUC {
		if err := s.verificarRUCLibre(ctx, ruc, id); err != nil {
			return nil, err
		}
	}
	p.Empresa = strings.TrimSpace(req.Empresa)
	p.RUC = ruc
	p.Email = req.Email
	p.Telefono = req.Telefono
	p.Direccion = req.Direccion
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

// Eliminar hard-deletes a supplier that no purchase references.
func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return noEncontrado(err, "Proveedor no encontrado")
	}
	usado, err := s.repo.TieneCompras(ctx, id)
	if err != nil {
		return err
	}
	if usado {
		return apierror.Validation("No se puede eliminar un proveedor con compras registradas")
	}
	return s.repo.Delete(ctx, id)
}

func (s *proveedorService) verificarRUCLibre(ctx context.Context, ruc string, propio uuid.UUID) error {
	existing, err := s.repo.FindByRUC(ctx, ruc)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != propio {
		return apierror.Validation("Ya existe un proveedor con el RUC %s", ruc)
	}
	return nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:        p.ID.String(),
		Empresa:   p.Empresa,
		RUC:       p.RUC,
		Email:     p.Email,
		Telefono:  p.Telefono,
		Direccion: p.Direccion,
	}
}
