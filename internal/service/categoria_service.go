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

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
	}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if err := s.verificarNombreLibre(ctx, nombre, uuid.Nil); err != nil {
		return dto.CategoriaResponse{}, err
	}

	c := &model.Categoria{
		Nombre:      nombre,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, noEncontrado(err, "Categoría no encontrada")
	}

	nombre := strings.TrimSpace(req.Nombre)
	if !strings.EqualFold(nombre, c.Nombre) {
		if err := s.verificarNombreLibre(ctx, nombre, id); err != nil {
			return dto.CategoriaResponse{}, err
		}
	}
	c.Nombre = nombre
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

// Eliminar deletes the category; its products stay, uncategorized.
func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.EliminarTx(tx, id)
	})
	return noEncontrado(err, "Categoría no encontrada")
}

func (s *categoriaService) verificarNombreLibre(ctx context.Context, nombre string, propio uuid.UUID) error {
	existing, err := s.repo.ObtenerPorNombre(ctx, nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != propio {
		return apierror.Validation("Ya existe una categoría con ese nombre")
	}
	return nil
}
