package product

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog operations to the HTTP layer.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	ListActive(ctx context.Context) ([]ProductDTO, error)
	ListByCategory(ctx context.Context, category string) ([]ProductDTO, error)
	ListAll(ctx context.Context) ([]ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService wires the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product service: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(row), nil
}

func (s *service) ListActive(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	rows, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products by category")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list all products")
	}
	return toDTOs(rows), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (ProductDTO, error) {
	row := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product")
	}
	return NewProductDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Category != nil {
		row.Category = strings.TrimSpace(*input.Category)
	}
	if input.PriceCents != nil {
		row.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		row.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		row.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductDTO(&rows[i]))
	}
	return out
}
