// internal/services/category_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/chemist-backend/internal/apperror"
	"github.com/javajoker/chemist-backend/internal/models"
	"github.com/javajoker/chemist-backend/internal/repository"
	"github.com/javajoker/chemist-backend/internal/utils"
)

type CategoryService struct {
	categories repository.CategoryRepository
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=50"`
	Description *string `json:"description"`
}

type CategoryListResponse struct {
	Categories []models.MedicineCategory `json:"categories"`
	Count      int                       `json:"count"`
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) ListCategories(ctx context.Context) (*CategoryListResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperror.Internal("list categories", err)
	}
	if categories == nil {
		categories = []models.MedicineCategory{}
	}
	return &CategoryListResponse{Categories: categories, Count: len(categories)}, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.MedicineCategory, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Category", id)
		}
		return nil, apperror.Internal("find category", err)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.MedicineCategory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name", "Category name is required")
	}

	category := &models.MedicineCategory{Name: name, Description: req.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, categoryWriteError("create category", name, err)
	}

	logrus.WithFields(logrus.Fields{
		"category_id": category.ID,
		"name":        category.Name,
	}).Info("Category created")

	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, req *UpdateCategoryRequest) (*models.MedicineCategory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name", "Category name must not be blank")
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, categoryWriteError("update category", category.Name, err)
	}
	return category, nil
}

// DeleteCategory refuses while medicines still reference the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperror.NotFound("Category", id)
		case errors.Is(err, repository.ErrReferenced):
			return apperror.Conflict("Category with id %d is still referenced by medicines", id)
		default:
			return apperror.Internal("delete category", err)
		}
	}

	logrus.WithField("category_id", id).Info("Category deleted")
	return nil
}

func categoryWriteError(op, name string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict("Category with name %q already exists", name)
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("Category", 0)
	default:
		return apperror.Internal(op, err)
	}
}
