// internal/services/manufacturer_service.go
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

type ManufacturerService struct {
	manufacturers repository.ManufacturerRepository
}

type CreateManufacturerRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	ContactInfo string `json:"contact_info" validate:"max=200"`
	Address     string `json:"address"`
	Email       string `json:"email" validate:"omitempty,email,max=120"`
	Phone       string `json:"phone" validate:"max=30"`
}

type UpdateManufacturerRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=100"`
	ContactInfo *string `json:"contact_info" validate:"omitnil,max=200"`
	Address     *string `json:"address"`
	Email       *string `json:"email" validate:"omitnil,max=120"`
	Phone       *string `json:"phone" validate:"omitnil,max=30"`
}

type ManufacturerListResponse struct {
	Manufacturers []models.Manufacturer `json:"manufacturers"`
	Count         int                   `json:"count"`
}

func NewManufacturerService(manufacturers repository.ManufacturerRepository) *ManufacturerService {
	return &ManufacturerService{manufacturers: manufacturers}
}

func (s *ManufacturerService) ListManufacturers(ctx context.Context) (*ManufacturerListResponse, error) {
	manufacturers, err := s.manufacturers.List(ctx)
	if err != nil {
		return nil, apperror.Internal("list manufacturers", err)
	}
	if manufacturers == nil {
		manufacturers = []models.Manufacturer{}
	}
	return &ManufacturerListResponse{Manufacturers: manufacturers, Count: len(manufacturers)}, nil
}

func (s *ManufacturerService) GetManufacturer(ctx context.Context, id uint) (*models.Manufacturer, error) {
	manufacturer, err := s.manufacturers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Manufacturer", id)
		}
		return nil, apperror.Internal("find manufacturer", err)
	}
	return manufacturer, nil
}

func (s *ManufacturerService) CreateManufacturer(ctx context.Context, req *CreateManufacturerRequest) (*models.Manufacturer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name", "Manufacturer name is required")
	}

	manufacturer := &models.Manufacturer{
		Name:        name,
		ContactInfo: req.ContactInfo,
		Address:     req.Address,
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
	}
	if err := s.manufacturers.Create(ctx, manufacturer); err != nil {
		return nil, manufacturerWriteError("create manufacturer", name, err)
	}

	logrus.WithFields(logrus.Fields{
		"manufacturer_id": manufacturer.ID,
		"name":            manufacturer.Name,
	}).Info("Manufacturer created")

	return manufacturer, nil
}

func (s *ManufacturerService) UpdateManufacturer(ctx context.Context, id uint, req *UpdateManufacturerRequest) (*models.Manufacturer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	manufacturer, err := s.GetManufacturer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name", "Manufacturer name must not be blank")
		}
		manufacturer.Name = name
	}
	if req.ContactInfo != nil {
		manufacturer.ContactInfo = *req.ContactInfo
	}
	if req.Address != nil {
		manufacturer.Address = *req.Address
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if err := utils.ValidateField("email", email, "email"); err != nil {
				return nil, err
			}
		}
		manufacturer.Email = email
	}
	if req.Phone != nil {
		manufacturer.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.manufacturers.Save(ctx, manufacturer); err != nil {
		return nil, manufacturerWriteError("update manufacturer", manufacturer.Name, err)
	}
	return manufacturer, nil
}

// DeleteManufacturer refuses while medicines still reference the manufacturer.
func (s *ManufacturerService) DeleteManufacturer(ctx context.Context, id uint) error {
	if err := s.manufacturers.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperror.NotFound("Manufacturer", id)
		case errors.Is(err, repository.ErrReferenced):
			return apperror.Conflict("Manufacturer with id %d is still referenced by medicines", id)
		default:
			return apperror.Internal("delete manufacturer", err)
		}
	}

	logrus.WithField("manufacturer_id", id).Info("Manufacturer deleted")
	return nil
}

func manufacturerWriteError(op, name string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict("Manufacturer with name %q already exists", name)
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("Manufacturer", 0)
	default:
		return apperror.Internal(op, err)
	}
}
