package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest is the JSON payload for POST /services.
type CreateServiceRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
}

// UpdateServiceRequest is the JSON payload for PUT /services/{id}.
type UpdateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
}

// ServiceResponse is the JSON rendering of a service.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Number      int             `json:"number"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

// ToResponse maps a service to its response DTO.
func ToResponse(s ServiceItem) ServiceResponse {
	var categoryID *string
	if s.CategoryID != nil {
		raw := s.CategoryID.String()
		categoryID = &raw
	}
	return ServiceResponse{
		ID:          s.ID.String(),
		Number:      s.Number,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		CategoryID:  categoryID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		DeletedAt:   s.DeletedAt,
	}
}

// ToResponses maps a service slice to response DTOs.
func ToResponses(list []ServiceItem) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToResponse(s))
	}
	return out
}
