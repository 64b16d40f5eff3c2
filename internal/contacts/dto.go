package contacts

import "time"

// CreateContactRequest is the JSON payload for POST /contacts.
type CreateContactRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	TaxNumber   string `json:"tax_number" validate:"omitempty,max=50"`
	ContactType string `json:"contact_type" validate:"required,oneof=supplier customer both"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Note        string `json:"note" validate:"omitempty,max=1000"`
}

// UpdateContactRequest is the JSON payload for PUT /contacts/{id}.
// Nil fields are left untouched.
type UpdateContactRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxNumber   *string `json:"tax_number" validate:"omitempty,max=50"`
	ContactType *string `json:"contact_type" validate:"omitempty,oneof=supplier customer both"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Note        *string `json:"note" validate:"omitempty,max=1000"`
}

// ContactResponse is the JSON rendering of a contact.
type ContactResponse struct {
	ID          string     `json:"id"`
	Number      int        `json:"number"`
	Name        string     `json:"name"`
	TaxNumber   string     `json:"tax_number"`
	ContactType string     `json:"contact_type"`
	Address     string     `json:"address"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// ToResponse maps a contact to its response DTO.
func ToResponse(c Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID.String(),
		Number:      c.Number,
		Name:        c.Name,
		TaxNumber:   c.TaxNumber,
		ContactType: string(c.ContactType),
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		Note:        c.Note,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		DeletedAt:   c.DeletedAt,
	}
}

// ToResponses maps a contact slice to response DTOs.
func ToResponses(list []Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToResponse(c))
	}
	return out
}
