package business

import "time"

// AddressInput is the JSON payload for adding an address.
type AddressInput struct {
	ContactName string `json:"contact_name" validate:"omitempty,max=200"`
	Line        string `json:"line" validate:"omitempty,max=500"`
	SubDistrict string `json:"sub_district" validate:"omitempty,max=200"`
	District    string `json:"district" validate:"omitempty,max=200"`
	Province    string `json:"province" validate:"omitempty,max=200"`
	PostalCode  string `json:"postal_code" validate:"omitempty,max=20"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
}

// AddressPatch is the JSON payload for the partial address update. Nil fields
// are left untouched.
type AddressPatch struct {
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
	Line        *string `json:"line" validate:"omitempty,max=500"`
	SubDistrict *string `json:"sub_district" validate:"omitempty,max=200"`
	District    *string `json:"district" validate:"omitempty,max=200"`
	Province    *string `json:"province" validate:"omitempty,max=200"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,max=20"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
}

// CreateBusinessRequest is the JSON payload for POST /my_busineses.
type CreateBusinessRequest struct {
	Name              string         `json:"name" validate:"required,min=1,max=200"`
	TaxNumber         string         `json:"tax_number" validate:"omitempty,max=50"`
	BusinessAddresses []AddressInput `json:"business_addresses" validate:"dive"`
	ShippingAddresses []AddressInput `json:"shipping_addresses" validate:"dive"`
}

// UpdateBusinessRequest is the JSON payload for PUT /my_busineses/{id}.
type UpdateBusinessRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxNumber *string `json:"tax_number" validate:"omitempty,max=50"`
}

// AddressResponse is the JSON rendering of an address.
type AddressResponse struct {
	ID          string    `json:"id"`
	ContactName string    `json:"contact_name"`
	Line        string    `json:"line"`
	SubDistrict string    `json:"sub_district"`
	District    string    `json:"district"`
	Province    string    `json:"province"`
	PostalCode  string    `json:"postal_code"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusinessResponse is the JSON rendering of a profile.
type BusinessResponse struct {
	ID                string            `json:"id"`
	Number            int               `json:"number"`
	Name              string            `json:"name"`
	TaxNumber         string            `json:"tax_number"`
	BusinessAddresses []AddressResponse `json:"business_addresses"`
	ShippingAddresses []AddressResponse `json:"shipping_addresses"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         *time.Time        `json:"deleted_at,omitempty"`
}

func toAddressResponse(a Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID.String(),
		ContactName: a.ContactName,
		Line:        a.Line,
		SubDistrict: a.SubDistrict,
		District:    a.District,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		Phone:       a.Phone,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAddressResponses(list []Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAddressResponse(a))
	}
	return out
}

// ToResponse maps a profile to its response DTO.
func ToResponse(b MyBusinese) BusinessResponse {
	return BusinessResponse{
		ID:                b.ID.String(),
		Number:            b.Number,
		Name:              b.Name,
		TaxNumber:         b.TaxNumber,
		BusinessAddresses: toAddressResponses(b.BusinessAddresses),
		ShippingAddresses: toAddressResponses(b.ShippingAddresses),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
		DeletedAt:         b.DeletedAt,
	}
}

// ToResponses maps a profile slice to response DTOs.
func ToResponses(list []MyBusinese) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, ToResponse(b))
	}
	return out
}
