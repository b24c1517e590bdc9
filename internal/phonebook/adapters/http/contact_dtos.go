package http

import "time"

// AddContactRequestDTO is the payload for POST /api/phonebook/add.
// Phone is the country-code-prefixed number; the model calls it Number but
// the wire name is fixed.
type AddContactRequestDTO struct {
	Name      string   `json:"name" validate:"required,min=1,max=255"`
	Phone     string   `json:"phone" validate:"required,e164"`
	Email     string   `json:"email" validate:"required,email,max=255"`
	Tags      []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Notes     string   `json:"notes,omitempty" validate:"max=2000"`
	Favourite *bool    `json:"favourite,omitempty"`
	Blocked   *bool    `json:"blocked,omitempty"`
}

// UpdateContactRequestDTO is the payload for PUT /api/phonebook/update/:id.
// All fields are optional; only provided fields are merged.
type UpdateContactRequestDTO struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Number        *string    `json:"number,omitempty" validate:"omitempty,e164"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Tags          *[]string  `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Favourite     *bool      `json:"favourite,omitempty"`
	Blocked       *bool      `json:"blocked,omitempty"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
}

// PaginationDTO describes the page window of a getAll response.
type PaginationDTO struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Envelope is the uniform response shape: {success, data, message?, pagination?}.
type Envelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data,omitempty"`
	Message    string         `json:"message,omitempty"`
	Pagination *PaginationDTO `json:"pagination,omitempty"`
}
