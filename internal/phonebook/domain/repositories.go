package domain

import (
	"context"

	"github.com/google/uuid"
)

// SortDirection orders list results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListQuery carries pagination, sorting and filtering for contact listings.
// Nil filter fields mean "no constraint".
type ListQuery struct {
	Offset    int
	Limit     int
	SortBy    string
	SortOrder SortDirection
	Favourite *bool
	Blocked   *bool
	Search    string
}

// ContactRepository persists contacts.
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	List(ctx context.Context, q ListQuery) ([]*Contact, error)
	Count(ctx context.Context, q ListQuery) (int64, error)
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindByNumberOrEmail returns (nil, nil) when no contact matches.
	FindByNumberOrEmail(ctx context.Context, number, email string) (*Contact, error)
}
