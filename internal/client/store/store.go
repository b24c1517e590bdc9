// Package store holds the client-side contact collection and its view
// parameters, and derives the visible, ordered contact list from them.
//
// The store performs no validation and no I/O. Callers follow a
// write-then-confirm discipline: a mutation is sent to the phonebook service
// first, and the corresponding store method is invoked only after the service
// confirms it, so a failed remote call leaves the collection untouched.
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

// ContactData carries the fields for an optimistic append. ID and CreatedAt
// are minted by the store itself.
type ContactData struct {
	Name          string
	Number        string
	Email         string
	Notes         string
	Tags          []string
	Favourite     bool
	Blocked       bool
	LastContacted *time.Time
}

// Partial is a partial contact for merge updates. Nil fields are left
// unchanged. ID and CreatedAt can never be changed.
type Partial struct {
	Name          *string
	Number        *string
	Email         *string
	Notes         *string
	Tags          *[]string
	Favourite     *bool
	Blocked       *bool
	LastContacted *time.Time
}

// Store is the working set of contacts plus the three view parameters.
// It is an explicitly constructed state object, not a package-level
// singleton; every consumer receives its own handle. It is not safe for
// concurrent use: all mutations and queries are expected to run on a single
// event loop.
type Store struct {
	contacts     []domain.Contact
	searchTerm   string
	sortOption   SortOption
	filterOption FilterOption
	seeded       bool
	now          func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the store's time source. Used by tests to pin the
// "recent" window and minted timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store with default view parameters (no search term,
// sorted by name, showing all contacts).
func New(opts ...Option) *Store {
	s := &Store{
		sortOption:   SortByName,
		filterOption: FilterAll,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize seeds the collection exactly once. The guard is an explicit
// one-shot flag, so a legitimately empty first payload still counts as the
// seed and later calls remain no-ops.
func (s *Store) Initialize(contacts []domain.Contact) {
	if s.seeded {
		return
	}
	s.contacts = make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		s.contacts = append(s.contacts, c.Clone())
	}
	s.seeded = true
}

// Add appends a new contact built from data, minting a fresh id and using
// the current time as creation timestamp. It is a pure append: the caller is
// responsible for having obtained server confirmation first. The appended
// contact is returned.
func (s *Store) Add(data ContactData) domain.Contact {
	now := s.now().UTC()
	c := domain.Contact{
		ID:            uuid.New(),
		Name:          data.Name,
		Number:        data.Number,
		Email:         data.Email,
		Notes:         data.Notes,
		Tags:          domain.DedupeTags(data.Tags),
		Favourite:     data.Favourite,
		Blocked:       data.Blocked,
		LastContacted: data.LastContacted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.contacts = append(s.contacts, c)
	return c.Clone()
}

// Update merges the supplied fields into the contact with the given id.
// Unknown ids are a no-op.
func (s *Store) Update(id uuid.UUID, p Partial) {
	i := s.index(id)
	if i < 0 {
		return
	}
	c := &s.contacts[i]
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Number != nil {
		c.Number = *p.Number
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Tags != nil {
		c.Tags = domain.DedupeTags(*p.Tags)
	}
	if p.Favourite != nil {
		c.Favourite = *p.Favourite
	}
	if p.Blocked != nil {
		c.Blocked = *p.Blocked
	}
	if p.LastContacted != nil {
		t := *p.LastContacted
		c.LastContacted = &t
	}
	c.UpdatedAt = s.now().UTC()
}

// Remove deletes the contact with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id uuid.UUID) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
}

// ToggleBlocked flips the blocked flag. Unknown ids are a no-op.
func (s *Store) ToggleBlocked(id uuid.UUID) {
	if i := s.index(id); i >= 0 {
		s.contacts[i].Blocked = !s.contacts[i].Blocked
	}
}

// ToggleFavorite flips the favourite flag. Unknown ids are a no-op.
func (s *Store) ToggleFavorite(id uuid.UUID) {
	if i := s.index(id); i >= 0 {
		s.contacts[i].Favourite = !s.contacts[i].Favourite
	}
}

// SetSearchTerm replaces the search term.
func (s *Store) SetSearchTerm(term string) {
	s.searchTerm = term
}

// SetSortOption replaces the sort option. Unknown options are ignored.
func (s *Store) SetSortOption(opt SortOption) {
	if opt.Valid() {
		s.sortOption = opt
	}
}

// SetFilterOption replaces the filter option. Unknown options are ignored.
func (s *Store) SetFilterOption(opt FilterOption) {
	if opt.Valid() {
		s.filterOption = opt
	}
}

// SearchTerm returns the current search term.
func (s *Store) SearchTerm() string { return s.searchTerm }

// SortOption returns the current sort option.
func (s *Store) SortOption() SortOption { return s.sortOption }

// FilterOption returns the current filter option.
func (s *Store) FilterOption() FilterOption { return s.filterOption }

// DerivedView returns the current filtered and sorted projection. It is
// recomputed from scratch on every call.
func (s *Store) DerivedView() []domain.Contact {
	return Compose(s.contacts, s.searchTerm, s.sortOption, s.filterOption, s.now())
}

// Get returns the contact with the given id, if present.
func (s *Store) Get(id uuid.UUID) (domain.Contact, bool) {
	if i := s.index(id); i >= 0 {
		return s.contacts[i].Clone(), true
	}
	return domain.Contact{}, false
}

// Len returns the number of contacts in the collection, ignoring view
// parameters.
func (s *Store) Len() int { return len(s.contacts) }

// Contacts returns a defensive copy of the raw collection in insertion order.
func (s *Store) Contacts() []domain.Contact {
	out := make([]domain.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c.Clone())
	}
	return out
}

func (s *Store) index(id uuid.UUID) int {
	for i, c := range s.contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}
