package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a single phonebook entry. Number and email uniquely identify a
// contact; LastContacted is nil until the contact is first reached.
type Contact struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Number        string     `json:"number"`
	Email         string     `json:"email,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Favourite     bool       `json:"favourite"`
	Blocked       bool       `json:"blocked"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewContact builds a contact with freshly stamped timestamps.
func NewContact(id uuid.UUID, name, number, email, notes string, tags []string, favourite, blocked bool) *Contact {
	now := time.Now().UTC()
	return &Contact{
		ID:        id,
		Name:      name,
		Number:    number,
		Email:     email,
		Notes:     notes,
		Tags:      DedupeTags(tags),
		Favourite: favourite,
		Blocked:   blocked,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DedupeTags removes duplicate tags while preserving first-seen order.
func DedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Clone returns a deep copy, so callers can hand out contacts without
// exposing shared slices or pointers.
func (c Contact) Clone() Contact {
	out := c
	if c.Tags != nil {
		out.Tags = make([]string, len(c.Tags))
		copy(out.Tags, c.Tags)
	}
	if c.LastContacted != nil {
		lc := *c.LastContacted
		out.LastContacted = &lc
	}
	return out
}
