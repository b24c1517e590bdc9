package app

import "github.com/phoneboox/phoneboox/internal/phonebook/domain"

// NATS subjects for contact mutation events.
const (
	SubjectContactCreated = "phonebook.contact.created"
	SubjectContactUpdated = "phonebook.contact.updated"
	SubjectContactDeleted = "phonebook.contact.deleted"
)

// EventPublisher publishes contact mutation events. The NATS client
// implements it; a nil publisher disables eventing.
type EventPublisher interface {
	PublishJSON(subject string, payload any) error
}

// ContactEvent is the payload published on phonebook.contact.* subjects.
type ContactEvent struct {
	Contact *domain.Contact `json:"contact"`
}
