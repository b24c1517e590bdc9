package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

// Application provides contact management operations over a repository.
// It performs no field-format validation; that happens at the HTTP boundary.
type Application struct {
	contactRepo domain.ContactRepository
	events      EventPublisher
	logger      *slog.Logger
}

// NewApplication creates an Application. events may be nil, which disables
// mutation event publishing.
func NewApplication(repo domain.ContactRepository, events EventPublisher, logger *slog.Logger) *Application {
	return &Application{
		contactRepo: repo,
		events:      events,
		logger:      logger.With("component", "phonebook_app"),
	}
}

// CreateContactParams carries the fields accepted on create.
type CreateContactParams struct {
	Name      string
	Number    string
	Email     string
	Notes     string
	Tags      []string
	Favourite bool
	Blocked   bool
}

// UpdateContactParams carries a partial update. Nil fields are left
// unchanged; ID and CreatedAt can never be modified.
type UpdateContactParams struct {
	Name          *string
	Number        *string
	Email         *string
	Notes         *string
	Tags          *[]string
	Favourite     *bool
	Blocked       *bool
	LastContacted *time.Time
}

func (a *Application) publish(ctx context.Context, subject string, ct *domain.Contact) {
	if a.events == nil {
		return
	}
	if err := a.events.PublishJSON(subject, ContactEvent{Contact: ct}); err != nil {
		// Event delivery is best effort; the mutation already succeeded.
		a.logger.WarnContext(ctx, "Failed to publish contact event", "subject", subject, "error", err)
	}
}

// CreateContact creates a contact, rejecting duplicates by number or email.
func (a *Application) CreateContact(ctx context.Context, p CreateContactParams) (*domain.Contact, error) {
	existing, err := a.contactRepo.FindByNumberOrEmail(ctx, p.Number, p.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		duplicateRejectionsTotal.Inc()
		a.logger.WarnContext(ctx, "Rejected duplicate contact", "number", p.Number, "existing_id", existing.ID)
		return nil, domain.ErrDuplicateEntry
	}

	ct := domain.NewContact(uuid.New(), p.Name, p.Number, p.Email, p.Notes, p.Tags, p.Favourite, p.Blocked)
	if err := a.contactRepo.Create(ctx, ct); err != nil {
		return nil, err
	}
	contactsCreatedTotal.Inc()
	a.publish(ctx, SubjectContactCreated, ct)
	return ct, nil
}

// GetContact retrieves a contact by id.
func (a *Application) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return a.contactRepo.GetByID(ctx, id)
}

// ListContacts returns a page of contacts plus the total count matching the
// query's filters.
func (a *Application) ListContacts(ctx context.Context, q domain.ListQuery) ([]*domain.Contact, int64, error) {
	contacts, err := a.contactRepo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	total, err := a.contactRepo.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// UpdateContact merges the supplied fields into an existing contact.
func (a *Application) UpdateContact(ctx context.Context, id uuid.UUID, p UpdateContactParams) (*domain.Contact, error) {
	ct, err := a.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		ct.Name = *p.Name
	}
	if p.Number != nil {
		ct.Number = *p.Number
	}
	if p.Email != nil {
		ct.Email = *p.Email
	}
	if p.Notes != nil {
		ct.Notes = *p.Notes
	}
	if p.Tags != nil {
		ct.Tags = domain.DedupeTags(*p.Tags)
	}
	if p.Favourite != nil {
		ct.Favourite = *p.Favourite
	}
	if p.Blocked != nil {
		ct.Blocked = *p.Blocked
	}
	if p.LastContacted != nil {
		ct.LastContacted = p.LastContacted
	}

	if err := a.contactRepo.Update(ctx, ct); err != nil {
		return nil, err
	}
	contactsUpdatedTotal.Inc()
	a.publish(ctx, SubjectContactUpdated, ct)
	return ct, nil
}

// DeleteContact removes a contact and returns the removed record.
func (a *Application) DeleteContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	ct, err := a.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.contactRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	contactsDeletedTotal.Inc()
	a.publish(ctx, SubjectContactDeleted, ct)
	return ct, nil
}
