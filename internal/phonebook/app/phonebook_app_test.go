package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, ct *domain.Contact) error {
	args := m.Called(ctx, ct)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if ct, ok := args.Get(0).(*domain.Contact); ok {
		return ct, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Contact, error) {
	args := m.Called(ctx, q)
	if cts, ok := args.Get(0).([]*domain.Contact); ok {
		return cts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContactRepository) Count(ctx context.Context, q domain.ListQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, ct *domain.Contact) error {
	args := m.Called(ctx, ct)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) FindByNumberOrEmail(ctx context.Context, number, email string) (*domain.Contact, error) {
	args := m.Called(ctx, number, email)
	if ct, ok := args.Get(0).(*domain.Contact); ok {
		return ct, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(subject string, payload any) error {
	args := m.Called(subject, payload)
	return args.Error(0)
}

func newTestApp(repo domain.ContactRepository, events EventPublisher) *Application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewApplication(repo, events, logger)
}

func TestCreateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockContactRepository)
		events := new(MockEventPublisher)
		app := newTestApp(repo, events)

		repo.On("FindByNumberOrEmail", ctx, "+15551234567", "alice@example.com").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Contact")).Return(nil).Once()
		events.On("PublishJSON", SubjectContactCreated, mock.AnythingOfType("app.ContactEvent")).Return(nil).Once()

		ct, err := app.CreateContact(ctx, CreateContactParams{
			Name:   "Alice",
			Number: "+15551234567",
			Email:  "alice@example.com",
			Tags:   []string{"friend", "friend"},
		})
		require.NoError(t, err)
		require.NotNil(t, ct)
		assert.NotEqual(t, uuid.Nil, ct.ID)
		assert.Equal(t, "Alice", ct.Name)
		assert.Equal(t, []string{"friend"}, ct.Tags)
		repo.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := new(MockContactRepository)
		app := newTestApp(repo, nil)

		existing := domain.NewContact(uuid.New(), "Taken", "+15551234567", "", "", nil, false, false)
		repo.On("FindByNumberOrEmail", ctx, "+15551234567", "new@example.com").Return(existing, nil).Once()

		ct, err := app.CreateContact(ctx, CreateContactParams{Name: "New", Number: "+15551234567", Email: "new@example.com"})
		assert.Nil(t, ct)
		assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureDoesNotFailCreate", func(t *testing.T) {
		repo := new(MockContactRepository)
		events := new(MockEventPublisher)
		app := newTestApp(repo, events)

		repo.On("FindByNumberOrEmail", ctx, "+15557654321", "").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Contact")).Return(nil).Once()
		events.On("PublishJSON", SubjectContactCreated, mock.Anything).Return(errors.New("nats down")).Once()

		_, err := app.CreateContact(ctx, CreateContactParams{Name: "Bob", Number: "+15557654321"})
		assert.NoError(t, err)
	})
}

func TestListContacts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	app := newTestApp(repo, nil)

	q := domain.ListQuery{Offset: 0, Limit: 20, SortBy: "name", SortOrder: domain.SortAsc}
	page := []*domain.Contact{
		domain.NewContact(uuid.New(), "Alice", "+15550000001", "", "", nil, false, false),
		domain.NewContact(uuid.New(), "Bob", "+15550000002", "", "", nil, false, false),
	}
	repo.On("List", ctx, q).Return(page, nil).Once()
	repo.On("Count", ctx, q).Return(int64(42), nil).Once()

	contacts, total, err := app.ListContacts(ctx, q)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, int64(42), total)
	repo.AssertExpectations(t)
}

func TestUpdateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("MergesOnlyProvidedFields", func(t *testing.T) {
		repo := new(MockContactRepository)
		app := newTestApp(repo, nil)

		id := uuid.New()
		existing := domain.NewContact(id, "Alice", "+15551234567", "alice@example.com", "old notes", []string{"friend"}, false, false)
		repo.On("GetByID", ctx, id).Return(existing, nil).Once()
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Contact")).Return(nil).Once()

		name := "Alice Cooper"
		fav := true
		last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		ct, err := app.UpdateContact(ctx, id, UpdateContactParams{Name: &name, Favourite: &fav, LastContacted: &last})
		require.NoError(t, err)
		assert.Equal(t, id, ct.ID)
		assert.Equal(t, "Alice Cooper", ct.Name)
		assert.True(t, ct.Favourite)
		assert.Equal(t, "+15551234567", ct.Number)
		assert.Equal(t, "old notes", ct.Notes)
		require.NotNil(t, ct.LastContacted)
		assert.Equal(t, last, *ct.LastContacted)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockContactRepository)
		app := newTestApp(repo, nil)

		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound).Once()

		ct, err := app.UpdateContact(ctx, id, UpdateContactParams{})
		assert.Nil(t, ct)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteContact(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsRemovedContact", func(t *testing.T) {
		repo := new(MockContactRepository)
		events := new(MockEventPublisher)
		app := newTestApp(repo, events)

		id := uuid.New()
		existing := domain.NewContact(id, "Gone", "+15559999999", "", "", nil, false, false)
		repo.On("GetByID", ctx, id).Return(existing, nil).Once()
		repo.On("Delete", ctx, id).Return(nil).Once()
		events.On("PublishJSON", SubjectContactDeleted, mock.Anything).Return(nil).Once()

		ct, err := app.DeleteContact(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Gone", ct.Name)
		repo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockContactRepository)
		app := newTestApp(repo, nil)

		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound).Once()

		ct, err := app.DeleteContact(ctx, id)
		assert.Nil(t, ct)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
