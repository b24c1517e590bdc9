package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phoneboox/phoneboox/internal/phonebook/app"
	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// PhonebookService is the application surface the handler depends on.
type PhonebookService interface {
	CreateContact(ctx context.Context, p app.CreateContactParams) (*domain.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	ListContacts(ctx context.Context, q domain.ListQuery) ([]*domain.Contact, int64, error)
	UpdateContact(ctx context.Context, id uuid.UUID, p app.UpdateContactParams) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
}

// ContactHandler handles the /api/phonebook REST surface.
type ContactHandler struct {
	service  PhonebookService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewContactHandler(service PhonebookService, logger *slog.Logger, validate *validator.Validate) *ContactHandler {
	return &ContactHandler{service: service, logger: logger, validate: validate}
}

// RegisterRoutes mounts the contact routes on the given router, which is
// expected to be rooted at /api/phonebook.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Get("/getAll", h.GetAll)
	r.Post("/add", h.Add)
	r.Put("/update/{id}", h.Update)
	r.Delete("/delete/{id}", h.Delete)
	r.Get("/get/{id}", h.GetByID)
}

func respondWithJSON(w http.ResponseWriter, code int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("Failed to write JSON response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, Envelope{Success: false, Message: message})
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseBoolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v := raw == "true"
	return &v
}

func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = defaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sortOrder := domain.SortAsc
	if q.Get("sortOrder") == "desc" {
		sortOrder = domain.SortDesc
	}

	listQuery := domain.ListQuery{
		Offset:    (page - 1) * limit,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: sortOrder,
		Favourite: parseBoolParam(r, "favourite"),
		Blocked:   parseBoolParam(r, "blocked"),
		Search:    q.Get("search"),
	}

	contacts, total, err := h.service.ListContacts(ctx, listQuery)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list contacts", "error", err)
		respondWithError(w, statusForError(err), "Failed to fetch contacts")
		return
	}
	if contacts == nil {
		contacts = []*domain.Contact{}
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	respondWithJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       contacts,
		Pagination: &PaginationDTO{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

func (h *ContactHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	params := app.CreateContactParams{
		Name:   req.Name,
		Number: req.Phone,
		Email:  req.Email,
		Notes:  req.Notes,
		Tags:   req.Tags,
	}
	if req.Favourite != nil {
		params.Favourite = *req.Favourite
	}
	if req.Blocked != nil {
		params.Blocked = *req.Blocked
	}

	ct, err := h.service.CreateContact(ctx, params)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			respondWithError(w, http.StatusConflict, "Contact already exists")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to create contact", "error", err)
		respondWithError(w, statusForError(err), "Failed to add contact")
		return
	}

	respondWithJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Data:    ct,
		Message: "Contact added successfully",
	})
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var req UpdateContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	params := app.UpdateContactParams{
		Name:          req.Name,
		Number:        req.Number,
		Email:         req.Email,
		Notes:         req.Notes,
		Tags:          req.Tags,
		Favourite:     req.Favourite,
		Blocked:       req.Blocked,
		LastContacted: req.LastContacted,
	}

	ct, err := h.service.UpdateContact(ctx, id, params)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrDuplicateEntry) {
			h.logger.ErrorContext(ctx, "Failed to update contact", "error", err, "contact_id", id)
		}
		respondWithError(w, statusForError(err), updateErrorMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    ct,
		Message: "Contact updated successfully",
	})
}

func updateErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Contact not found"
	case errors.Is(err, domain.ErrDuplicateEntry):
		return "Contact already exists"
	default:
		return "Failed to update contact"
	}
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	ct, err := h.service.DeleteContact(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Contact not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete contact", "error", err, "contact_id", id)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    ct,
		Message: "Contact deleted successfully",
	})
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	ct, err := h.service.GetContact(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Contact not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get contact", "error", err, "contact_id", id)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch contact")
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Data: ct})
}
