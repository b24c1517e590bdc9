// Package api is the HTTP client of the phonebook service. It speaks the
// /api/phonebook REST surface and maps response statuses onto the error
// taxonomy in errors.go. It performs no retries; every failure is terminal
// for that call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

// Pagination mirrors the pagination block of a getAll response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// envelope is the wire shape of every response. Data is decoded lazily
// because its type depends on the endpoint.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *Pagination     `json:"pagination"`
}

// ListParams are the query parameters of getAll. Zero values are omitted.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Favourite *bool
	Blocked   *bool
	Search    string
}

// AddContactRequest is the body of POST /api/phonebook/add. The wire name
// for the number is "phone".
type AddContactRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Favourite bool     `json:"favourite,omitempty"`
	Blocked   bool     `json:"blocked,omitempty"`
}

// UpdateContactRequest is the partial body of PUT /api/phonebook/update/:id.
type UpdateContactRequest struct {
	Name          *string    `json:"name,omitempty"`
	Number        *string    `json:"number,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Tags          *[]string  `json:"tags,omitempty"`
	Favourite     *bool      `json:"favourite,omitempty"`
	Blocked       *bool      `json:"blocked,omitempty"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
}

// Client calls the phonebook service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL
// (e.g. "http://localhost:8000"). httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	u := c.baseURL + "/api/phonebook" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("phonebook service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, statusError(resp.StatusCode, env.Message)
	}
	return &env, nil
}

func statusError(status int, message string) error {
	var base error
	switch status {
	case http.StatusBadRequest:
		base = ErrValidation
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusConflict:
		base = ErrConflict
	default:
		base = ErrServer
	}
	if message == "" {
		return fmt.Errorf("%w (status %d)", base, status)
	}
	return fmt.Errorf("%w: %s", base, message)
}

// ListContacts fetches one page of contacts.
func (c *Client) ListContacts(ctx context.Context, p ListParams) ([]domain.Contact, Pagination, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	if p.Favourite != nil {
		q.Set("favourite", strconv.FormatBool(*p.Favourite))
	}
	if p.Blocked != nil {
		q.Set("blocked", strconv.FormatBool(*p.Blocked))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	env, err := c.do(ctx, http.MethodGet, "/getAll", q, nil)
	if err != nil {
		return nil, Pagination{}, err
	}

	var contacts []domain.Contact
	if err := json.Unmarshal(env.Data, &contacts); err != nil {
		return nil, Pagination{}, fmt.Errorf("decoding contact list: %w", err)
	}
	var pg Pagination
	if env.Pagination != nil {
		pg = *env.Pagination
	}
	return contacts, pg, nil
}

// ListAllContacts pages through getAll until every contact is fetched.
func (c *Client) ListAllContacts(ctx context.Context, pageSize int) ([]domain.Contact, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	var all []domain.Contact
	for page := 1; ; page++ {
		contacts, pg, err := c.ListContacts(ctx, ListParams{Page: page, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, contacts...)
		if pg.Pages == 0 || page >= pg.Pages {
			return all, nil
		}
	}
}

func (c *Client) decodeContact(env *envelope) (domain.Contact, error) {
	var ct domain.Contact
	if err := json.Unmarshal(env.Data, &ct); err != nil {
		return domain.Contact{}, fmt.Errorf("decoding contact: %w", err)
	}
	return ct, nil
}

// GetContact fetches a single contact by id.
func (c *Client) GetContact(ctx context.Context, id uuid.UUID) (domain.Contact, error) {
	env, err := c.do(ctx, http.MethodGet, "/get/"+id.String(), nil, nil)
	if err != nil {
		return domain.Contact{}, err
	}
	return c.decodeContact(env)
}

// AddContact creates a contact and returns the server's record.
func (c *Client) AddContact(ctx context.Context, req AddContactRequest) (domain.Contact, error) {
	env, err := c.do(ctx, http.MethodPost, "/add", nil, req)
	if err != nil {
		return domain.Contact{}, err
	}
	return c.decodeContact(env)
}

// UpdateContact merges the supplied fields server-side and returns the
// updated record.
func (c *Client) UpdateContact(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (domain.Contact, error) {
	env, err := c.do(ctx, http.MethodPut, "/update/"+id.String(), nil, req)
	if err != nil {
		return domain.Contact{}, err
	}
	return c.decodeContact(env)
}

// DeleteContact removes a contact and returns the removed record.
func (c *Client) DeleteContact(ctx context.Context, id uuid.UUID) (domain.Contact, error) {
	env, err := c.do(ctx, http.MethodDelete, "/delete/"+id.String(), nil, nil)
	if err != nil {
		return domain.Contact{}, err
	}
	return c.decodeContact(env)
}
