package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func sampleContact(name string) domain.Contact {
	return domain.Contact{
		ID:        uuid.New(),
		Name:      name,
		Number:    "+15551234567",
		Email:     "sample@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestListContacts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/phonebook/getAll", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			assert.Equal(t, "true", r.URL.Query().Get("favourite"))
			writeEnvelope(t, w, http.StatusOK, map[string]any{
				"success":    true,
				"data":       []domain.Contact{sampleContact("Alice"), sampleContact("Bob")},
				"pagination": Pagination{Page: 2, Limit: 10, Total: 12, Pages: 2},
			})
		}))
		defer srv.Close()

		fav := true
		client := NewClient(srv.URL, nil)
		contacts, pg, err := client.ListContacts(ctx, ListParams{Page: 2, Limit: 10, Favourite: &fav})
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "Alice", contacts[0].Name)
		assert.Equal(t, 2, pg.Pages)
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": "Failed to fetch contacts",
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, _, err := client.ListContacts(ctx, ListParams{})
		assert.ErrorIs(t, err, ErrServer)
		assert.Contains(t, err.Error(), "Failed to fetch contacts")
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", nil)
		_, _, err := client.ListContacts(ctx, ListParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "phonebook service unreachable")
	})
}

func TestListAllContacts(t *testing.T) {
	var pages []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, len(pages)+1)
		var data []domain.Contact
		switch page {
		case "1":
			data = []domain.Contact{sampleContact("A"), sampleContact("B")}
		case "2":
			data = []domain.Contact{sampleContact("C")}
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success":    true,
			"data":       data,
			"pagination": Pagination{Page: len(pages), Limit: 2, Total: 3, Pages: 2},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	all, err := client.ListAllContacts(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Len(t, pages, 2)
}

func TestAddContact(t *testing.T) {
	ctx := context.Background()

	t.Run("Created", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/phonebook/add", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req AddContactRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "+15551234567", req.Phone)

			created := sampleContact(req.Name)
			writeEnvelope(t, w, http.StatusCreated, map[string]any{
				"success": true,
				"data":    created,
				"message": "Contact added successfully",
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		ct, err := client.AddContact(ctx, AddContactRequest{Name: "Alice", Phone: "+15551234567", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", ct.Name)
	})

	t.Run("Conflict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusConflict, map[string]any{
				"success": false,
				"message": "Contact already exists",
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.AddContact(ctx, AddContactRequest{Name: "Dup", Phone: "+15551234567", Email: "dup@example.com"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("ValidationRejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.AddContact(ctx, AddContactRequest{Name: "NoPhone"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestGetContact(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == fmt.Sprintf("/api/phonebook/get/%s", id) {
			ct := sampleContact("Alice")
			ct.ID = id
			writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "data": ct})
			return
		}
		writeEnvelope(t, w, http.StatusNotFound, map[string]any{"success": false, "message": "Contact not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)

	ct, err := client.GetContact(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, ct.ID)

	_, err = client.GetContact(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateContact(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/phonebook/update/"+id.String(), r.URL.Path)

		var req UpdateContactRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Name)
		assert.Nil(t, req.Number)

		ct := sampleContact(*req.Name)
		ct.ID = id
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "data": ct})
	}))
	defer srv.Close()

	name := "Renamed"
	client := NewClient(srv.URL, nil)
	ct, err := client.UpdateContact(context.Background(), id, UpdateContactRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ct.Name)
}

func TestDeleteContact(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		ct := sampleContact("Gone")
		ct.ID = id
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    ct,
			"message": "Contact deleted successfully",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	ct, err := client.DeleteContact(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Gone", ct.Name)
}
