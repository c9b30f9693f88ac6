package address

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kirana/globals"
	"kirana/models"

	"github.com/julienschmidt/httprouter"
)

type memStore struct {
	addresses map[string]*models.Address
}

func newMemStore(addresses ...*models.Address) *memStore {
	s := &memStore{addresses: map[string]*models.Address{}}
	for _, a := range addresses {
		s.addresses[a.AddressID] = a
	}
	return s
}

func (s *memStore) Insert(_ context.Context, a *models.Address) error {
	cp := *a
	s.addresses[a.AddressID] = &cp
	return nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*models.Address, error) {
	a, ok := s.addresses[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]models.Address, error) {
	var out []models.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, a *models.Address) error {
	cp := *a
	cp.UpdatedAt = time.Now()
	s.addresses[a.AddressID] = &cp
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.addresses, id)
	return nil
}

// SetDefault mirrors the single pipeline update: true for the target,
// false for every sibling of the same user.
func (s *memStore) SetDefault(_ context.Context, userID, id string) error {
	for _, a := range s.addresses {
		if a.UserID == userID {
			a.IsDefault = a.AddressID == id
		}
	}
	return nil
}

func (s *memStore) defaults(userID string) []string {
	var out []string
	for _, a := range s.addresses {
		if a.UserID == userID && a.IsDefault {
			out = append(out, a.AddressID)
		}
	}
	return out
}

func authedRequest(method, target, body, userID string, roles ...string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), globals.UserIDKey, userID)
	ctx = context.WithValue(ctx, globals.RoleKey, roles)
	return r.WithContext(ctx)
}

func TestCreateAddress(t *testing.T) {
	t.Run("creates with defaults filled", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)

		body := `{"fullName":"Asha Rao","phone":"9876543210","addressLine1":"14 MG Road","city":"Chennai","state":"TN","pincode":"600001"}`
		rec := httptest.NewRecorder()
		svc.CreateAddress(rec, authedRequest(http.MethodPost, "/api/addresses", body, "u1"), nil)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var created models.Address
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		if created.Country != "India" || created.AddressType != "home" {
			t.Errorf("defaults not applied: %+v", created)
		}
		if created.IsDefault {
			t.Error("address must not be default unless requested")
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		svc := NewService(newMemStore())
		rec := httptest.NewRecorder()
		svc.CreateAddress(rec, authedRequest(http.MethodPost, "/api/addresses", `{"fullName":"X"}`, "u1"), nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("creating a default unsets the previous one", func(t *testing.T) {
		existing := &models.Address{AddressID: "a1", UserID: "u1", IsDefault: true}
		store := newMemStore(existing)
		svc := NewService(store)

		body := `{"fullName":"Asha Rao","phone":"9876543210","addressLine1":"14 MG Road","city":"Chennai","state":"TN","pincode":"600001","isDefault":true}`
		rec := httptest.NewRecorder()
		svc.CreateAddress(rec, authedRequest(http.MethodPost, "/api/addresses", body, "u1"), nil)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		defaults := store.defaults("u1")
		if len(defaults) != 1 || defaults[0] == "a1" {
			t.Errorf("expected exactly the new address as default, got %v", defaults)
		}
	})
}

func TestSetDefaultAddress(t *testing.T) {
	t.Run("exactly one default after the call", func(t *testing.T) {
		store := newMemStore(
			&models.Address{AddressID: "a1", UserID: "u1", IsDefault: true},
			&models.Address{AddressID: "a2", UserID: "u1"},
			&models.Address{AddressID: "a3", UserID: "u1"},
			&models.Address{AddressID: "b1", UserID: "u2", IsDefault: true},
		)
		svc := NewService(store)

		rec := httptest.NewRecorder()
		svc.SetDefaultAddress(rec,
			authedRequest(http.MethodPut, "/api/addresses/address/a2/default", "", "u1"),
			httprouter.Params{{Key: "id", Value: "a2"}})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if defaults := store.defaults("u1"); len(defaults) != 1 || defaults[0] != "a2" {
			t.Errorf("expected {a2}, got %v", defaults)
		}
		// Another user's default is untouched.
		if defaults := store.defaults("u2"); len(defaults) != 1 || defaults[0] != "b1" {
			t.Errorf("u2 defaults changed: %v", defaults)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		store := newMemStore(&models.Address{AddressID: "a1", UserID: "u2"})
		svc := NewService(store)

		rec := httptest.NewRecorder()
		svc.SetDefaultAddress(rec,
			authedRequest(http.MethodPut, "/api/addresses/address/a1/default", "", "u1"),
			httprouter.Params{{Key: "id", Value: "a1"}})

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		svc := NewService(newMemStore())
		rec := httptest.NewRecorder()
		svc.SetDefaultAddress(rec,
			authedRequest(http.MethodPut, "/api/addresses/address/nope/default", "", "u1"),
			httprouter.Params{{Key: "id", Value: "nope"}})

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestUpdateAddress(t *testing.T) {
	t.Run("patches only provided fields", func(t *testing.T) {
		store := newMemStore(&models.Address{
			AddressID: "a1", UserID: "u1", FullName: "Asha Rao", City: "Chennai", Pincode: "600001",
		})
		svc := NewService(store)

		rec := httptest.NewRecorder()
		svc.UpdateAddress(rec,
			authedRequest(http.MethodPut, "/api/addresses/address/a1", `{"city":"Madurai"}`, "u1"),
			httprouter.Params{{Key: "id", Value: "a1"}})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		got := store.addresses["a1"]
		if got.City != "Madurai" || got.FullName != "Asha Rao" || got.Pincode != "600001" {
			t.Errorf("unexpected patch result: %+v", got)
		}
	})

	t.Run("owner check on update", func(t *testing.T) {
		store := newMemStore(&models.Address{AddressID: "a1", UserID: "u2"})
		svc := NewService(store)

		rec := httptest.NewRecorder()
		svc.UpdateAddress(rec,
			authedRequest(http.MethodPut, "/api/addresses/address/a1", `{"city":"X"}`, "u1"),
			httprouter.Params{{Key: "id", Value: "a1"}})

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}

func TestGetAddressByID(t *testing.T) {
	t.Run("admin may read another user's address", func(t *testing.T) {
		store := newMemStore(&models.Address{AddressID: "a1", UserID: "u2"})
		svc := NewService(store)

		rec := httptest.NewRecorder()
		svc.GetAddressByID(rec,
			authedRequest(http.MethodGet, "/api/addresses/address/a1", "", "u1", "admin"),
			httprouter.Params{{Key: "id", Value: "a1"}})

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for admin read, got %d", rec.Code)
		}
	})

	t.Run("plain user may not", func(t *testing.T) {
		store := newMemStore(&models.Address{AddressID: "a1", UserID: "u2"})
		svc := NewService(store)

		rec := httptest.NewRecorder()
		svc.GetAddressByID(rec,
			authedRequest(http.MethodGet, "/api/addresses/address/a1", "", "u1"),
			httprouter.Params{{Key: "id", Value: "a1"}})

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}
