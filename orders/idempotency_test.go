package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

type memIdempotencyStore struct {
	records  map[string]*IdempotencyRecord
	claimErr error
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{records: map[string]*IdempotencyRecord{}}
}

func (s *memIdempotencyStore) Find(_ context.Context, key string) (*IdempotencyRecord, error) {
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memIdempotencyStore) Claim(_ context.Context, rec *IdempotencyRecord) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	if _, ok := s.records[rec.Key]; ok {
		return ErrKeyClaimed
	}
	cp := *rec
	s.records[rec.Key] = &cp
	return nil
}

func (s *memIdempotencyStore) Complete(_ context.Context, key string, status int, body []byte) error {
	rec := s.records[key]
	rec.Status = status
	rec.Body = append([]byte(nil), body...)
	rec.Completed = true
	return nil
}

func (s *memIdempotencyStore) Release(_ context.Context, key string) error {
	delete(s.records, key)
	return nil
}

func keyedRequest(key, body, userID string) *http.Request {
	r := authedRequest(http.MethodPost, "/api/orders/place", body, userID)
	if key != "" {
		r.Header.Set("Idempotency-Key", key)
	}
	return r
}

func countingHandler(calls *int, status int, body string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*calls++
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestIdempotent(t *testing.T) {
	t.Run("no header passes through every time", func(t *testing.T) {
		store := newMemIdempotencyStore()
		var calls int
		handler := Idempotent(store)(countingHandler(&calls, http.StatusCreated, `{"ok":1}`))

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler(rec, keyedRequest("", `{"a":1}`, "u1"), nil)
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", rec.Code)
			}
		}
		if calls != 2 {
			t.Errorf("expected 2 handler calls, got %d", calls)
		}
		if len(store.records) != 0 {
			t.Errorf("no records may be stored without a key, got %d", len(store.records))
		}
	})

	t.Run("repeated key replays without re-running the handler", func(t *testing.T) {
		store := newMemIdempotencyStore()
		var calls int
		handler := Idempotent(store)(countingHandler(&calls, http.StatusCreated, `{"orderId":"o1"}`))

		first := httptest.NewRecorder()
		handler(first, keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if first.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		handler(second, keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if second.Code != http.StatusCreated {
			t.Fatalf("replay expected 201, got %d", second.Code)
		}
		if second.Body.String() != `{"orderId":"o1"}` {
			t.Errorf("replay body mismatch: %s", second.Body.String())
		}
		if calls != 1 {
			t.Errorf("handler must run once, ran %d times", calls)
		}
	})

	t.Run("same key with a different body is rejected", func(t *testing.T) {
		store := newMemIdempotencyStore()
		var calls int
		handler := Idempotent(store)(countingHandler(&calls, http.StatusCreated, `{}`))

		handler(httptest.NewRecorder(), keyedRequest("k1", `{"a":1}`, "u1"), nil)

		rec := httptest.NewRecorder()
		handler(rec, keyedRequest("k1", `{"a":2}`, "u1"), nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if calls != 1 {
			t.Errorf("mismatched request must not reach the handler, calls=%d", calls)
		}
	})

	t.Run("same key from a different user is rejected", func(t *testing.T) {
		store := newMemIdempotencyStore()
		handler := Idempotent(store)(countingHandler(new(int), http.StatusCreated, `{}`))

		handler(httptest.NewRecorder(), keyedRequest("k1", `{"a":1}`, "u1"), nil)

		rec := httptest.NewRecorder()
		handler(rec, keyedRequest("k1", `{"a":1}`, "u2"), nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("matching in-flight request conflicts", func(t *testing.T) {
		store := newMemIdempotencyStore()
		store.records["k1"] = &IdempotencyRecord{
			Key:         "k1",
			RequestHash: computeRequestHash(keyedRequest("k1", `{"a":1}`, "u1"), []byte(`{"a":1}`), "u1"),
		}
		var calls int
		handler := Idempotent(store)(countingHandler(&calls, http.StatusCreated, `{}`))

		rec := httptest.NewRecorder()
		handler(rec, keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
		if calls != 0 {
			t.Error("in-flight key must not reach the handler")
		}
	})

	t.Run("losing the claim race conflicts", func(t *testing.T) {
		store := newMemIdempotencyStore()
		store.claimErr = ErrKeyClaimed
		var calls int
		handler := Idempotent(store)(countingHandler(&calls, http.StatusCreated, `{}`))

		rec := httptest.NewRecorder()
		handler(rec, keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
		if calls != 0 {
			t.Error("lost race must not reach the handler")
		}
	})

	t.Run("server fault releases the key for retry", func(t *testing.T) {
		store := newMemIdempotencyStore()
		var calls int
		status := http.StatusInternalServerError
		handler := Idempotent(store)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			calls++
			w.WriteHeader(status)
			w.Write([]byte(`{}`))
		})

		handler(httptest.NewRecorder(), keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if len(store.records) != 0 {
			t.Fatal("failed request must not keep its claim")
		}

		// The retry runs the handler again and this time completes.
		status = http.StatusCreated
		rec := httptest.NewRecorder()
		handler(rec, keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("retry expected 201, got %d", rec.Code)
		}
		if calls != 2 {
			t.Errorf("expected 2 handler runs, got %d", calls)
		}
		if rec2 := store.records["k1"]; rec2 == nil || !rec2.Completed {
			t.Errorf("retry must store a completed record: %+v", rec2)
		}
	})

	t.Run("client errors are stored and replayed", func(t *testing.T) {
		store := newMemIdempotencyStore()
		var calls int
		handler := Idempotent(store)(countingHandler(&calls, http.StatusBadRequest, `{"success":false}`))

		handler(httptest.NewRecorder(), keyedRequest("k1", `{"a":1}`, "u1"), nil)

		rec := httptest.NewRecorder()
		handler(rec, keyedRequest("k1", `{"a":1}`, "u1"), nil)
		if rec.Code != http.StatusBadRequest || rec.Body.String() != `{"success":false}` {
			t.Errorf("expected stored 400 replay, got %d %s", rec.Code, rec.Body.String())
		}
		if calls != 1 {
			t.Errorf("handler must run once, ran %d times", calls)
		}
	})
}
