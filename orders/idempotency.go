package orders

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"kirana/db"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const idempotencyTTL = 24 * time.Hour

// ErrKeyClaimed reports that another request already holds the key.
var ErrKeyClaimed = errors.New("idempotency key already claimed")

// IdempotencyRecord is one claimed key and, once the request completes,
// the response it produced.
type IdempotencyRecord struct {
	Key         string    `bson:"key"`
	RequestHash string    `bson:"request_hash"`
	Status      int       `bson:"status"`
	Body        []byte    `bson:"body"`
	Completed   bool      `bson:"completed"`
	CreatedAt   time.Time `bson:"created_at"`
	ExpiresAt   time.Time `bson:"expires_at"`
}

// IdempotencyStore persists key claims. Claim must be atomic: exactly one
// of two concurrent claims for the same key may succeed, the other gets
// ErrKeyClaimed.
type IdempotencyStore interface {
	Find(ctx context.Context, key string) (*IdempotencyRecord, error)
	Claim(ctx context.Context, rec *IdempotencyRecord) error
	Complete(ctx context.Context, key string, status int, body []byte) error
	Release(ctx context.Context, key string) error
}

// MongoIdempotencyStore backs claims with the idempotency collection; the
// unique index on key makes Claim atomic and the TTL index expires stale
// records.
type MongoIdempotencyStore struct{}

// InitIdempotencyIndexes creates the unique-key and TTL indexes.
func InitIdempotencyIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err := db.IdempotencyCollection.Indexes().CreateMany(ctx, idxs)
	return err
}

func (MongoIdempotencyStore) Find(ctx context.Context, key string) (*IdempotencyRecord, error) {
	var rec IdempotencyRecord
	err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (MongoIdempotencyStore) Claim(ctx context.Context, rec *IdempotencyRecord) error {
	_, err := db.IdempotencyCollection.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrKeyClaimed
	}
	return err
}

func (MongoIdempotencyStore) Complete(ctx context.Context, key string, status int, body []byte) error {
	_, err := db.IdempotencyCollection.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{
			"status":    status,
			"body":      body,
			"completed": true,
		}},
	)
	return err
}

func (MongoIdempotencyStore) Release(ctx context.Context, key string) error {
	_, err := db.IdempotencyCollection.DeleteOne(ctx, bson.M{"key": key})
	return err
}

func computeRequestHash(r *http.Request, bodyBytes []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + userID + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// captureResponseWriter records status and body so a completed placement
// can be replayed on a retried key.
type captureResponseWriter struct {
	w           http.ResponseWriter
	statusCode  int
	buf         bytes.Buffer
	wroteHeader bool
}

func newCaptureResponseWriter(w http.ResponseWriter) *captureResponseWriter {
	return &captureResponseWriter{w: w, statusCode: http.StatusOK}
}

func (c *captureResponseWriter) Header() http.Header { return c.w.Header() }

func (c *captureResponseWriter) WriteHeader(statusCode int) {
	if !c.wroteHeader {
		c.statusCode = statusCode
		c.w.WriteHeader(statusCode)
		c.wroteHeader = true
	}
}

func (c *captureResponseWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.w.Write(b)
}

// Idempotent replays the stored response when a request repeats an
// Idempotency-Key it has already completed, so client retries of
// POST /api/orders/place cannot create duplicate orders. Requests
// without the header pass straight through.
func Idempotent(store IdempotencyStore) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next(w, r, ps)
				return
			}

			userID := utils.GetUserIDFromRequest(r)
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			hash := computeRequestHash(r, bodyBytes, userID)

			ctx := r.Context()
			existing, err := store.Find(ctx, key)
			if err != nil {
				log.Println("idempotency lookup error:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if existing != nil {
				if existing.RequestHash != hash {
					utils.RespondWithError(w, http.StatusBadRequest, "Idempotency key reused with a different request")
					return
				}
				if existing.Completed {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(existing.Status)
					w.Write(existing.Body)
					return
				}
				// A matching request is still in flight.
				utils.RespondWithError(w, http.StatusConflict, "Request with this idempotency key is already in progress")
				return
			}

			now := time.Now()
			err = store.Claim(ctx, &IdempotencyRecord{
				Key:         key,
				RequestHash: hash,
				CreatedAt:   now,
				ExpiresAt:   now.Add(idempotencyTTL),
			})
			if errors.Is(err, ErrKeyClaimed) {
				// Lost the race: another request claimed the key first.
				utils.RespondWithError(w, http.StatusConflict, "Request with this idempotency key is already in progress")
				return
			}
			if err != nil {
				log.Println("idempotency claim error:", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			capture := newCaptureResponseWriter(w)
			next(capture, r, ps)

			if capture.statusCode < http.StatusInternalServerError {
				if err := store.Complete(ctx, key, capture.statusCode, capture.buf.Bytes()); err != nil {
					log.Println("idempotency store error:", err)
				}
			} else {
				// Server faults may be retried with the same key.
				if err := store.Release(ctx, key); err != nil {
					log.Println("idempotency cleanup error:", err)
				}
			}
		}
	}
}
