package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const collectionInFlight = "portal_inflight"

// RequestLock admits one outstanding request per key across every portal
// sharing the database. A lock is a document keyed by the request key; it
// is taken over once expires_at has passed.
type RequestLock struct {
	col *mongo.Collection
	ttl time.Duration
	now func() time.Time
}

func NewRequestLock(db *mongo.Database, ttl time.Duration) *RequestLock {
	return &RequestLock{col: db.Collection(collectionInFlight), ttl: ttl, now: time.Now}
}

// RequestLock shares the session store's client.
func (s *SessionStore) RequestLock(ttl time.Duration) *RequestLock {
	return NewRequestLock(s.col.Database(), ttl)
}

func (l *RequestLock) Acquire(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := l.now().UTC()
	token := uuid.NewString()
	// The filter never matches a live lock, so the upsert collides with it
	// on _id instead.
	_, err := l.col.UpdateOne(ctx,
		bson.M{"_id": key, "expires_at": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"token": token, "expires_at": now.Add(l.ttl)}},
		options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return nil, domain.ErrRequestInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("inflight acquire: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()
			_, _ = l.col.DeleteOne(ctx, bson.M{"_id": key, "token": token})
		})
	}, nil
}
