package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecolenet/school-portal/internal/core/ports"
)

const collectionSessions = "portal_sessions"

// sessionDoc is one browser session. Values holds the token, refresh and
// user records.
type sessionDoc struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// SessionStore keeps portal sessions in MongoDB, one document per browser
// session id. It implements ports.StoreFactory.
type SessionStore struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewSessionStore(db *mongo.Database, ttl time.Duration) *SessionStore {
	return &SessionStore{col: db.Collection(collectionSessions), ttl: ttl}
}

// EnsureIndexes creates the TTL indexes that expire idle sessions and
// abandoned request locks.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if s.ttl > 0 {
		_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())),
		})
		if err != nil {
			return err
		}
	}
	_, err := s.col.Database().Collection(collectionInFlight).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

// Scope returns the store of one browser session.
func (s *SessionStore) Scope(sessionID string) ports.SessionStore {
	return &scopedStore{col: s.col, id: sessionID}
}

func (s *SessionStore) Name() string { return "mongo" }

func (s *SessionStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.col.Database().Client().Ping(ctx, nil)
}

type scopedStore struct {
	col *mongo.Collection
	id  string
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sessionDoc
	err := s.col.FindOne(ctx, bson.M{"_id": s.id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"values." + key: value,
		"updated_at":    time.Now().UTC(),
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": s.id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *scopedStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": s.id}, bson.M{"$unset": unset})
	if err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
