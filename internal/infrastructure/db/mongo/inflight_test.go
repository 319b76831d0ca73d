package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

func TestRequestLock_Acquire(t *testing.T) {
	mt := newMock(t)

	mt.Run("takes a free or expired lock", func(mt *mtest.T) {
		lock := NewRequestLock(mt.DB, time.Minute)
		now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
		lock.now = func() time.Time { return now }
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		release, err := lock.Acquire(context.Background(), "sid:login")
		if err != nil {
			mt.Fatalf("Acquire returned error: %v", err)
		}

		stmt := firstUpdate(mt)
		if id, _ := stmt.Lookup("q", "_id").StringValueOK(); id != "sid:login" {
			mt.Fatalf("expected lock keyed by request, got %q", id)
		}
		if at, ok := stmt.Lookup("q", "expires_at", "$lte").TimeOK(); !ok || !at.Equal(now) {
			mt.Fatalf("expected takeover filter on expiry, got %s", stmt)
		}
		if at, ok := stmt.Lookup("u", "$set", "expires_at").TimeOK(); !ok || !at.Equal(now.Add(time.Minute)) {
			mt.Fatalf("expected expiry one minute ahead, got %v", at)
		}
		token, _ := stmt.Lookup("u", "$set", "token").StringValueOK()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		release()
		release()

		ev := mt.GetStartedEvent()
		if ev == nil || ev.CommandName != "delete" {
			mt.Fatalf("expected a delete on release, got %+v", ev)
		}
		dels, err := ev.Command.Lookup("deletes").Array().Values()
		if err != nil || len(dels) != 1 {
			mt.Fatalf("expected one delete statement: %v", err)
		}
		if got, _ := dels[0].Document().Lookup("q", "token").StringValueOK(); token == "" || got != token {
			mt.Fatalf("release must only delete its own lock, got %q want %q", got, token)
		}
		if ev := mt.GetStartedEvent(); ev != nil {
			mt.Fatalf("second release must be a no-op, got %s", ev.CommandName)
		}
	})

	mt.Run("held lock is in flight", func(mt *mtest.T) {
		lock := NewRequestLock(mt.DB, time.Minute)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		if _, err := lock.Acquire(context.Background(), "sid:login"); !errors.Is(err, domain.ErrRequestInFlight) {
			mt.Fatalf("expected ErrRequestInFlight, got %v", err)
		}
	})

	mt.Run("server errors are returned", func(mt *mtest.T) {
		lock := NewRequestLock(mt.DB, time.Minute)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized"}))

		_, err := lock.Acquire(context.Background(), "sid:login")
		if err == nil || errors.Is(err, domain.ErrRequestInFlight) {
			mt.Fatalf("expected a store error, got %v", err)
		}
	})
}
