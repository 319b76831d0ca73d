package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const sessionsNS = "school_portal.portal_sessions"

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// firstUpdate pops the next recorded command, which must be an update, and
// returns its first statement.
func firstUpdate(mt *mtest.T) bson.Raw {
	mt.Helper()
	ev := mt.GetStartedEvent()
	if ev == nil || ev.CommandName != "update" {
		mt.Fatalf("expected an update command, got %+v", ev)
	}
	stmts, err := ev.Command.Lookup("updates").Array().Values()
	if err != nil || len(stmts) == 0 {
		mt.Fatalf("update without statements: %v", err)
	}
	return stmts[0].Document()
}

func TestSessionStore_Get(t *testing.T) {
	mt := newMock(t)

	mt.Run("reads one value of the session document", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, time.Hour).Scope("sid")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, sessionsNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "sid"},
			{Key: "values", Value: bson.D{{Key: "token", Value: "tok1"}}},
		}))

		v, ok, err := s.Get(context.Background(), "token")
		if err != nil || !ok || v != "tok1" {
			mt.Fatalf("Get = %q %v %v", v, ok, err)
		}
	})

	mt.Run("missing document is not found", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, time.Hour).Scope("sid")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, sessionsNS, mtest.FirstBatch))

		if _, ok, err := s.Get(context.Background(), "token"); err != nil || ok {
			mt.Fatalf("expected not found, got ok=%v err=%v", ok, err)
		}
	})

	mt.Run("server errors are returned", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, time.Hour).Scope("sid")
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized"}))

		if _, _, err := s.Get(context.Background(), "token"); err == nil {
			mt.Fatalf("expected error")
		}
	})
}

func TestSessionStore_SetUpsertsOneField(t *testing.T) {
	mt := newMock(t)

	mt.Run("set", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, time.Hour).Scope("sid")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := s.Set(context.Background(), "token", "tok1"); err != nil {
			mt.Fatalf("Set returned error: %v", err)
		}

		stmt := firstUpdate(mt)
		if id, _ := stmt.Lookup("q", "_id").StringValueOK(); id != "sid" {
			mt.Fatalf("expected filter on _id sid, got %q", id)
		}
		if v, _ := stmt.Lookup("u", "$set", "values.token").StringValueOK(); v != "tok1" {
			mt.Fatalf("expected $set of values.token, got %s", stmt)
		}
		if _, err := stmt.LookupErr("u", "$set", "updated_at"); err != nil {
			mt.Fatalf("expected updated_at to be refreshed: %v", err)
		}
		if upsert, _ := stmt.Lookup("upsert").BooleanOK(); !upsert {
			mt.Fatalf("expected an upsert")
		}
	})
}

func TestSessionStore_DeleteUnsetsFields(t *testing.T) {
	mt := newMock(t)

	mt.Run("delete", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, time.Hour).Scope("sid")
		if err := s.Delete(context.Background()); err != nil {
			mt.Fatalf("Delete without keys returned error: %v", err)
		}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := s.Delete(context.Background(), "token", "refresh"); err != nil {
			mt.Fatalf("Delete returned error: %v", err)
		}

		stmt := firstUpdate(mt)
		for _, field := range []string{"values.token", "values.refresh"} {
			if _, err := stmt.LookupErr("u", "$unset", field); err != nil {
				mt.Fatalf("expected $unset of %s: %v", field, err)
			}
		}
	})
}

func TestSessionStore_EnsureIndexes(t *testing.T) {
	mt := newMock(t)

	mt.Run("session and lock expiry", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, time.Hour)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		if err := s.EnsureIndexes(context.Background()); err != nil {
			mt.Fatalf("EnsureIndexes returned error: %v", err)
		}

		want := []struct {
			coll    string
			seconds int32
		}{{collectionSessions, 3600}, {collectionInFlight, 0}}
		for _, w := range want {
			ev := mt.GetStartedEvent()
			if ev == nil || ev.CommandName != "createIndexes" {
				mt.Fatalf("expected createIndexes, got %+v", ev)
			}
			if coll, _ := ev.Command.Lookup("createIndexes").StringValueOK(); coll != w.coll {
				mt.Fatalf("expected index on %s, got %s", w.coll, coll)
			}
			idx, err := ev.Command.Lookup("indexes").Array().Values()
			if err != nil || len(idx) != 1 {
				mt.Fatalf("expected one index: %v", err)
			}
			if secs, _ := idx[0].Document().Lookup("expireAfterSeconds").Int32OK(); secs != w.seconds {
				mt.Fatalf("%s: expected expireAfterSeconds %d, got %d", w.coll, w.seconds, secs)
			}
		}
	})

	mt.Run("no session expiry without ttl", func(mt *mtest.T) {
		s := NewSessionStore(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := s.EnsureIndexes(context.Background()); err != nil {
			mt.Fatalf("EnsureIndexes returned error: %v", err)
		}
		ev := mt.GetStartedEvent()
		if coll, _ := ev.Command.Lookup("createIndexes").StringValueOK(); coll != collectionInFlight {
			mt.Fatalf("expected only the lock index, got %s", coll)
		}
	})
}

func TestOpen_RequiresURIAndDatabase(t *testing.T) {
	if _, err := Open(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatalf("expected error without database")
	}
}
