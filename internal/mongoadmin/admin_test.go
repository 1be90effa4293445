package mongoadmin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeServer simulates a deployment for the drop/list logic.
type fakeServer struct {
	dbs map[string][]string // database -> collections

	dropDatabaseErr map[string]error

	droppedDatabases   []string
	droppedCollections []string
}

func (f *fakeServer) databaseNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.dbs))
	for name := range f.dbs {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeServer) dropDatabase(_ context.Context, name string) error {
	if err := f.dropDatabaseErr[name]; err != nil {
		return err
	}
	f.droppedDatabases = append(f.droppedDatabases, name)
	return nil
}

func (f *fakeServer) collectionNames(_ context.Context, db string) ([]string, error) {
	return f.dbs[db], nil
}

func (f *fakeServer) dropCollection(_ context.Context, db, coll string) error {
	f.droppedCollections = append(f.droppedCollections, db+"."+coll)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListDatabasesExcludesSystem(t *testing.T) {
	f := &fakeServer{dbs: map[string][]string{
		"zoo": nil, "admin": nil, "app": nil, "config": nil, "local": nil,
	}}

	got, err := listDatabases(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"app", "zoo"}
	if len(got) != len(want) {
		t.Fatalf("listDatabases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("listDatabases = %v, want %v", got, want)
		}
	}
}

func TestDropAllDropsEveryUserDatabase(t *testing.T) {
	f := &fakeServer{dbs: map[string][]string{
		"app": nil, "zoo": nil, "admin": nil,
	}}

	if err := dropAll(context.Background(), f, discard()); err != nil {
		t.Fatal(err)
	}
	if len(f.droppedDatabases) != 2 {
		t.Errorf("dropped %v, want app and zoo", f.droppedDatabases)
	}
	for _, db := range f.droppedDatabases {
		if db == "admin" {
			t.Error("dropped reserved database admin")
		}
	}
}

func TestDropAllFallsBackToCollections(t *testing.T) {
	authErr := mongo.CommandError{
		Code:    8000,
		Name:    "AtlasError",
		Message: "user is not allowed to do action [dropDatabase] on [app.]",
	}
	f := &fakeServer{
		dbs: map[string][]string{
			"app": {"users", "system.views", "orders"},
		},
		dropDatabaseErr: map[string]error{"app": authErr},
	}

	if err := dropAll(context.Background(), f, discard()); err != nil {
		t.Fatalf("dropAll = %v, want success via fallback", err)
	}

	want := map[string]bool{"app.users": true, "app.orders": true}
	if len(f.droppedCollections) != 2 {
		t.Fatalf("dropped collections %v, want app.users and app.orders", f.droppedCollections)
	}
	for _, c := range f.droppedCollections {
		if !want[c] {
			t.Errorf("dropped unexpected collection %s", c)
		}
	}
}

func TestDropAllAbortsOnOtherErrors(t *testing.T) {
	f := &fakeServer{
		dbs:             map[string][]string{"app": {"users"}},
		dropDatabaseErr: map[string]error{"app": errors.New("network reset")},
	}

	if err := dropAll(context.Background(), f, discard()); err == nil {
		t.Fatal("dropAll succeeded despite non-authorization failure")
	}
	if len(f.droppedCollections) != 0 {
		t.Errorf("fallback ran for a non-authorization failure: %v", f.droppedCollections)
	}
}

func TestIsDropUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "atlas code 8000",
			err:  mongo.CommandError{Code: 8000, Name: "AtlasError", Message: "no drop for you"},
			want: true,
		},
		{
			name: "message match without code",
			err:  errors.New("user is not allowed to do action [dropDatabase] on [app.]"),
			want: true,
		},
		{
			name: "unrelated command error",
			err:  mongo.CommandError{Code: 11600, Name: "InterruptedAtShutdown", Message: "shutting down"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDropUnauthorized(tt.err); got != tt.want {
				t.Errorf("isDropUnauthorized(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
