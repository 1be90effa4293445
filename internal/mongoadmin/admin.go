// Package mongoadmin talks to a target MongoDB deployment through the
// official driver: listing user databases and wiping them. Connections are
// established per call from the user-supplied URI and closed before
// returning; the bot never holds a long-lived connection to a target.
package mongoadmin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/telebackup/mongobot/internal/mongouri"
)

// systemDatabases are never listed and never dropped.
var systemDatabases = map[string]bool{
	"admin":  true,
	"config": true,
	"local":  true,
}

// Admin performs administrative operations against arbitrary deployments.
type Admin struct {
	// Timeout bounds server selection; dial failures surface within it.
	Timeout time.Duration
	Log     *slog.Logger
}

func (a *Admin) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}

func (a *Admin) timeout() time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	return 5 * time.Second
}

func (a *Admin) connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(a.timeout())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("connecting: %w", err)
	}
	return client, nil
}

// ListDatabases returns the sorted names of user databases at uri,
// excluding the reserved system databases.
func (a *Admin) ListDatabases(ctx context.Context, uri string) ([]string, error) {
	client, err := a.connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(ctx)

	return listDatabases(ctx, realServer{client})
}

// DropAll drops every user database at uri. When the connected user is not
// authorized for dropDatabase on a database, its collections are dropped
// one by one instead (reserved system.* collections are skipped). Any other
// failure aborts immediately.
func (a *Admin) DropAll(ctx context.Context, uri string) error {
	client, err := a.connect(ctx, uri)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	a.logger().Warn("dropping all databases", "uri", mongouri.Mask(uri))
	return dropAll(ctx, realServer{client}, a.logger())
}

// server is the slice of driver surface the drop/list logic needs, so the
// fallback path can be exercised without a live deployment.
type server interface {
	databaseNames(ctx context.Context) ([]string, error)
	dropDatabase(ctx context.Context, name string) error
	collectionNames(ctx context.Context, db string) ([]string, error)
	dropCollection(ctx context.Context, db, coll string) error
}

type realServer struct {
	client *mongo.Client
}

func (s realServer) databaseNames(ctx context.Context) ([]string, error) {
	return s.client.ListDatabaseNames(ctx, bson.M{})
}

func (s realServer) dropDatabase(ctx context.Context, name string) error {
	return s.client.Database(name).Drop(ctx)
}

func (s realServer) collectionNames(ctx context.Context, db string) ([]string, error) {
	return s.client.Database(db).ListCollectionNames(ctx, bson.M{})
}

func (s realServer) dropCollection(ctx context.Context, db, coll string) error {
	return s.client.Database(db).Collection(coll).Drop(ctx)
}

func listDatabases(ctx context.Context, s server) ([]string, error) {
	names, err := s.databaseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}

	var out []string
	for _, name := range names {
		if !systemDatabases[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func dropAll(ctx context.Context, s server, log *slog.Logger) error {
	targets, err := listDatabases(ctx, s)
	if err != nil {
		return err
	}

	for _, db := range targets {
		err := s.dropDatabase(ctx, db)
		if err == nil {
			log.Info("dropped database", "db", db)
			continue
		}
		if !isDropUnauthorized(err) {
			return fmt.Errorf("dropping %s: %w", db, err)
		}

		// Shared-cluster users often may not drop databases but may drop
		// the collections inside them.
		log.Info("dropDatabase unauthorized, dropping collections instead", "db", db)
		colls, err := s.collectionNames(ctx, db)
		if err != nil {
			return fmt.Errorf("wiping %s: %w", db, err)
		}
		for _, coll := range colls {
			if strings.HasPrefix(coll, "system.") {
				continue
			}
			if err := s.dropCollection(ctx, db, coll); err != nil {
				return fmt.Errorf("wiping %s: %w", db, err)
			}
		}
	}

	return nil
}

// isDropUnauthorized recognizes the authorization failure Atlas shared
// tiers return for dropDatabase (code 8000, AtlasError).
func isDropUnauthorized(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 8000 {
		return true
	}
	return strings.Contains(err.Error(), "not allowed to do action [dropDatabase]")
}
