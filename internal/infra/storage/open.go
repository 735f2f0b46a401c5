// Package storage selects and opens the configured lead store.
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/memory"
	"github.com/xavierca1/ligue-leads/internal/infra/mongodb"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// LeadStore is a repository that can also be health-checked and emptied.
type LeadStore interface {
	usecase.LeadRepository
	Ping(ctx context.Context) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Open connects to the store named by cfg.StoreDriver. The returned func
// releases its connections.
func Open(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (LeadStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("postgres store ready")
		return database.NewLeadRepository(db, cfg.StoreTimeout), func() { db.Close() }, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		repo := mongodb.NewLeadRepository(client.Database(cfg.MongoDatabase), cfg.StoreTimeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Warn("mongo indexes not created")
		}
		log.WithField("database", cfg.MongoDatabase).Info("mongo store ready")
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return memory.NewLeadRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
