package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/storage"
	"github.com/xavierca1/ligue-leads/internal/seed"
)

func main() {
	count := flag.Int("count", 500, "number of leads to generate")
	reset := flag.Bool("reset", false, "delete existing leads before seeding")
	seedValue := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open lead store")
	}
	defer closeStore()

	res, err := seed.NewSeeder(store, seed.NewGenerator(*seedValue), log).Run(ctx, *count, *reset)
	if err != nil {
		log.WithError(err).Error("seeding failed")
		closeStore()
		os.Exit(1)
	}

	entry := log.WithFields(logrus.Fields{"store": cfg.StoreDriver, "action": res.Action})
	if res.Action == "skip" {
		entry.WithField("existing", res.Existing).Info("store already has leads; rerun with -reset to replace them")
		return
	}
	entry.WithField("count", res.Created).Info("leads seeded")
}
