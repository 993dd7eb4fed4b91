package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/projects"

	"github.com/rs/zerolog"
)

func main() {
	reset := flag.Bool("reset", false, "delete all projects and images, then insert the defaults")
	hash := flag.Bool("hash-password", false, "print a bcrypt hash of ADMIN_PASSWORD for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Str("cmd", "seed").Logger()

	if *hash {
		hashed, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("hash password: ADMIN_PASSWORD must be set")
		}
		fmt.Println(hashed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Fatal().Err(err).Msg("index creation failed")
	}

	var tx db.TxRunner = db.NoTx{}
	if cfg.MongoTransactions {
		tx = db.MongoTx{Client: client}
	}

	seeder := projects.NewSeeder(
		projects.NewRepository(cols.Projects),
		projects.NewImageRepository(cols.ProjectImages),
		tx,
		cfg.Timezone,
	)

	if *reset {
		n, err := seeder.ResetAndSeed(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("reset failed")
		}
		logger.Info().Int("count", n).Msg("projects reset to defaults")
		return
	}

	seeded, err := seeder.EnsureSeeded(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
	if seeded {
		logger.Info().Int("count", len(projects.DefaultProjects())).Msg("default projects inserted")
	} else {
		logger.Info().Msg("projects already present, nothing to do")
	}
}
