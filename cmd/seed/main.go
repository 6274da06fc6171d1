// seed loads the admin account, learning content and quizzes into the
// database. Rows that already exist are skipped, so it is safe to rerun.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"edudbt_backend/internals/configs"
	database "edudbt_backend/internals/databases"
	"edudbt_backend/internals/seeds"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var dataDir string
	var migrate bool

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&dataDir, "data", "internals/seeds", "directory holding the seed JSON files")
	flagSet.BoolVar(&migrate, "migrate", true, "run auto migration before seeding")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg := configs.LoadEnv()
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := seeds.RunAllSeeds(ctx, db, cfg, dataDir); err != nil {
		return err
	}
	log.Println("[SEED] Done.")
	return nil
}
