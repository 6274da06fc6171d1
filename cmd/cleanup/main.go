// cleanup purges expired chat sessions, blacklisted tokens and spent
// password resets. With --dry-run it only reports what would be removed.
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
	chatRepo "edudbt_backend/internals/features/assistant/chatbot/repository"
	authRepo "edudbt_backend/internals/features/users/auth/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var dryRun bool

	flagSet := pflag.NewFlagSet("cleanup", pflag.ContinueOnError)
	flagSet.BoolVarP(&dryRun, "dry-run", "n", false, "count expired rows without deleting them")
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	now := time.Now().UTC()

	chats := chatRepo.NewChatRepository(db)
	var sessions int64
	if dryRun {
		sessions, err = chats.CountExpired(ctx, now)
	} else {
		sessions, err = chats.PurgeExpired(ctx, now)
	}
	if err != nil {
		return fmt.Errorf("chat sessions: %w", err)
	}

	blacklisted, resets, err := authRepo.NewTokenRepository(db).CleanupExpired(ctx, now, dryRun)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}

	verb := "deleted"
	if dryRun {
		verb = "would be deleted"
	}
	log.Printf("[CLEANUP] %d chat sessions, %d blacklisted tokens, %d password resets %s", sessions, blacklisted, resets, verb)
	return nil
}
