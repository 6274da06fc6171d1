// report prints platform statistics: users, content, quizzes,
// scholarship applications and live chat sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"edudbt_backend/internals/configs"
	database "edudbt_backend/internals/databases"
	"edudbt_backend/internals/features/admin/reports/export"
	"edudbt_backend/internals/features/admin/reports/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var format, output string

	flagSet := pflag.NewFlagSet("report", pflag.ContinueOnError)
	flagSet.StringVarP(&format, "format", "f", export.FormatTable, "output format: table or json")
	flagSet.StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if format != export.FormatTable && format != export.FormatJSON {
		return fmt.Errorf("--format must be %s or %s", export.FormatTable, export.FormatJSON)
	}

	cfg := configs.LoadEnv()
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	summary, err := repository.NewReportRepository(db).Summary(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.Write(w, format, summary)
}
