// Package export renders a report summary for the command line.
package export

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"

	"edudbt_backend/internals/features/admin/reports/repository"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

func Write(w io.Writer, format string, s *repository.Summary) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatTable, "":
		return WriteTable(w, s)
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatTable, FormatJSON)
}

func WriteJSON(w io.Writer, s *repository.Summary) error {
	out, err := sonic.ConfigStd.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func WriteTable(w io.Writer, s *repository.Summary) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	row := func(section, metric string, value any) {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", section, metric, value)
	}

	fmt.Fprintf(tw, "EduDBT report\t%s\t\n", s.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintln(tw, "SECTION\tMETRIC\tVALUE")

	row("users", "total", s.Users.Total)
	row("users", "active", s.Users.Active)
	row("users", "aadhaar linked", s.Users.AadhaarLinked)
	row("users", "dbt enabled", s.Users.DBTEnabled)
	row("users", "new (30 days)", s.Users.RegisteredLast)
	for _, k := range sortedKeys(s.Users.ByRole) {
		row("users", "role "+k, s.Users.ByRole[k])
	}

	row("content", "total", s.Content.Total)
	row("content", "published", s.Content.Published)
	row("content", "views", s.Content.Views)
	for _, k := range sortedKeys(s.Content.ByCategory) {
		row("content", "category "+k, s.Content.ByCategory[k])
	}

	row("quizzes", "quizzes", s.Quizzes.Quizzes)
	row("quizzes", "active", s.Quizzes.ActiveQuizzes)
	row("quizzes", "attempts", s.Quizzes.Attempts)
	row("quizzes", "passed", s.Quizzes.Passed)
	row("quizzes", "pass rate %", fmt.Sprintf("%.2f", s.Quizzes.PassRate()))
	row("quizzes", "average %", fmt.Sprintf("%.2f", s.Quizzes.AveragePercentage))

	for _, k := range sortedKeys(s.Applications) {
		row("applications", k, s.Applications[k])
	}
	row("chat", "live sessions", s.ChatSessions)
	return tw.Flush()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
