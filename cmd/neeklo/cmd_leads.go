package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"neeklo-backend/internal/bootstrap"
	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/shared/config"
	"neeklo-backend/internal/shared/storage/db"
	"neeklo-backend/internal/shared/storage/object"
)

// openLeadsRepo is replaced in tests.
var openLeadsRepo = func(ctx context.Context, databaseURL string) (leads.Repo, func(), error) {
	sqlDB, err := db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return nil, nil, err
	}
	return &leads.PGRepo{DB: sqlDB}, func() { _ = sqlDB.Close() }, nil
}

// openLeadsArchive is replaced in tests.
var openLeadsArchive = func(ctx context.Context) (object.ObjectStore, error) {
	return bootstrap.BuildStore(ctx, config.Load())
}

func newLeadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Inspect stored leads",
	}
	cmd.AddCommand(newLeadsRecentCmd(), newLeadsShowCmd())
	return cmd
}

func newLeadsRecentCmd() *cobra.Command {
	var (
		databaseURL string
		limit       int
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent leads and their delivery status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			repo, closeRepo, err := openLeadsRepo(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer closeRepo()

			list, err := leads.NewService(repo, nil).Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("list leads: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), recentRows(list))
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tID\tSOURCE\tPRODUCT\tSTATUS\tERROR")
			for _, l := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.CreatedAt.UTC().Format(time.RFC3339), l.ID, l.Source, l.ProductSlug, l.Status, l.LastError)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres DSN")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of leads to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

type recentRow struct {
	ID          string       `json:"id"`
	Source      leads.Source `json:"source"`
	ProductSlug string       `json:"product,omitempty"`
	Status      leads.Status `json:"status"`
	LastError   string       `json:"lastError,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	DeliveredAt *time.Time   `json:"deliveredAt,omitempty"`
}

// recentRows drops contact fields; operators read those in Telegram.
func recentRows(list []leads.Lead) []recentRow {
	out := make([]recentRow, 0, len(list))
	for _, l := range list {
		out = append(out, recentRow{
			ID:          l.ID,
			Source:      l.Source,
			ProductSlug: l.ProductSlug,
			Status:      l.Status,
			LastError:   l.LastError,
			CreatedAt:   l.CreatedAt,
			DeliveredAt: l.DeliveredAt,
		})
	}
	return out
}

func newLeadsShowCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "show <lead-id>",
		Short: "Print the archived brief of a lead without contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			archive, err := openLeadsArchive(ctx)
			if err != nil {
				return fmt.Errorf("object store: %w", err)
			}
			if archive == nil {
				return errors.New("brief archive is disabled (OBJECT_STORE=none)")
			}
			repo, closeRepo, err := openLeadsRepo(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := &leads.Service{Repo: repo, Archive: archive}
			brief, err := svc.Brief(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), brief)
			return err
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres DSN")
	return cmd
}
