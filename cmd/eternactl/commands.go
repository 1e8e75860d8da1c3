package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/HamidMoopen/memo-ai-sub000/internal/config"
	"github.com/HamidMoopen/memo-ai-sub000/internal/factory"
	"github.com/HamidMoopen/memo-ai-sub000/internal/logger"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, os.Stdout)
		},
	}
	rootCmd.AddCommand(migrateCmd)

	var userID, title, out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render a user's stories as a PDF book",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cfg, userID, title, out, os.Stdout)
		},
	}
	exportCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	exportCmd.Flags().StringVarP(&title, "title", "t", "", "Book title")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to the title slug)")
	_ = exportCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(exportCmd)

	chaptersCmd := &cobra.Command{
		Use:   "chapters",
		Short: "Print the life-chapter catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChapters(os.Stdout)
		},
	}
	rootCmd.AddCommand(chaptersCmd)
}

func cliLogger() zerolog.Logger {
	return logger.NewWithWriter(os.Stderr, "eternactl").Level(zerolog.WarnLevel)
}

func runMigrate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	db, err := factory.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := factory.Migrate(ctx, cfg, db); err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.DBDriver, err)
	}
	_, _ = fmt.Fprintf(out, "schema applied (%s)\n", cfg.DBDriver)
	return nil
}

func runExport(ctx context.Context, cfg *config.Config, userID, title, path string, out io.Writer) error {
	if userID == "" {
		return fmt.Errorf("--user required")
	}
	st, db, err := factory.NewStore(ctx, cfg, cliLogger())
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := services.NewBookService(st).ExportBook(ctx, userID, title)
	if err != nil {
		return err
	}
	if path == "" {
		path = b.FileName
	}
	if err := os.WriteFile(path, b.PDF, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(out, "wrote %s (%d pages)\n", path, b.Pages)
	return nil
}

func runChapters(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ORDER\tCHAPTER\tTITLE")
	for _, c := range model.LifeChapters() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", c.Order, c.Chapter, c.Title)
	}
	return tw.Flush()
}
