// Command crmctl runs prospect CRM maintenance tasks against the database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/octobees/prospect-crm/internal/config"
	"github.com/octobees/prospect-crm/internal/database"
	"github.com/octobees/prospect-crm/internal/logger"
	"github.com/octobees/prospect-crm/internal/metrics"
	"github.com/octobees/prospect-crm/internal/repository"
	"github.com/octobees/prospect-crm/internal/service"
	"github.com/octobees/prospect-crm/internal/service/pipeline"
)

// backend opens the dependencies a command needs. close releases them.
type backend interface {
	Companies(ctx context.Context) (svc *service.CompaniesService, close func(), err error)
	Migrate(ctx context.Context) ([]int64, error)
}

func main() {
	if err := rootCmd(&postgresBackend{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(b backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Prospect CRM maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(migrateCmd(b), importCmd(b), summaryCmd(b), topCmd(b))
	return cmd
}

func migrateCmd(b backend) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := b.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}
			for _, version := range applied {
				fmt.Fprintf(out, "applied migration %05d\n", version)
			}
			return nil
		},
	}
}

func importCmd(b backend) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import companies from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			svc, closeFn, err := b.Companies(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := svc.ImportCompaniesCSV(cmd.Context(), file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "job %s: %d rows, %d created, %d failed\n", report.JobID, report.Total, report.Created, report.Failed)
			for _, rowErr := range report.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", rowErr.Row, rowErr.Message)
			}
			return nil
		},
	}
}

func summaryCmd(b backend) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the pipeline summary by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := b.Companies(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := svc.PipelineSummary(cmd.Context())
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), rows)
		},
	}
}

func topCmd(b backend) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the highest-priority targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := b.Companies(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			companies, err := svc.TopTargets(cmd.Context(), n)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tSTATUS\tPRIORITY\tRELEVANCE\tWIFI")
			for i, company := range companies {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%t\n", i+1, company.Name, company.Status, company.PriorityScore, company.RelevanceScore, company.WifiRequired)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&n, "n", pipeline.DefaultTopTargets, "Number of targets to list")
	return cmd
}

func writeSummary(out io.Writer, rows []pipeline.StatusSummary) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT\tAVG RELEVANCE\tAVG PRIORITY\tWIFI\tHIGH PRIORITY")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%d\t%d\n", row.Status, row.Count, row.AvgRelevance, row.AvgPriority, row.WifiCount, row.HighPriorityCount)
	}
	return w.Flush()
}

// postgresBackend connects using the environment configuration.
type postgresBackend struct{}

func (postgresBackend) Companies(ctx context.Context) (*service.CompaniesService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.WithMaxConns(2))
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})
	svc := service.NewCompaniesService(repository.NewPGXCompaniesRepository(pool),
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithPhoneRegion(cfg.DefaultPhoneRegion),
	)
	return svc, pool.Close, nil
}

func (postgresBackend) Migrate(ctx context.Context) ([]int64, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.WithMaxConns(2))
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return database.Migrate(ctx, pool)
}
