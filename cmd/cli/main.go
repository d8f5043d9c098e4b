package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lawatlas/adapters/db"
	"lawatlas/adapters/excel"
	"lawatlas/app"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/scoring"
	"lawatlas/internal/config"
	"lawatlas/internal/report"
	"lawatlas/ports"
	"lawatlas/ui"
)

func main() {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "lawatlas",
		Short: "Ingest state disaster-law spreadsheets into a canonical scored dataset",
	}

	rootCmd.AddCommand(
		newIngestCmd(),
		newInspectCmd(),
		newServeCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRubric(path string) (scoring.Rubric, error) {
	if path == "" {
		return scoring.DefaultRubric(), nil
	}
	return scoring.LoadRubric(path)
}

func openRepository(dsn string) (ports.DatasetRepository, error) {
	if dsn == "" {
		return nil, nil
	}
	return db.Open(dsn)
}

func newIngestCmd() *cobra.Command {
	var dir string
	var rubricFile string
	var dsn string
	var parallelism int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the full ingestion pipeline over a workbook directory",
		Long: `Read every .xlsx/.csv workbook in the directory, detect each one's schema,
normalize rows to canonical state codes, score protections against the rubric,
and emit the canonical dataset plus a diagnostics report.

Example: lawatlas ingest --dir ./data --rubric rubric.yaml --dsn runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rubric, err := loadRubric(rubricFile)
			if err != nil {
				return err
			}

			repo, err := openRepository(dsn)
			if err != nil {
				return err
			}
			if repo != nil {
				defer repo.Close()
			}

			pipeline := app.NewPipeline(excel.NewDirectorySource(dir), repo, rubric, parallelism)
			dataset, diag, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"dataset":     dataset,
					"diagnostics": diag,
				})
			}
			fmt.Print(report.Render(dataset, diag))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./data", "Directory of source workbooks")
	cmd.Flags().StringVar(&rubricFile, "rubric", "", "Rubric YAML file (default: built-in rubric)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Run store DSN: postgres:// URL or SQLite file path (empty: no persistence)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "Concurrent workbook ingestions")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit dataset and diagnostics as JSON instead of the Markdown report")

	return cmd
}

// newInspectCmd dumps raw headers and a row sample without normalizing, for
// debugging workbooks the sniffer rejects.
func newInspectCmd() *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Dump headers and sample rows of each workbook in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "./data"
			if len(args) == 1 {
				dir = args[0]
			}

			source := excel.NewDirectorySource(dir)
			names, err := source.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			for _, name := range names {
				wb, err := source.Read(cmd.Context(), name)
				if err != nil {
					fmt.Fprintf(w, "%s\tERROR\t%v\n", name, err)
					continue
				}
				fmt.Fprintf(w, "%s\tsheet=%s\trows=%d\n", wb.ID, wb.Sheet, len(wb.Rows))
				for i, h := range wb.Headers {
					fmt.Fprintf(w, "\tcol %d\t%q\n", i, h)
				}
				if mapping, err := ingestion.SniffSchema(wb); err != nil {
					fmt.Fprintf(w, "\tsniff\tFAILED: %v\n", err)
				} else {
					for _, f := range mapping.MappedFields() {
						m, _ := mapping.Match(f)
						fmt.Fprintf(w, "\tsniff\t%s <- %q (%.2f)\n", f, m.RawLabel, m.Confidence)
					}
				}
				for i, row := range wb.Rows {
					if i >= sample {
						break
					}
					fmt.Fprintf(w, "\trow %d\t%v\n", i, row)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sample, "sample", 3, "Rows to print per workbook")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run ingestion then serve the dataset over HTTP",
		Long: `Run the pipeline once, then start the JSON API and the ops server.
Configuration comes from the environment (WORKBOOK_DIR, RUBRIC_FILE,
DATABASE_DSN, PORT, OPS_PORT).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			rubric, err := loadRubric(cfg.Data.RubricFile)
			if err != nil {
				return err
			}

			repo, err := openRepository(cfg.Database.DSN)
			if err != nil {
				return err
			}
			if repo != nil {
				defer repo.Close()
			}

			pipeline := app.NewPipeline(excel.NewDirectorySource(cfg.Data.WorkbookDir), repo, rubric, cfg.Data.Parallelism)
			dataset, diag, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}

			ops := ui.NewOpsServer(dataset, diag)
			go func() {
				if err := ops.Run(":" + cfg.Server.OpsPort); err != nil {
					fmt.Fprintln(os.Stderr, "ops server:", err)
				}
			}()

			return ui.NewServer(dataset, diag).Run(":" + cfg.Server.Port)
		},
	}

	return cmd
}

// newRunsCmd lists persisted runs in a store.
func newRunsCmd() *cobra.Command {
	var dsn string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted ingestion runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--dsn is required")
			}
			repo, err := db.Open(dsn)
			if err != nil {
				return err
			}
			defer repo.Close()

			ids, err := repo.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Run store DSN")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")

	return cmd
}
