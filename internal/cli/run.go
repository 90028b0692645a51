package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/larose/qryeval/internal/config"
	"github.com/larose/qryeval/internal/logger"
	"github.com/larose/qryeval/search"
	"github.com/larose/qryeval/search/analysis"
	"github.com/larose/qryeval/search/index"
	"github.com/larose/qryeval/search/parser"
	"github.com/larose/qryeval/search/run"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a query file and write TREC results",
	Long: `Evaluates every "qid:query" line of the configured query file and
writes the ranked results as "qid Q0 docid rank score runid" rows.
Queries that do not parse, or that use an operator the model does not
define, are logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to the YAML config file")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-format") {
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	}
	log := logger.WithComponent("cli")

	model, err := cfg.Retrieval.RetrievalModel()
	if err != nil {
		return err
	}

	p, err := parser.New(analysis.NewAnalyzer(), cfg.Retrieval.DefaultOperator)
	if err != nil {
		return err
	}

	queryFile, err := os.Open(cfg.Run.QueryFile)
	if err != nil {
		return fmt.Errorf("opening query file: %w", err)
	}
	queries, err := run.ReadQueries(queryFile)
	_ = queryFile.Close()
	if err != nil {
		return fmt.Errorf("reading query file %s: %w", cfg.Run.QueryFile, err)
	}

	indexReader, err := index.NewIndexReader(cfg.Index.Path)
	if err != nil {
		return err
	}
	defer indexReader.Close()

	output, err := os.Create(cfg.Run.OutputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer output.Close()

	metrics := run.NewMetrics()
	searcher := &search.Searcher{Index: indexReader, Model: model, Parser: p}
	runner := run.NewRunner(searcher, run.NewTrecWriter(output, cfg.Run.RunId, cfg.Run.OutputLength), metrics, run.Options{
		Workers:      cfg.Run.Workers,
		QueryTimeout: cfg.Run.QueryTimeout,
	})

	log.Info("starting run",
		"model", model.Name(),
		"queries", len(queries),
		"workers", cfg.Run.Workers,
		"index", cfg.Index.Path,
	)

	summary, err := runner.Run(cmd.Context(), queries)
	if err != nil {
		return err
	}

	if err := output.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteToTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	log.Info("run complete",
		"ranked", summary.Ranked,
		"empty", summary.Empty,
		"skipped", summary.Skipped,
		"output", cfg.Run.OutputFile,
	)

	return nil
}
