package cli

import (
	"github.com/spf13/cobra"

	"github.com/larose/qryeval/internal/config"
	"github.com/larose/qryeval/search"
	"github.com/larose/qryeval/search/analysis"
	"github.com/larose/qryeval/search/index"
	"github.com/larose/qryeval/search/parser"
	"github.com/larose/qryeval/search/run"
)

var (
	queryDir             string
	queryModel           string
	queryDefaultOperator string
	queryLimit           int
)

var queryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Evaluate a single query",
	Long: `Evaluates one structured query with the default parameters of the
selected model and prints the results as TREC rows with query id 0.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryDir, "dir", "d", "index", "index directory")
	queryCmd.Flags().StringVarP(&queryModel, "model", "m", "bm25", "retrieval model (unrankedboolean, rankedboolean, bm25, indri)")
	queryCmd.Flags().StringVar(&queryDefaultOperator, "default-operator", parser.DefaultOperator, "operator wrapping queries of the boolean models")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 10, "maximum number of results")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	retrieval := config.Default().Retrieval
	retrieval.Model = queryModel

	model, err := retrieval.RetrievalModel()
	if err != nil {
		return err
	}

	p, err := parser.New(analysis.NewAnalyzer(), queryDefaultOperator)
	if err != nil {
		return err
	}

	indexReader, err := index.NewIndexReader(queryDir)
	if err != nil {
		return err
	}
	defer indexReader.Close()

	searcher := &search.Searcher{Index: indexReader, Model: model, Parser: p}

	results, empty, err := searcher.ProcessQuery(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	writer := run.NewTrecWriter(cmd.OutOrStdout(), "qryeval", queryLimit)
	if empty {
		if err := writer.Write("0", nil, true); err != nil {
			return err
		}
	} else if err := writer.Write("0", results.Top(writer.OutputLength()), false); err != nil {
		return err
	}

	return writer.Flush()
}
