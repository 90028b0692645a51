package cli

import (
	"github.com/spf13/cobra"

	"github.com/larose/qryeval/internal/logger"
	"github.com/larose/qryeval/search/analysis"
	"github.com/larose/qryeval/search/corpus"
	"github.com/larose/qryeval/search/index"
)

var (
	indexDir       string
	indexInput     string
	indexBatchSize int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Add a JSON lines corpus to an index",
	Long: `Reads one JSON document per line with the fields id, title, body, url,
inlink and keywords, and adds them to the index in --dir. Each batch of
documents becomes a new segment.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexDir, "dir", "d", "index", "index directory")
	indexCmd.Flags().StringVarP(&indexInput, "input", "i", "", "JSON lines corpus")
	indexCmd.Flags().IntVar(&indexBatchSize, "batch-size", corpus.DefaultBatchSize, "documents per segment")
	_ = indexCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("index")

	iterator, err := corpus.NewArticleIterator(indexInput, log)
	if err != nil {
		return err
	}
	defer iterator.Close()

	indexWriter, err := index.NewIndexWriter(indexDir, analysis.NewAnalyzer())
	if err != nil {
		return err
	}

	total, err := corpus.Load(cmd.Context(), iterator, indexWriter, indexBatchSize, log)
	if err != nil {
		return err
	}

	log.Info("indexing complete", "documents", total, "invalid", iterator.Invalid, "dir", indexDir)
	cmd.Printf("Indexed %d documents into %s\n", total, indexDir)

	return nil
}
