package cli

import (
	"github.com/spf13/cobra"

	"github.com/larose/qryeval/internal/logger"
	"github.com/larose/qryeval/search/analysis"
	"github.com/larose/qryeval/search/index"
)

var deleteDir string

var deleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete documents by external id",
	Long: `Marks the documents with the given external ids as deleted. Deleted
documents are skipped by every query but still count in collection
statistics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteDir, "dir", "d", "index", "index directory")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	indexWriter, err := index.NewIndexWriter(deleteDir, analysis.NewAnalyzer())
	if err != nil {
		return err
	}

	deleted, err := indexWriter.DeleteDocuments(args)
	if err != nil {
		return err
	}

	logger.WithComponent("index").Info("documents deleted", "requested", len(args), "deleted", deleted, "dir", deleteDir)
	cmd.Printf("Deleted %d documents\n", deleted)

	return nil
}
