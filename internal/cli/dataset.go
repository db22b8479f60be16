package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veracityhq/claimcheck/internal/dataset"
)

var (
	datasetIn  string
	datasetOut string
)

// datasetCmd groups the offline training-data utilities
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Offline reranker training-data utilities",
}

var datasetPrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Convert a labeled claim/passage corpus into reranker pairs",
	Long: `Prepare reads HoVer-style JSONL (claim, positive_passages,
negative_passages) and writes pairwise records {"text1","text2","label"} for
cross-encoder training. The trained model is what the rerank service loads;
the core pipeline only ever sees that service.

Example:
  claimcheck dataset prepare --in hover.jsonl --out pairs.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := dataset.ConvertFile(datasetIn, datasetOut)
		if err != nil {
			return err
		}
		fmt.Printf("Processed items=%d positives=%d negatives=%d skipped=%d -> %s\n",
			stats.Items, stats.Positives, stats.Negatives, stats.Skipped, datasetOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetPrepareCmd)

	datasetPrepareCmd.Flags().StringVar(&datasetIn, "in", "", "input JSONL path")
	datasetPrepareCmd.Flags().StringVar(&datasetOut, "out", "pairs.jsonl", "output JSONL path")
	_ = datasetPrepareCmd.MarkFlagRequired("in")
}
