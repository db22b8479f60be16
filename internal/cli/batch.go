package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veracityhq/claimcheck/internal/worker"
)

var (
	batchConcurrency int
	batchDebug       bool
	batchTimeout     time.Duration
	batchOut         string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many input texts from a file",
	Long: `Batch reads input texts from a file (one per line, # comments skipped) and
verifies them concurrently, writing one JSON report per line.

Example:
  claimcheck batch texts.txt --concurrency 4 --out reports.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "number of texts verified in parallel")
	batchCmd.Flags().BoolVar(&batchDebug, "debug", false, "include diagnostic traces")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output JSONL path (default stdout)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, _, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p, batchConcurrency)
	results, err := processor.ProcessFile(ctx, args[0], batchDebug)
	if err != nil {
		return err
	}

	out := os.Stdout
	if batchOut != "" {
		f, err := os.Create(batchOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	encoder := json.NewEncoder(out)
	for _, result := range results {
		if err := encoder.Encode(result.Report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Verified %d texts\n", len(results))
	}
	return nil
}
