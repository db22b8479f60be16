package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	checkDebug   bool
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Verify one input text and print the report as JSON",
	Long: `Check runs the full verification pipeline on one input text and prints the
report to stdout. The text is taken from the argument, or from stdin when no
argument is given.

Example:
  claimcheck check "The Eiffel Tower was completed in 1889."
  echo "..." | claimcheck check --debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkDebug, "debug", false, "include the diagnostic trace in the report")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall verification timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no input text")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, _, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	report := p.Check(ctx, text, checkDebug)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
