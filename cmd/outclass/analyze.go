package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/oddsapi"
)

var (
	inputFile string
	stake     float64
	marketKey string
)

var errNoInput = errors.New("--file is required (use - for stdin)")

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze events from a JSON file",
	Long: `Analyze a JSON array of events, or an object with an "events" array, and
print one result per event.`,
	Example: `  outclass analyze --file events.json --stake 250
  cat events.json | outclass analyze --file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == "" {
			return errNoInput
		}
		runStake, err := resolveStake(cmd.Flags().Changed("stake"), stake)
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if inputFile != "-" {
			f, err := os.Open(inputFile)
			if err != nil {
				return fmt.Errorf("failed to open events file: %w", err)
			}
			defer f.Close()
			in = f
		}

		events, err := readEvents(in)
		if err != nil {
			return err
		}

		results := newAnalyzer().AnalyzeBatch(events, resolveMarket(marketKey), runStake)
		return printJSON(cmd.OutOrStdout(), results)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Events JSON file, - for stdin")
	analyzeCmd.Flags().Float64VarP(&stake, "stake", "s", arbitrage.DefaultStake, "Total stake to split across outcomes")
	analyzeCmd.Flags().StringVarP(&marketKey, "market", "m", "", "Market key to analyze (default from config)")
}

// readEvents accepts either a bare JSON array or an object wrapping it under "events".
func readEvents(r io.Reader) ([]arbitrage.RawEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Events json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode events: %w", err)
		}
		if len(wrapper.Events) == 0 || string(wrapper.Events) == "null" {
			return nil, errors.New(`object input must contain an "events" array`)
		}
		trimmed = string(wrapper.Events)
	}

	return oddsapi.DecodeEvents(strings.NewReader(trimmed))
}

// resolveStake uses the configured default unless a stake was given explicitly,
// in which case it must be positive.
func resolveStake(explicit bool, value float64) (float64, error) {
	if !explicit {
		return cfg.Arbitrage.DefaultStake, nil
	}
	if value <= 0 {
		return 0, fmt.Errorf("stake must be positive, got %v", value)
	}
	return value, nil
}

func resolveMarket(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Arbitrage.MarketKey
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
