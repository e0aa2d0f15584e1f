package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/config"
)

const eventsJSON = `[
	{
		"id": "arb1",
		"bookmakers": [
			{"title": "BookOne", "markets": [{"key": "h2h", "outcomes": [{"name": "A", "price": 2.5}, {"name": "B", "price": 1.5}]}]},
			{"title": "BookTwo", "markets": [{"key": "h2h", "outcomes": [{"name": "A", "price": 1.5}, {"name": "B", "price": 2.5}]}]}
		]
	},
	{"id": 77}
]`

func TestReadEvents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{name: "array", input: eventsJSON, wantLen: 2},
		{name: "wrapped", input: `{"events": ` + eventsJSON + `}`, wantLen: 2},
		{name: "empty array", input: `[]`, wantLen: 0},
		{name: "object without events", input: `{"sport": "nba"}`, wantErr: true},
		{name: "null events", input: `{"events": null}`, wantErr: true},
		{name: "not json", input: `nope`, wantErr: true},
		{name: "scalar", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := readEvents(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, events, tt.wantLen)
		})
	}
}

func TestResolveStake(t *testing.T) {
	cfg = &config.Config{Arbitrage: config.ArbitrageConfig{DefaultStake: 150, MarketKey: "h2h"}}

	got, err := resolveStake(false, 0)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got)

	got, err = resolveStake(true, 20)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got)

	_, err = resolveStake(true, 0)
	assert.Error(t, err)
	_, err = resolveStake(true, -5)
	assert.Error(t, err)

	assert.Equal(t, "totals", resolveMarket("totals"))
	assert.Equal(t, "h2h", resolveMarket(""))
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, []byte(eventsJSON), 0o600))
	t.Setenv("OUTCLASS_CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv(config.OddsAPIKeyEnv, "")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"analyze", "--file", path, "--stake", "200"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var results []arbitrage.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Arbitrage)
	assert.Equal(t, 250.0, *results[0].Payout)
	assert.Equal(t, "77", *results[1].EventID)
	assert.Equal(t, arbitrage.ReasonNoMarketData, results[1].Reason)
}
