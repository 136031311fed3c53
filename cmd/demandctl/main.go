// Command demandctl queries the demand scoring service from a terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"DemandCast/internal/domain/failure"
	"DemandCast/internal/services/scoring"
	"DemandCast/internal/usecase"
	"DemandCast/pkg/config"
	applogger "DemandCast/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	baseURL    string
	configPath string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "demandctl",
	Short: "Predict smart-glasses demand from training availability",
	Long: `demandctl talks to the demand scoring service.

The service URL comes from --url, then SCORING_BASE_URL, then the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "scoring service base URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log scoring calls to stderr")

	rootCmd.AddCommand(predictCmd, batchCmd, healthCmd, modelInfoCmd, describeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// newPredictor resolves the service URL and builds the use case.
func newPredictor(cmd *cobra.Command) (*usecase.DemandPredictor, error) {
	url := baseURL
	if url == "" {
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return nil, err
		}
		url = cfg.Scoring.BaseURL
	}
	l := applogger.NewNop()
	if verbose {
		l = applogger.NewWithWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}, zerolog.DebugLevel)
	}
	return usecase.NewDemandPredictor(scoring.NewClient(url), nil, l), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(w io.Writer, err error) {
	f, ok := failure.As(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", f.Kind, f.Message)
	if f.Retryable() {
		fmt.Fprintln(w, "The request can be retried.")
	}
}
