package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"DemandCast/internal/domain/demand"
	"DemandCast/internal/domain/models"
	"DemandCast/internal/services/validation"
	"DemandCast/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	batchEach        bool
	batchConcurrency int
)

// batchCmd scores a JSON array of regions
var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Predict demand for many regions",
	Long: `Predict demand for a JSON array of regions read from file or stdin.

Each element maps the six indicators to 0 or 1:
  [{"cognition":1,"communication":0,"hearing":1,"mobility":0,"self_care":1,"vision":0}]

By default the batch endpoint is called once. --each sends one request per
region instead, so one failing region does not fail the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchEach, "each", false, "score regions with independent requests")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", usecase.DefaultFanOut, "parallel requests with --each")
}

func runBatch(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	vs, err := readVectors(in)
	if err != nil {
		return err
	}

	p, err := newPredictor(cmd)
	if err != nil {
		return err
	}

	var items []models.BatchItem
	if batchEach {
		if err := validation.ValidateBatch(vs); err != nil {
			return err
		}
		items = p.PredictEach(cmd.Context(), vs, batchConcurrency)
	} else {
		res, err := p.PredictBatch(cmd.Context(), vs)
		if err != nil {
			return err
		}
		items = res.Items
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), models.BatchResult{Items: items})
	}
	w := cmd.OutOrStdout()
	for _, it := range items {
		if !it.OK() {
			fmt.Fprintf(w, "#%-3d error: %s\n", it.Index, it.Error)
			continue
		}
		fmt.Fprintf(w, "#%-3d %-14s confidence %.3f\n", it.Index, demand.DemandDescription(it.Result.DemandScore), it.Result.Confidence)
	}
	return nil
}

// readVectors decodes and validates a JSON array of indicator maps.
func readVectors(r io.Reader) ([]models.TrainingAvailabilityVector, error) {
	var raw []map[string]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	vs := make([]models.TrainingAvailabilityVector, 0, len(raw))
	for i, m := range raw {
		v, err := validation.ParseVector(m)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		vs = append(vs, v)
	}
	return vs, nil
}
