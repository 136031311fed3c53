package main

import (
	"fmt"
	"io"

	"DemandCast/internal/domain/demand"
	"DemandCast/internal/domain/models"

	"github.com/spf13/cobra"
)

var flags struct {
	cognition, communication, hearing, mobility, selfCare, vision bool
}

// predictCmd scores one region from six yes/no flags
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict demand for one region",
	Long: `Predict demand from the training areas available in a region.

Pass a flag for every area that has training, e.g.:
  demandctl predict --cognition --communication --hearing --self-care`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.BoolVar(&flags.cognition, "cognition", false, "cognition training available")
	f.BoolVar(&flags.communication, "communication", false, "communication training available")
	f.BoolVar(&flags.hearing, "hearing", false, "hearing training available")
	f.BoolVar(&flags.mobility, "mobility", false, "mobility training available")
	f.BoolVar(&flags.selfCare, "self-care", false, "self-care training available")
	f.BoolVar(&flags.vision, "vision", false, "vision training available")
}

func runPredict(cmd *cobra.Command, _ []string) error {
	p, err := newPredictor(cmd)
	if err != nil {
		return err
	}
	res, err := p.PredictFlags(cmd.Context(),
		flags.cognition, flags.communication, flags.hearing,
		flags.mobility, flags.selfCare, flags.vision,
	)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

func printResult(w io.Writer, res *models.PredictionResult) {
	fmt.Fprintf(w, "Demand:      %s (score %d)\n", demand.DemandDescription(res.DemandScore), res.DemandScore)
	fmt.Fprintf(w, "Confidence:  %.1f%% (%s)\n", res.Confidence*100, demand.DescribeConfidence(res.Confidence))
	fmt.Fprintf(w, "Advice:      %s\n", res.Recommendations)
	if s := res.InputSummary; s != nil {
		fmt.Fprintf(w, "Coverage:    %d of 6 areas (%.1f%%)\n", s.TotalTrainingAreas, s.TrainingCoveragePercentage)
	}
}
