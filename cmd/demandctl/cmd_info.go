package main

import (
	"fmt"
	"sort"
	"strings"

	"DemandCast/internal/domain/demand"
	"DemandCast/pkg/util"

	"github.com/spf13/cobra"
)

// healthCmd reports scoring service health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the scoring service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPredictor(cmd)
		if err != nil {
			return err
		}
		hs, err := p.Health(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), hs)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Status:       %s\n", hs.Status)
		fmt.Fprintf(w, "Model loaded: %t\n", hs.ModelLoaded)
		if hs.DemoMode {
			fmt.Fprintln(w, "Demo mode:    yes")
		}
		if hs.Error != "" {
			fmt.Fprintf(w, "Error:        %s\n", hs.Error)
		}
		if !hs.Healthy() {
			return fmt.Errorf("scoring service is %s", hs.Status)
		}
		return nil
	},
}

// modelInfoCmd prints the model description
var modelInfoCmd = &cobra.Command{
	Use:   "model-info",
	Short: "Describe the model behind the scoring service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPredictor(cmd)
		if err != nil {
			return err
		}
		mi, err := p.ModelInfo(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), mi)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Model:    %s\n", mi.ModelType)
		fmt.Fprintf(w, "Target:   %s\n", mi.Target)
		fmt.Fprintf(w, "Inputs:   %s\n", strings.Join(mi.APIInputs, ", "))
		fmt.Fprintf(w, "Features: %d\n", mi.FeatureCount)
		keys := make([]string, 0, len(mi.DemandLevels))
		for k := range mi.DemandLevels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s = %s\n", k, mi.DemandLevels[k])
		}
		return nil
	},
}

// describeCmd interprets a stored score offline
var describeCmd = &cobra.Command{
	Use:   "describe <score> [confidence]",
	Short: "Interpret a score and confidence without calling the service",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, ok := util.ParseInt(args[0])
		if !ok {
			return fmt.Errorf("score %q is not an integer", args[0])
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Demand:     %s\n", demand.DemandDescription(score))
		fmt.Fprintf(w, "Advice:     %s\n", demand.Recommendation(score))
		if len(args) == 2 {
			conf, ok := util.ParseFloat(args[1])
			if !ok {
				return fmt.Errorf("confidence %q is not a number", args[1])
			}
			fmt.Fprintf(w, "Confidence: %s\n", demand.DescribeConfidence(conf))
		}
		return nil
	},
}
