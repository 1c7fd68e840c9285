package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idanarye/yoetz/advisor/scenario"
)

var validatePaths []string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check scenario files without running them",
	Long:  "Load each scenario YAML with strict parsing, validate it and build its world. Reports one line per file.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateScenarios(os.Stdout, validatePaths); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// validateScenarios reports every file and fails if any is invalid.
func validateScenarios(out io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		spec, err := scenario.Load(path)
		if err == nil {
			err = spec.Validate()
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			continue
		}
		entities := 0
		for _, e := range spec.Entities {
			entities += max(e.Count, 1)
		}
		fmt.Fprintf(out, "OK   %s: %d variants, %d entities, %d ticks\n", path, len(spec.Variants), entities, spec.Ticks)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenario(s) invalid", failed, len(paths))
	}
	return nil
}

func init() {
	validateCmd.Flags().StringArrayVar(&validatePaths, "scenario", nil, "Path to scenario YAML file (can be repeated)")
	_ = validateCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(validateCmd)
}
