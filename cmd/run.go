package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/scenario"
	"github.com/idanarye/yoetz/advisor/trace"
	"github.com/idanarye/yoetz/advisor/world"
)

// runOptions carries the resolved `yoetz run` flags.
type runOptions struct {
	ScenarioPath string
	Preset       string
	DefaultsPath string
	Margin       string // empty = unset
	Seed         *int64
	Ticks        int // 0 = scenario value
	TraceLevel   string
	// CounterfactualK < 0 keeps the scenario value.
	CounterfactualK int
	TraceDBPath     string
	TraceJSONPath   string
	MetricsPath     string
	Workers         int
}

// resolveConfig layers policy sources: defaults, scenario, preset, --margin.
func resolveConfig(spec *scenario.Spec, opts runOptions) (world.Config, error) {
	cfg, err := spec.WorldConfig(advisor.DefaultPolicy())
	if err != nil {
		return world.Config{}, err
	}
	if opts.Preset != "" {
		presets, err := loadPresets(opts.DefaultsPath)
		if err != nil {
			return world.Config{}, err
		}
		if cfg.Policy, err = presets.Apply(opts.Preset, cfg.Policy); err != nil {
			return world.Config{}, err
		}
	}
	if opts.Margin != "" {
		margin, err := advisor.ParseMargin(opts.Margin)
		if err != nil {
			return world.Config{}, err
		}
		cfg.Policy.HysteresisMargin = margin
	}

	if opts.TraceLevel != "" {
		if !trace.IsValidTraceLevel(opts.TraceLevel) {
			return world.Config{}, fmt.Errorf("unknown trace level %q; valid: none, changes, decisions", opts.TraceLevel)
		}
		cfg.Trace.Level = trace.TraceLevel(opts.TraceLevel)
	}
	if opts.CounterfactualK >= 0 {
		cfg.Trace.CounterfactualK = opts.CounterfactualK
	}
	if (opts.TraceDBPath != "" || opts.TraceJSONPath != "") && !cfg.Trace.Enabled() {
		logrus.Infof("trace export requested with tracing disabled; recording at level %q", trace.TraceLevelDecisions)
		cfg.Trace.Level = trace.TraceLevelDecisions
	}
	cfg.Workers = opts.Workers
	return cfg, nil
}

// runScenario loads, runs and reports one scenario.
func runScenario(ctx context.Context, opts runOptions, out io.Writer) error {
	spec, err := scenario.Load(opts.ScenarioPath)
	if err != nil {
		return err
	}
	if opts.Seed != nil {
		spec.Seed = *opts.Seed
	}
	if opts.Ticks > 0 {
		spec.Ticks = opts.Ticks
	}
	cfg, err := resolveConfig(spec, opts)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	w, err := spec.Build(cfg, world.NewMetrics(reg))
	if err != nil {
		return fmt.Errorf("building scenario: %w", err)
	}
	logrus.Infof("Starting run: %d entities, %d ticks, margin=%v, stages=%v",
		len(w.Entities()), spec.Ticks, cfg.Policy.HysteresisMargin, w.Stages())

	if err := w.Run(ctx, spec.Ticks); err != nil {
		return err
	}

	printSummary(out, w)

	if dt := w.Trace(); dt != nil {
		if opts.TraceJSONPath != "" {
			if err := writeTraceJSON(opts.TraceJSONPath, dt); err != nil {
				return err
			}
		}
		if opts.TraceDBPath != "" {
			if err := writeTraceDB(ctx, opts.TraceDBPath, dt); err != nil {
				return err
			}
		}
	}
	if opts.MetricsPath != "" {
		if err := writeMetrics(opts.MetricsPath, reg, out); err != nil {
			return err
		}
	}
	return nil
}

func writeTraceJSON(path string, dt *trace.DecisionTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := trace.WriteJSON(f, dt); err != nil {
		f.Close()
		return err
	}
	logrus.Infof("Trace written to %s", path)
	return f.Close()
}

func writeTraceDB(ctx context.Context, path string, dt *trace.DecisionTrace) error {
	store, err := trace.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.WriteTrace(ctx, dt); err != nil {
		return err
	}
	logrus.Infof("Trace run %s stored in %s", dt.RunID, path)
	return nil
}

func writeMetrics(path string, g prometheus.Gatherer, stdout io.Writer) error {
	if path == "-" {
		return world.WriteMetricsText(stdout, g)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if err := world.WriteMetricsText(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printSummary writes the final behavior of every entity and, when tracing
// was enabled, the trace summary.
func printSummary(out io.Writer, w *world.World) {
	catalog := w.Catalog()
	fmt.Fprintln(out, "=== Final Behaviors ===")
	for _, e := range w.Entities() {
		name := "-"
		if v, _, ok := e.Advisor.Current(); ok {
			name = catalog.Name(v)
		}
		fmt.Fprintf(out, "%-24s: %s\n", e.ID, name)
	}

	dt := w.Trace()
	if dt == nil {
		return
	}
	s := trace.Summarize(dt)
	fmt.Fprintln(out, "=== Decision Summary ===")
	fmt.Fprintf(out, "Run ID                  : %s\n", dt.RunID)
	fmt.Fprintf(out, "Ticks                   : %d\n", w.Tick())
	fmt.Fprintf(out, "Recorded Decisions      : %d\n", s.TotalDecisions)
	for _, k := range sortedKeys(s.OutcomeCounts) {
		fmt.Fprintf(out, "  %-22s: %d\n", k, s.OutcomeCounts[k])
	}
	fmt.Fprintln(out, "Lifecycle Events        :")
	for _, k := range sortedKeys(s.EventCounts) {
		fmt.Fprintf(out, "  %-22s: %d\n", k, s.EventCounts[k])
	}
	fmt.Fprintf(out, "Dropped Suggestions     : %d\n", s.DroppedCount)
	fmt.Fprintf(out, "Mean Regret             : %.4f\n", s.MeanRegret)
	fmt.Fprintf(out, "Max Regret              : %.4f\n", s.MaxRegret)
	fmt.Fprintf(out, "Variants In Use         : %d\n", s.UniqueVariants)
	fmt.Fprintln(out, "Switches Per Entity     :")
	for _, k := range sortedKeys(s.SwitchesPerEntity) {
		fmt.Fprintf(out, "  %-22s: %d\n", k, s.SwitchesPerEntity[k])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
