package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsdash/platform-pulse/internal/config"
	"github.com/opsdash/platform-pulse/internal/engine"
	"github.com/opsdash/platform-pulse/internal/provider"
	"github.com/opsdash/platform-pulse/internal/provider/sqlite"
	"github.com/opsdash/platform-pulse/internal/provider/static"
)

var (
	thresholdsFile string
	schemaFile     string
	databasePath   string
	outputFormat   string
	windowHours    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "Platform telemetry and health classification toolkit",
		Long:  `Evaluate platform health and inspect synthesized telemetry from the command line.`,
	}

	rootCmd.PersistentFlags().StringVar(&thresholdsFile, "thresholds", "", "Threshold YAML file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&schemaFile, "schema", "schemas/thresholds_v1.json", "JSON schema for threshold validation")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "SQLite database path (demo data when empty)")

	validateCmd := &cobra.Command{
		Use:   "validate <thresholds.yaml>",
		Short: "Validate a threshold configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	evaluateCmd := &cobra.Command{
		Use:   "evaluate [platform]",
		Short: "Evaluate platform health once and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvaluate,
	}
	evaluateCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json")

	summaryCmd := &cobra.Command{
		Use:   "pipelines <platform>",
		Short: "Print the current pipeline status breakdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runPipelines,
	}

	rootCmd.AddCommand(validateCmd, evaluateCmd, summaryCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	validator, err := config.NewValidator(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}

	errs := validator.ValidateFile(args[0])
	if len(errs) == 0 {
		fmt.Printf("%s: OK\n", args[0])
		return nil
	}

	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
	return fmt.Errorf("%d validation errors", len(errs))
}

func newEngine() (*engine.Engine, func(), error) {
	thresholds, err := config.LoadThresholds(thresholdsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load thresholds: %w", err)
	}

	var dataProvider provider.Provider = static.New()
	cleanup := func() {}

	if databasePath != "" {
		store, err := sqlite.NewStore(databasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		dataProvider = store
		cleanup = func() { store.Close() }
	}

	return engine.New(dataProvider, thresholds), cleanup, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := newEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	now := time.Now()
	platforms := eng.Platforms(now)

	if len(args) == 1 {
		h, err := eng.Platform(args[0], now)
		if err != nil {
			return err
		}
		platforms = platforms[:0]
		platforms = append(platforms, h)
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(platforms)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tSTATUS\tTREND\tPRIMARY\tSECONDARY\tTICKETS")
	for _, p := range platforms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s %s\t%s\n",
			p.Name, p.Status.Label(), p.Trend,
			p.Metrics.Primary.Label, p.Metrics.Primary.Value,
			p.Metrics.Secondary.Label, p.Metrics.Secondary.Value,
			p.Metrics.Tertiary.Value)
	}
	return w.Flush()
}

func runPipelines(cmd *cobra.Command, args []string) error {
	platformID := args[0]
	if platformID != "edlap" && platformID != "sapbw" {
		return fmt.Errorf("no pipelines for platform: %s", platformID)
	}

	eng, cleanup, err := newEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	s := eng.PipelineSummary(platformID)
	fmt.Printf("%s pipelines: %d total\n", platformID, s.Total)
	fmt.Printf("  successful:     %d\n", s.Successful)
	fmt.Printf("  delayed:        %d\n", s.Delayed)
	fmt.Printf("  failed:         %d\n", s.Failed)
	fmt.Printf("  not applicable: %d\n", s.NotApplicable)
	return nil
}
