package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/calvinmclean/plantchart"
	"github.com/calvinmclean/plantchart/api"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "plantchart",
		Short: "Interactive dashboard for power plant CSV exports",
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			debug, _ := c.Flags().GetBool("debug")
			setupLogging(debug)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("tz", "Local", "time zone for CSV dates without an offset")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE:  serveCommand,
	}
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().String("file", "", "CSV file to load on startup")
	serveCmd.Flags().String("axis-policy", string(plantchart.AxisPolicyDataset), "axis scaling: dataset or visible")
	serveCmd.Flags().String("kpi-metric", string(plantchart.MetricTempCombustion), "metric for the third KPI")
	serveCmd.Flags().String("sample-label", "", "fixed header label for sample data")
	serveCmd.Flags().Bool("marker-tooltips", false, "include soot and problem markers in tooltips")
	cmd.AddCommand(serveCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print KPIs for a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  summaryCommand,
	}
	summaryCmd.Flags().String("start", "", "first day to include (YYYY-MM-DD)")
	summaryCmd.Flags().String("end", "", "last day to include (YYYY-MM-DD)")
	summaryCmd.Flags().String("kpi-metric", string(plantchart.MetricTempCombustion), "metric for the third KPI")
	cmd.AddCommand(summaryCmd)

	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func location(cmd *cobra.Command) (*time.Location, error) {
	tz, _ := cmd.Flags().GetString("tz")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("error loading time zone %q: %w", tz, err)
	}
	return loc, nil
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	file, _ := cmd.Flags().GetString("file")
	policyFlag, _ := cmd.Flags().GetString("axis-policy")
	metricFlag, _ := cmd.Flags().GetString("kpi-metric")
	sampleLabel, _ := cmd.Flags().GetString("sample-label")
	markerTooltips, _ := cmd.Flags().GetBool("marker-tooltips")

	loc, err := location(cmd)
	if err != nil {
		return err
	}
	policy, err := plantchart.ParseAxisPolicy(policyFlag)
	if err != nil {
		return err
	}
	metric, err := plantchart.ParseMetric(metricFlag)
	if err != nil {
		return err
	}

	cfg := plantchart.DefaultConfig()
	cfg.Location = loc
	cfg.AxisPolicy = policy
	cfg.Selectable = metric
	cfg.SampleLabel = sampleLabel
	cfg.HideMarkerTooltips = !markerTooltips

	session := plantchart.NewSession(cfg)
	if file != "" {
		session.AutoLoad(file)
	}

	log.Info().Str("addr", addr).Msg("starting server")
	err = http.ListenAndServe(addr, api.New(session))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error running server: %w", err)
	}
	return nil
}

func summaryCommand(cmd *cobra.Command, args []string) error {
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")
	metricFlag, _ := cmd.Flags().GetString("kpi-metric")

	loc, err := location(cmd)
	if err != nil {
		return err
	}
	metric, err := plantchart.ParseMetric(metricFlag)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("error opening file %q: %w", args[0], err)
	}
	defer f.Close()

	records, report, err := plantchart.ReadRecords(f, loc)
	if err != nil {
		return err
	}
	data := plantchart.NewDataset(records)

	var rng *plantchart.TimeRange
	if startFlag != "" {
		view, err := summaryRange(startFlag, endFlag, loc)
		if err != nil {
			return err
		}
		r := view.Range()
		rng = &r
	}

	kpis := plantchart.ComputeKPIs(data.Records(), rng, metric)
	span := data.Span()
	if rng != nil {
		span = *rng
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows:      %d read, %d kept, %d dropped\n", report.Rows, report.Kept, report.Dropped)
	fmt.Fprintf(out, "Range:     %s - %s\n", plantchart.FormatEndOfDay(span.Start), plantchart.FormatEndOfDay(span.End))
	fmt.Fprintf(out, "Power:     %s\n", kpis.PowerText())
	fmt.Fprintf(out, "Steam:     %s\n", kpis.SteamText())
	fmt.Fprintf(out, "%-10s %s\n", string(metric)+":", kpis.SelectableText())
	return nil
}

func summaryRange(startFlag, endFlag string, loc *time.Location) (plantchart.ViewState, error) {
	start, err := time.ParseInLocation(time.DateOnly, startFlag, loc)
	if err != nil {
		return plantchart.ViewState{}, fmt.Errorf("error parsing start date: %w", err)
	}

	var end *time.Time
	if endFlag != "" {
		e, err := time.ParseInLocation(time.DateOnly, endFlag, loc)
		if err != nil {
			return plantchart.ViewState{}, fmt.Errorf("error parsing end date: %w", err)
		}
		end = &e
	}
	return plantchart.ApplyRange(start, end)
}
