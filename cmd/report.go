package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/evfleet/packhealth/core/model"
	"github.com/evfleet/packhealth/core/report"
	"github.com/evfleet/packhealth/infra/logger"
)

var outputPath string

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Generate a health report from a snapshot file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  generateReport,
}

func init() {
	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "battery_report_output.json", "report output file")
	rootCmd.AddCommand(reportCmd)
}

func generateReport(cmd *cobra.Command, args []string) error {
	path := "sample_log.json"
	if len(args) == 1 {
		path = args[0]
	}
	logg := logger.New("report-command")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap model.DiagnosticSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	rep, err := report.New().Generate(snap)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	printReport(cmd.OutOrStdout(), rep)

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logg.Infof("report written to %s", outputPath)
	return nil
}

func printReport(w io.Writer, rep model.HealthReport) {
	fmt.Fprintln(w, "--- Battery Health Report ---")
	fmt.Fprintf(w, "Vehicle ID: %s\n", rep.VehicleID)
	fmt.Fprintf(w, "Generated At: %s\n", rep.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "State of Health: %v%% (method %s, confidence %s)\n",
		rep.SOH.SohPercent, rep.SOH.Method, rep.SOH.Confidence)
	fmt.Fprintf(w, "Equivalent full cycles: %v, deep discharge cycles: %d\n",
		rep.Cycles.EquivalentFullCycles, rep.Cycles.DeepCycles)
	fmt.Fprintf(w, "Anomalies (%d):\n", len(rep.Anomalies))
	if len(rep.Anomalies) == 0 {
		fmt.Fprintln(w, "  none detected")
		return
	}
	for _, a := range rep.Anomalies {
		fmt.Fprintf(w, "  - %s [%s]: %v\n", a.Type, a.Severity, a.Value)
	}
}
