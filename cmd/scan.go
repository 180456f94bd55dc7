package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/secinv/cpescan/collector"
	"github.com/secinv/cpescan/config"
	"github.com/secinv/cpescan/cpe"
	"github.com/secinv/cpescan/export"
	"github.com/secinv/cpescan/model"
	"github.com/spf13/cobra"
)

var (
	outputFile    string
	outputFormat  string
	detailed      bool
	skipSoftware  bool
	limitSoftware int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan this machine and export a CPE inventory report",
	Long: `Collects the operating system, hardware, and installed software of the
local machine, converts everything to CPE 2.3 identifiers, and writes
the report in the requested format.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: cpe_report_<timestamp>.xlsx)")
	scanCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: xlsx, table, or json")
	scanCmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Include a summary sheet in spreadsheet output")
	scanCmd.Flags().BoolVar(&skipSoftware, "skip-software", false, "Skip the installed software scan")
	scanCmd.Flags().IntVar(&limitSoftware, "limit-software", 0, "Limit the number of software entries (0 = no limit)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg)

	report, err := buildReport(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	printSummary(report)

	switch cfg.Format {
	case "table":
		export.WriteTable(os.Stdout, report)
		return nil
	case "json":
		if cfg.Output != "" {
			f, err := os.Create(cfg.Output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", cfg.Output, err)
			}
			defer f.Close()
			if err := export.WriteJSON(f, report); err != nil {
				return err
			}
			fmt.Printf("Report written to: %s\n", cfg.Output)
			return nil
		}
		return export.WriteJSON(os.Stdout, report)
	case "", "xlsx":
		path := cfg.Output
		if path == "" {
			path = fmt.Sprintf("cpe_report_%s.xlsx", time.Now().Format("20060102_150405"))
		}
		if err := export.WriteExcel(report, path, cfg.Detailed); err != nil {
			return err
		}
		fmt.Printf("Report written to: %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", cfg.Format)
	}
}

// applyScanFlags layers explicitly-set command flags over the config file
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Output = outputFile
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = outputFormat
	}
	if cmd.Flags().Changed("detailed") {
		cfg.Detailed = detailed
	}
	if cmd.Flags().Changed("skip-software") {
		cfg.SkipSoftware = skipSoftware
	}
	if cmd.Flags().Changed("limit-software") {
		cfg.LimitSoftware = limitSoftware
	}
}

// buildReport runs the collectors and converts the results into a report
func buildReport(ctx context.Context, cfg *config.Config) (*model.ScanReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if verbose {
		fmt.Println("Collecting system information...")
	}

	osInfo := collector.CollectOS(ctx)
	hw := collector.CollectHardware(ctx)

	var software []model.SoftwareEntry
	if !cfg.SkipSoftware {
		software = collector.CollectSoftware(ctx)
		if cfg.LimitSoftware > 0 && len(software) > cfg.LimitSoftware {
			software = software[:cfg.LimitSoftware]
		}
	}

	report := model.NewScanReport()
	report.ReportID = uuid.NewString()
	report.Records = cpe.ConvertAll(osInfo, hw, software)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	report.Hostname = hostname

	return report, nil
}

// printSummary prints per-category record counts in first-seen order
func printSummary(report *model.ScanReport) {
	counts := make(map[string]int)
	var order []string
	for _, rec := range report.Records {
		if _, seen := counts[rec.Category]; !seen {
			order = append(order, rec.Category)
		}
		counts[rec.Category]++
	}

	fmt.Printf("Scan complete: %d CPE record(s) on %s\n", len(report.Records), report.Hostname)
	for _, cat := range order {
		fmt.Printf("  %-30s %d\n", cat, counts[cat])
	}
}
