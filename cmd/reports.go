package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

// reportsCmd represents the reports command
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List the scan reports stored on the server",
	Long:  `Retrieves and displays all stored scan reports with their ID, hostname, scan time, and record count.`,
	RunE:  runReports,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	url := cfg.Server + "/api/v1/reports"

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		Reports []struct {
			ReportID string `json:"report_id"`
			Hostname string `json:"hostname"`
			ScanTime string `json:"scantime"`
			Records  int    `json:"records"`
		} `json:"reports"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("API returned success=false")
	}

	fmt.Printf("Found %d report(s):\n\n", result.Count)
	fmt.Printf("%-38s %-24s %-26s %-8s\n", "REPORT ID", "HOSTNAME", "SCAN TIME", "RECORDS")
	fmt.Println("──────────────────────────────────────────────────────────────────────────────────────────────────")

	for _, report := range result.Reports {
		fmt.Printf("%-38s %-24s %-26s %-8d\n", report.ReportID, report.Hostname, report.ScanTime, report.Records)
	}

	return nil
}
