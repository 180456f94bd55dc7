package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff"
	"github.com/secinv/cpescan/model"
	"github.com/spf13/cobra"
)

// pushCmd represents the push command
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Scan this machine and push the report to the server",
	Long: `Runs a full scan of the local machine and uploads the resulting CPE
report to the collection server.`,
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().BoolVar(&skipSoftware, "skip-software", false, "Skip the installed software scan")
	pushCmd.Flags().IntVar(&limitSoftware, "limit-software", 0, "Limit the number of software entries (0 = no limit)")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("skip-software") {
		cfg.SkipSoftware = skipSoftware
	}
	if cmd.Flags().Changed("limit-software") {
		cfg.LimitSoftware = limitSoftware
	}

	report, err := buildReport(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Pushing report %s (%d records) to %s\n", report.ReportID, len(report.Records), cfg.Server)
	}

	if err := postReport(cfg.Server, report); err != nil {
		return fmt.Errorf("failed to push report: %w", err)
	}

	fmt.Printf("✓ Successfully pushed report %s from %s\n", report.ReportID, report.Hostname)
	return nil
}

func postReport(serverURL string, report *model.ScanReport) error {
	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if verbose {
		fmt.Println("Request payload:")
		var prettyJSON bytes.Buffer
		if err := json.Indent(&prettyJSON, jsonData, "", "  "); err == nil {
			fmt.Println(prettyJSON.String())
		}
	}

	url := serverURL + "/api/v1/reports"

	// Transient network failures are retried; HTTP errors are not.
	operation := func() error {
		resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response: %w", err))
		}

		if resp.StatusCode != http.StatusCreated {
			return backoff.Permanent(fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body)))
		}

		if verbose {
			fmt.Println("Server response:")
			fmt.Println(string(body))
		}

		return nil
	}

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
}
