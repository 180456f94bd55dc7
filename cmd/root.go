package cmd

import (
	"fmt"
	"os"

	"github.com/secinv/cpescan/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	serverURL string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cpescan",
	Short: "System inventory scanner with CPE 2.3 identifier generation",
	Long: `Scans the local machine for operating system, hardware, and installed
software, converts every finding into a CPE 2.3 identifier, and exports
the inventory as a spreadsheet, table, or JSON report. Reports can also
be pushed to a central collection server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Report server URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: file values first, then
// any command-line overrides on top.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	required := path != ""
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	if serverURL != "" {
		cfg.Server = serverURL
	}

	return cfg, nil
}
