package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skilleval/pkg/presenter"
	"github.com/jingkaihe/skilleval/pkg/reportserver"
)

type ServeConfig struct {
	Host       string
	Port       int
	ReportsDir string
}

func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host:       "127.0.0.1",
		Port:       8080,
		ReportsDir: ".",
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve evaluation reports over HTTP",
	Long: `Serve a directory of JSON evaluation reports with a browsable HTML index.

Examples:
  skilleval serve --reports-dir ./reports
  skilleval serve --host 0.0.0.0 --port 9090 --reports-dir ./reports`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getServeConfigFromFlags(cmd)

		server, err := reportserver.NewServer(&reportserver.Config{
			Host:       config.Host,
			Port:       config.Port,
			ReportsDir: config.ReportsDir,
		})
		if err != nil {
			presenter.Error(err, "Failed to start report server")
			os.Exit(1)
		}

		if err := server.Start(cmd.Context()); err != nil {
			presenter.Error(err, "Report server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to listen on")
	serveCmd.Flags().String("reports-dir", defaults.ReportsDir, "Directory containing JSON evaluation reports")
	rootCmd.AddCommand(serveCmd)
}

func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()
	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}
	if reportsDir, err := cmd.Flags().GetString("reports-dir"); err == nil {
		config.ReportsDir = reportsDir
	}
	return config
}
