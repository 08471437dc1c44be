package main

import (
	"fmt"
	"os"

	"github.com/joy-dx/goajax/config"
	"github.com/joy-dx/goajax/relays"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logFile    string

	rootCmd = &cobra.Command{
		Use:   "goajax",
		Short: "Issue requests through the goajax request lifecycle",
		Long: `goajax sends requests the way the in-page request core does: with the
ajax identification header, form encoding, cache busting and the history
version token, printing the normalized response.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML service configuration file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this rotated file")
}

// loadConfig reads the config file when given and attaches a zerolog relay.
func loadConfig() (*config.AjaxSvcConfig, error) {
	cfg := config.DefaultAjaxSvcConfig()
	ajaxCfg := &cfg
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		ajaxCfg = loaded
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	ajaxCfg.WithRelay(relays.NewFileRelay(logFile, level))
	return ajaxCfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
