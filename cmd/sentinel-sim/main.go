// Command sentinel-sim is the headless fixed-timestep driver for the
// sentinel core: the driver loop and config-file loading, which spec.md §1
// places outside the core package, live here instead.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	seed    int64
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "sentinel-sim",
	Short:   "Headless driver for the wildfire sentinel fleet simulation",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (defaults built in if omitted)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "override Config.Seed (0 keeps the config/default value)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
