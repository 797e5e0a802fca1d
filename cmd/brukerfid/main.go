// brukerfid - read ParaVision single voxel spectroscopy scans
// This program converts a scan directory holding a method file and a raw fid
// into a complex series, a voxel affine and a header table.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"brukerfid/pkg/config"
	"brukerfid/pkg/series"
)

// Command line flag variables
var (
	cfgFile   string // Configuration file path
	verbose   bool   // Enable debug logging
	strict    bool   // Reject skipped or degraded parameters
	byteOrder string // Byte order of the fid words
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "brukerfid",
	Short: "Read ParaVision single voxel spectroscopy scans",
	Long: `brukerfid reads a ParaVision scan directory containing a "method" parameter
file and a raw "fid" sample file, and reports or exports the complex series,
the voxel affine and the parameter header.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// init initializes the CLI flags and configuration
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./brukerfid.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "reject method files with skipped or degraded parameters")
	rootCmd.PersistentFlags().StringVar(&byteOrder, "byte-order", "little", "fid byte order (little, big)")

	viper.BindPFlag("reader.strict", rootCmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("reader.byteOrder", rootCmd.PersistentFlags().Lookup("byte-order"))

	rootCmd.AddCommand(infoCmd, headerCmd, exportCmd, spectrumCmd, previewCmd, configCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("brukerfid")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("BRUKERFID")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file and flags
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the stderr logger for the configured level
func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "brukerfid",
	})
}

// readSeries converts the scan directory dir with the given configuration
func readSeries(dir string, cfg *config.Config, logger *log.Logger) (*series.Series, error) {
	order, err := cfg.Order()
	if err != nil {
		return nil, err
	}

	logger.Debug("reading scan", "dir", dir, "method", cfg.Reader.MethodFile, "fid", cfg.Reader.FIDFile)
	s, err := series.NewAssembler(&series.Params{
		Dir:        dir,
		MethodFile: cfg.Reader.MethodFile,
		FIDFile:    cfg.Reader.FIDFile,
		ByteOrder:  order,
		Strict:     cfg.Reader.Strict,
		Logger:     logger,
	}).Assemble()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	shape := s.Data.Shape()
	logger.Debug("series assembled", "points", shape[0], "channels", shape[1], "acquisitions", shape[2])
	return s, nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
