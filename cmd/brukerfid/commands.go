package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"brukerfid/pkg/config"
	"brukerfid/pkg/export"
	"brukerfid/pkg/series"
	"brukerfid/pkg/spectrum"
	"brukerfid/pkg/visualization"
)

var (
	outputDir   string // Output directory for export and preview
	format      string // Output format for header and sidecar
	channel     int    // Channel selected for spectrum
	acquisition int    // Acquisition selected for spectrum
	domain      string // Preview domain: time or frequency
	namesOnly   bool   // List header names without values
)

// infoCmd prints a summary of a scan, or of a raw dump written by export
var infoCmd = &cobra.Command{
	Use:   "info <scan-dir|dump.raw>",
	Short: "Show a summary of a scan or a raw dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if fi, err := os.Stat(args[0]); err == nil && fi.Mode().IsRegular() {
			data, err := export.ReadRaw(args[0])
			if err != nil {
				return err
			}
			printRaw(cmd.OutOrStdout(), data)
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := readSeries(args[0], cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		printInfo(cmd.OutOrStdout(), s)
		return nil
	},
}

// headerCmd prints the header table
var headerCmd = &cobra.Command{
	Use:   "header <scan-dir>",
	Short: "Print the header table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := readSeries(args[0], cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		if namesOnly {
			for _, name := range s.Header.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}
		data, err := export.MarshalSidecar(s.Header, cfg.Output.Format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// exportCmd writes the raw dump and the sidecar
var exportCmd = &cobra.Command{
	Use:   "export <scan-dir>",
	Short: "Write the series as a raw complex64 dump plus a sidecar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyOutputFlag(cmd, cfg)
		logger := newLogger(cfg)
		s, err := readSeries(args[0], cfg, logger)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		base := filepath.Join(cfg.Output.Dir, filepath.Base(filepath.Clean(args[0])))

		if cfg.Output.WriteRaw {
			if err := export.WriteRaw(base+".raw", s.Data); err != nil {
				return err
			}
			logger.Info("wrote raw series", "file", base+".raw")
		}

		sidecar := base + "." + cfg.Output.Format
		if err := export.WriteSidecar(sidecar, s, cfg.Output.Format); err != nil {
			return err
		}
		logger.Info("wrote sidecar", "file", sidecar)
		return nil
	},
}

// spectrumCmd reports the peak and SNR of one readout
var spectrumCmd = &cobra.Command{
	Use:   "spectrum <scan-dir>",
	Short: "Report the spectral peak and SNR of one readout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := readSeries(args[0], cfg, newLogger(cfg))
		if err != nil {
			return err
		}

		shape := s.Data.Shape()
		if channel < 0 || channel >= shape[1] {
			return fmt.Errorf("channel %d outside [0, %d)", channel, shape[1])
		}
		if acquisition < 0 || acquisition >= shape[2] {
			return fmt.Errorf("acquisition %d outside [0, %d)", acquisition, shape[2])
		}

		spc := spectrum.Transform(s.Data.FID(channel, acquisition), cfg.Spectrum.ZeroFill)
		est, err := spectrum.EstimateSNR(spc, cfg.Spectrum.NoiseFraction)
		if err != nil {
			return err
		}
		ppm, err := spectrum.PPMAxis(len(spc), s.DwellTime, s.Acquisition.ImagingFrequency, cfg.Spectrum.CentrePPM)
		if err != nil {
			return err
		}
		hz := spectrum.FrequencyAxis(len(spc), s.DwellTime)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Channel %d, acquisition %d (%d points)\n", channel, acquisition, len(spc))
		fmt.Fprintf(out, "Peak: %.2f ppm (%.1f Hz), magnitude %.4g\n", ppm[est.PeakIndex], hz[est.PeakIndex], est.PeakMagnitude)
		fmt.Fprintf(out, "Noise std-dev: %.4g\n", est.NoiseStdDev)
		fmt.Fprintf(out, "SNR: %.1f\n", est.SNR)
		return nil
	},
}

// previewCmd renders magnitude images per channel
var previewCmd = &cobra.Command{
	Use:   "preview <scan-dir>",
	Short: "Render magnitude images of every channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyOutputFlag(cmd, cfg)
		logger := newLogger(cfg)
		s, err := readSeries(args[0], cfg, logger)
		if err != nil {
			return err
		}

		var d visualization.Domain
		switch domain {
		case "time":
			d = visualization.TimeDomain
		case "frequency":
			d = visualization.FrequencyDomain
		default:
			return fmt.Errorf("invalid domain: %s (must be time or frequency)", domain)
		}

		viewer := visualization.NewViewer(s.Data, cfg.Preview.Gamma, cfg.Preview.Quality)
		written, err := viewer.SavePlaneSequence(d, cfg.Output.Dir)
		if err != nil {
			return err
		}
		for _, f := range written {
			logger.Info("wrote preview", "file", f)
		}
		return nil
	},
}

// configCmd groups configuration helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

// configInitCmd writes the default configuration
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "brukerfid.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	headerCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	viper.BindPFlag("output.format", headerCmd.Flags().Lookup("format"))
	headerCmd.Flags().BoolVar(&namesOnly, "names", false, "list parameter names only")

	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")

	previewCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	previewCmd.Flags().StringVar(&domain, "domain", "frequency", "preview domain (time, frequency)")

	spectrumCmd.Flags().IntVar(&channel, "channel", 0, "receive channel")
	spectrumCmd.Flags().IntVar(&acquisition, "acquisition", 0, "acquisition index")

	configCmd.AddCommand(configInitCmd)
}

// applyOutputFlag lets an explicit --output override the configured directory
func applyOutputFlag(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = outputDir
	}
}

// printInfo writes the scan summary
func printInfo(w io.Writer, s *series.Series) {
	shape := s.Data.Shape()
	acq := s.Acquisition

	fmt.Fprintf(w, "Points: %d (of %d, shift %d)\n", shape[0], acq.Points, acq.Shift)
	fmt.Fprintf(w, "Channels: %d\n", shape[1])
	fmt.Fprintf(w, "Acquisitions: %d (%g repetitions x %g averages)\n", shape[2], acq.Repetitions, acq.Averages)
	fmt.Fprintf(w, "Bandwidth: %g Hz (dwell time %g s)\n", acq.Bandwidth, s.DwellTime)
	fmt.Fprintf(w, "Imaging frequency: %g MHz\n", acq.ImagingFrequency)
	fmt.Fprintf(w, "Echo time: %g s\n", acq.EchoTime)
	fmt.Fprintf(w, "Parameters: %d\n", s.Header.Len())

	fmt.Fprintf(w, "\nAffine:\n%v\n", s.Affine)
	centre := s.Affine.Apply(0, 0, 0)
	fmt.Fprintf(w, "Voxel position: (%g, %g, %g)\n", centre[0], centre[1], centre[2])
	for _, adv := range s.Advisories {
		fmt.Fprintf(w, "Advisory: %s\n", adv)
	}

	fmt.Fprintf(w, "\nChannel magnitudes:\n")
	for _, cs := range series.Summarize(s.Data) {
		fmt.Fprintf(w, "  %2d: mean %.4g, std-dev %.4g, max %.4g\n",
			cs.Channel, cs.MeanMagnitude, cs.StdMagnitude, cs.MaxMagnitude)
	}

	for _, warning := range s.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

// printRaw writes the summary of a raw dump
func printRaw(w io.Writer, data *series.ComplexSeries) {
	shape := data.Shape()
	fmt.Fprintf(w, "Raw dump: %d points x %d channels x %d acquisitions\n", shape[0], shape[1], shape[2])
	for _, cs := range series.Summarize(data) {
		fmt.Fprintf(w, "  %2d: mean %.4g, std-dev %.4g, max %.4g\n",
			cs.Channel, cs.MeanMagnitude, cs.StdMagnitude, cs.MaxMagnitude)
	}
}
