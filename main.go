// main.go
// RedLine FireWatch patrol report generator
// Resolves an officer's latest shift from the configured record store and writes a paginated PDF report

package main

import (
	"context"
	"firewatch/config"
	"firewatch/handlers"
	"firewatch/logger"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cliFlags struct {
	imagesDir string
	dataDir   string
	outputDir string
	driver    string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "firewatch <user_id>",
		Short: "Generate a patrol report PDF for an officer",
		Long: `Looks up the officer, their most recent shift and its job site, and writes
patrol_report_<user_id>_<YYYYMMDD>.pdf into the output directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.imagesDir, "images-dir", "", "directory of patrol photos (overrides IMAGES_DIR)")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "directory of exported collections (overrides DATA_DIR)")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory the report is written to (overrides OUTPUT_DIR)")
	cmd.Flags().StringVar(&flags.driver, "driver", "", "record source: json, firestore or mongo (overrides SOURCE_DRIVER)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, flags cliFlags, userID string) error {
	cfg := config.Load()
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.Logging)
	for _, warning := range cfg.Warnings() {
		log.Warn("⚠️  " + warning)
	}
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"driver":      cfg.Source.Driver,
	}).Debug("📍 Configuration loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := handlers.NewReportHandler(cfg, log).Generate(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report generated: %s\n", res.Path)
	return nil
}

func (f cliFlags) apply(cfg *config.Config) {
	if f.imagesDir != "" {
		cfg.Report.ImagesDir = f.imagesDir
	}
	if f.dataDir != "" {
		cfg.Source.DataDir = f.dataDir
	}
	if f.outputDir != "" {
		cfg.Report.OutputDir = f.outputDir
	}
	if f.driver != "" {
		cfg.Source.Driver = f.driver
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
