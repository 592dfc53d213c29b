// Command painelctl runs the gradebook extraction without the server.
//
//	painelctl extract turma.xlsx --out data/
//	painelctl extract planilhas/ --out data/
//	painelctl summary turma.xlsx
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/David1r20/painel-educacional/internal/config"
	apierrors "github.com/David1r20/painel-educacional/internal/errors"
	"github.com/David1r20/painel-educacional/internal/gradebook"
	"github.com/David1r20/painel-educacional/internal/infrastructure"
	"github.com/David1r20/painel-educacional/internal/validation"
	"github.com/David1r20/painel-educacional/pkg/contracts"
	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

var (
	configPath string
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "painelctl",
		Short: "Gradebook extraction tools",
		Long: `Extract class gradebooks (.xlsx or .csv) into tidy tables.

Commands:
  extract  Write the student summary and the panel as CSV files.
  summary  Print the class KPIs and risk counts as JSON.

The column layout is read from the same configuration as the server
(PAINEL_CONFIG or config.yaml, then PAINEL_* variables).`,
		Version:      contracts.GetFullVersionString(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newExtractCmd(), newSummaryCmd())
	return root
}

// loadConfig reads --config when given, otherwise the usual locations.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// newLogger logs to stderr so that stdout stays machine readable.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, error) {
	logging := cfg.Logging
	logging.Level = logLevel
	logging.Output = "console"
	return infrastructure.NewLogger(logging, stderr)
}

// toolkit holds what every command needs once the configuration is read.
type toolkit struct {
	logger    *slog.Logger
	extractor *gradebook.Extractor
	files     *validation.FileValidator
}

func newToolkit(cmd *cobra.Command) (*toolkit, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, apierrors.NewConfigError("failed to initialize logger", err)
	}

	extractor, err := gradebook.NewExtractor(cfg.Layout.Gradebook(), logger)
	if err != nil {
		return nil, apierrors.NewConfigError("invalid gradebook layout", err)
	}
	return &toolkit{
		logger:    logger,
		extractor: extractor,
		files:     validation.NewFileValidator(logger),
	}, nil
}

// extract loads and extracts one gradebook with the configured layout.
func (tk *toolkit) extract(ctx context.Context, path string) (*domain.Dataset, error) {
	if err := tk.files.ValidateGradebook(path); err != nil {
		if errors.Is(err, validation.ErrNotGradebook) {
			return nil, apierrors.NewParsingError("unsupported gradebook", err).WithContext("path", path)
		}
		return nil, apierrors.NewStorageError("failed to open gradebook", err).WithContext("path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewStorageError("failed to open gradebook", err).WithContext("path", path)
	}
	defer f.Close()

	ds, err := tk.extractor.Process(ctx, filepath.Base(path), f)
	if err != nil {
		if gradebook.IsLayoutError(err) {
			return nil, apierrors.NewLayoutError("gradebook does not match the configured layout", err).WithContext("path", path)
		}
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
	}
	tk.logger.InfoContext(ctx, "gradebook extracted",
		slog.String("file", path),
		slog.Int("students", len(ds.Students)),
		slog.Int("sessions", len(ds.Sessions)))
	return ds, nil
}
