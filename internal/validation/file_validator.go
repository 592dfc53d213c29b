package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotExist is returned when the gradebook path is missing.
	ErrNotExist = errors.New("file does not exist")

	// ErrNotGradebook is returned for paths that cannot hold a gradebook:
	// directories, legacy .xls workbooks and spreadsheet lock files.
	ErrNotGradebook = errors.New("not a gradebook file")
)

// gradebookExts are the extensions the extractor reads.
var gradebookExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
	".txt":  true,
}

// FileValidator checks command line inputs before extraction
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateGradebook checks that path is a readable gradebook file.
func (v *FileValidator) ValidateGradebook(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Gradebook does not exist",
			slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	if err != nil {
		v.logger.Error("Failed to stat gradebook",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrNotGradebook)
	}

	base := filepath.Base(path)
	if isLockFile(base) {
		v.logger.Warn("Skipping spreadsheet lock file",
			slog.String("file", path))
		return fmt.Errorf("%s is a spreadsheet lock file: %w", path, ErrNotGradebook)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == ".xls" {
		return fmt.Errorf("%s: legacy .xls workbooks must be saved as .xlsx: %w", path, ErrNotGradebook)
	}
	if !gradebookExts[ext] {
		return fmt.Errorf("%s: unsupported extension %q: %w", path, ext, ErrNotGradebook)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Gradebook is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Gradebook validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// FindGradebooks lists the gradebooks directly inside dir, sorted by
// name. Lock files, .xls workbooks and subdirectories are skipped.
func (v *FileValidator) FindGradebooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		v.logger.Error("Failed to read input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() || isLockFile(e.Name()) {
			continue
		}
		if gradebookExts[strings.ToLower(filepath.Ext(e.Name()))] {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(found)

	if len(found) == 0 {
		v.logger.Warn("No gradebooks found",
			slog.String("directory", dir))
	} else {
		v.logger.Info("Input directory scanned",
			slog.String("directory", dir),
			slog.Int("files_found", len(found)))
	}
	return found, nil
}

// isLockFile matches the owner files Excel (~$) and LibreOffice (.~lock)
// leave next to an open workbook.
func isLockFile(name string) bool {
	return strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".~lock.")
}
