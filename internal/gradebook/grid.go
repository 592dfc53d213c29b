package gradebook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// Grid is an untyped spreadsheet held in memory. Rows may be ragged.
type Grid [][]string

// Cell returns the cell at row r, column c, or "" when it does not exist.
func (g Grid) Cell(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return g[r][c]
}

// Width returns the length of the widest row.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Load reads a whole Excel or CSV upload into a Grid. The format is taken
// from the file extension, falling back to content sniffing.
func Load(name string, r io.Reader) (Grid, domain.SourceFormat, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", ErrEmptyFile
	}

	format, err := detectFormat(name, data)
	if err != nil {
		return nil, "", err
	}

	var grid Grid
	switch format {
	case domain.FormatExcel:
		grid, err = loadExcel(data)
	default:
		grid, err = loadCSV(data)
	}
	if err != nil {
		return nil, "", err
	}
	if len(grid) == 0 {
		return nil, "", ErrEmptyFile
	}
	return grid, format, nil
}

func detectFormat(name string, data []byte) (domain.SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return domain.FormatExcel, nil
	case ".csv", ".txt":
		return domain.FormatCSV, nil
	case ".xls":
		return "", fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", ErrUnsupportedFormat)
	}
	if bytes.HasPrefix(data, zipMagic) {
		return domain.FormatExcel, nil
	}
	return domain.FormatCSV, nil
}

// loadExcel reads the first sheet. Raw cell values are used so that dates
// arrive as serial numbers and grades without locale formatting.
func loadExcel(data []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrUnreadableFile, sheets[0], err)
	}
	return Grid(rows), nil
}

func loadCSV(data []byte) (Grid, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode csv: %w", ErrUnreadableFile, err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse csv: %w", ErrUnreadableFile, err)
	}
	return Grid(records), nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// non-empty line. Spreadsheets saved with a Portuguese locale use ';'.
func sniffDelimiter(data []byte) rune {
	var line []byte
	for _, l := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			line = l
			break
		}
	}

	best, bestCount := ',', bytes.Count(line, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
