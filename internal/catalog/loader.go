package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

// Spreadsheet header names
const (
	columnItemNumber = "ItemNumber"
	columnItemName   = "ItemName"
	columnItemPrice  = "ItemPrice"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type yamlCatalog struct {
	Items []domain.Item `yaml:"items"`
}

// Load reads a catalog from an .xlsx or .yaml file. sheet selects the
// worksheet for .xlsx files; empty means the first sheet.
func Load(path, sheet string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path, sheet)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func loadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return New(doc.Items), nil
}

func loadXLSX(path, sheet string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("catalog workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return New(nil), nil
	}

	keyCol, nameCol, priceCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case columnItemNumber:
			keyCol = i
		case columnItemName:
			nameCol = i
		case columnItemPrice:
			priceCol = i
		}
	}
	if keyCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("sheet %q must have %s and %s columns", sheet, columnItemNumber, columnItemName)
	}

	items := make([]domain.Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		items = append(items, domain.Item{
			Key:   cell(row, keyCol),
			Name:  cell(row, nameCol),
			Price: parsePrice(cell(row, priceCol)),
		})
	}

	return New(items), nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parsePrice accepts "3.99" and "$3.99"; anything else is 0
func parsePrice(s string) float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}
