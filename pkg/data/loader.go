package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls how a delimited file is read.
type LoadOptions struct {
	// Delimiter between fields; 0 means ','.
	Delimiter rune
	// Required lists columns that must be present in the header.
	Required []string
}

// IsMissingCell reports whether a raw cell counts as missing.
func IsMissingCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

// LoadCSV reads a delimited file with a header row into a Table. Column
// kinds are inferred: a column is numeric when every non-missing cell
// parses as a float, categorical otherwise.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, ErrFileNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadTable(bufio.NewReader(file), filepath.Base(path), opt)
}

// ReadTable reads a delimited stream with a header row into a Table.
func ReadTable(r io.Reader, name string, opt LoadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		reader.Comma = opt.Delimiter
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w: no header row", ErrInvalidInput)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	raw := make([][]string, len(header))
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ErrFieldCount and parse errors are fatal: a short row
			// would shift every following column.
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for j, s := range rec {
			raw[j] = append(raw[j], strings.TrimSpace(s))
		}
	}

	t := &Table{Name: name, index: make(map[string]int, len(header))}
	for j, h := range header {
		if err := t.Append(inferColumn(h, raw[j])); err != nil {
			return nil, err
		}
	}
	for _, req := range opt.Required {
		if !t.Has(req) {
			return nil, columnErr("load", req, ErrSchemaMismatch)
		}
	}
	return t, nil
}

func inferColumn(name string, cells []string) *Column {
	nums := make([]float64, len(cells))
	numeric := true
	for i, s := range cells {
		if IsMissingCell(s) {
			nums[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = v
	}
	if numeric {
		return NewNumeric(name, nums)
	}
	cats := make([]string, len(cells))
	for i, s := range cells {
		if !IsMissingCell(s) {
			cats[i] = s
		}
	}
	return NewCategorical(name, cats)
}
