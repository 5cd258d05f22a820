// Package dataset reads point data for the kmeans command.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrInvalidRange is returned for a column range that is negative or
// reversed.
var ErrInvalidRange = errors.New("invalid column range")

// Import reads columns start..end (inclusive) of the CSV file at path into a
// flat, row-major slice. It returns the data and its dimension.
func Import(path string, start, end int) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return Read(f, start, end)
}

// Read is Import for an arbitrary reader. Rows whose selected fields are not
// all numeric, such as a header, are skipped.
func Read(r io.Reader, start, end int) ([]float64, int, error) {
	if start < 0 || end < 0 || start > end {
		return nil, 0, fmt.Errorf("%w: %d:%d", ErrInvalidRange, start, end)
	}

	var (
		dim  = end - start + 1
		data = make([]float64, 0, 64*dim)
		cr   = csv.NewReader(bufio.NewReader(r))
		row  = make([]float64, dim)
	)
	cr.FieldsPerRecord = -1

Records:
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, fmt.Errorf("dataset: %w", err)
		}
		if len(record) <= end {
			return nil, 0, fmt.Errorf("dataset: %w: record has %d fields, need %d", ErrInvalidRange, len(record), end+1)
		}

		for j := start; j <= end; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue Records
			}
			row[j-start] = v
		}
		data = append(data, row...)
	}

	return data, dim, nil
}
