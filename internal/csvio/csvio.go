// Package csvio handles CSV file input and output. Input rows keep their
// original headers so the normalizer can resolve the bank's column naming;
// output uses gocsv struct marshalling for the categorized export.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"
	"fjacquet/cashflow-csv/internal/normalizer"

	"github.com/gocarina/gocsv"
)

// ReadRows reads a CSV file into header-keyed rows. The first record is the
// header; short rows are padded, long rows truncated to the header width.
// Headers are arbitrary here on purpose: gocsv's struct mapping would force
// a fixed schema, and bank exports do not have one.
func ReadRows(path string, logger logging.Logger) ([]normalizer.RawRow, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.WithField(logging.FieldInputFile, path).Info("Reading CSV file")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return readRows(file)
}

func readRows(r io.Reader) ([]normalizer.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []normalizer.RawRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	var rows []normalizer.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}

		row := make(normalizer.RawRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteTransactions writes categorized transactions to a CSV file using the
// csv tags on the model.
func WriteTransactions(path string, txs []models.CategorizedTransaction, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := gocsv.MarshalFile(&txs, file); err != nil {
		return fmt.Errorf("error writing CSV file: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Info("Wrote categorized CSV")
	return nil
}
