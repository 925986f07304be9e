// Package export writes a person's statement to CSV for use outside the
// application (spreadsheets, accounting tools).
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"fiado/internal/ledger"
	"fiado/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// Row is one CSV line of an exported statement.
type Row struct {
	Person      string `csv:"pessoa"`
	Kind        string `csv:"tipo"`
	Date        string `csv:"data"`
	Amount      string `csv:"valor"`
	Description string `csv:"descricao"`
}

// Rows flattens a statement into CSV rows: loans first, then payments, each
// group in statement order.
func Rows(st ledger.Statement) []Row {
	rows := make([]Row, 0, len(st.Loans)+len(st.Payments))
	for _, tx := range st.Loans {
		rows = append(rows, row(st.Person, tx))
	}
	for _, tx := range st.Payments {
		rows = append(rows, row(st.Person, tx))
	}
	return rows
}

func row(person models.Person, tx models.Transaction) Row {
	return Row{
		Person:      person.Name,
		Kind:        string(tx.Kind),
		Date:        tx.Date,
		Amount:      tx.Amount.StringFixed(2),
		Description: tx.Description,
	}
}

// WriteStatementToCSV writes the statement to a CSV file, creating parent
// directories as needed. An empty statement still produces the header line.
func WriteStatementToCSV(st ledger.Statement, csvFile string) error {
	log.WithFields(logrus.Fields{
		"person": st.Person.Name,
		"file":   csvFile,
	}).Info("Writing statement to CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := Rows(st)
	csvWriter := csv.NewWriter(file)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal statement to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(rows),
	}).Info("Successfully wrote statement to CSV file")
	return nil
}
