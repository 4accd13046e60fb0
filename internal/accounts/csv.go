package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/vaultbook/vaultbook/internal/model"
)

const (
	numFields  = 5
	colID      = 0
	colName    = 1
	colType    = 2
	colOpening = 3
	colDesc    = 4
)

// ReadChart reads a chart-of-accounts CSV.
func ReadChart(r io.Reader) ([]ChartAccount, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var chart []ChartAccount
	for i, rec := range records[1:] {
		acct, err := UnmarshalChartAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		chart = append(chart, acct)
	}
	return chart, nil
}

// WriteChart writes a chart-of-accounts CSV.
func WriteChart(w io.Writer, chart []ChartAccount) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "account_name", "account_type", "opening_balance", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range chart {
		if err := cw.Write(MarshalChartAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalChartAccount converts a ChartAccount to a CSV row.
func MarshalChartAccount(acct ChartAccount) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	if !acct.OpeningBalance.IsZero() {
		row[colOpening] = acct.OpeningBalance.StringFixed(2)
	}
	row[colDesc] = acct.Description
	return row
}

// UnmarshalChartAccount converts a CSV row to a ChartAccount.
func UnmarshalChartAccount(record []string) (ChartAccount, error) {
	if len(record) != numFields {
		return ChartAccount{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return ChartAccount{}, fmt.Errorf("account_id is required")
	}

	typ, err := model.ParseAccountType(record[colType])
	if err != nil {
		return ChartAccount{}, fmt.Errorf("parsing account_type for %s: %w", record[colID], err)
	}

	opening := decimal.Zero
	if record[colOpening] != "" {
		opening, err = decimal.NewFromString(record[colOpening])
		if err != nil {
			return ChartAccount{}, fmt.Errorf("parsing opening_balance %q: %w", record[colOpening], err)
		}
	}

	return ChartAccount{
		ID:             record[colID],
		Name:           record[colName],
		Type:           typ,
		OpeningBalance: opening,
		Description:    record[colDesc],
	}, nil
}
