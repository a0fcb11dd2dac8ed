package transfer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tfbig "github.com/tokenflowlabs/tokenflow/internal/big"
	tfio "github.com/tokenflowlabs/tokenflow/internal/io"
)

// Column names of the persisted transfer CSV. The first five match the
// header names of an Etherscan account export; the remainder carry the
// token identity so the analyzer needs no external token registry.
const (
	columnTransactionHash = "Transaction Hash"
	columnDateTime        = "DateTime (UTC)"
	columnFrom            = "From"
	columnTo              = "To"
	columnAmount          = "Amount"
	columnToken           = "Token"
	columnContract        = "Contract Address"
	columnTokenDecimal    = "Token Decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// WriteCSV writes the given transfers as a CSV table with a header row.
// Amounts are written in human token units; the decimals column lets the
// reader re-expand them to base units.
func WriteCSV(writer io.Writer, transfers []Transfer) error {
	w := csv.NewWriter(writer)

	header := []string{
		columnTransactionHash,
		columnDateTime,
		columnToken,
		columnContract,
		columnFrom,
		columnTo,
		columnAmount,
		columnTokenDecimal,
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range transfers {
		xfr := &transfers[i]
		record := []string{
			xfr.TransactionHash,
			xfr.ExecutionTime.UTC().Format(timeLayout),
			xfr.TokenSymbol,
			xfr.ContractAddress,
			xfr.FromAddress,
			xfr.ToAddress,
			xfr.FormatAmount(),
			strconv.Itoa(xfr.TokenDecimals),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for transaction hash %q: %w", xfr.TransactionHash, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}

	return nil
}

// ReadCSV parses persisted transfer records from the given reader. Columns
// are located by header name, in no given order; a leading UTF-8 BOM is
// tolerated.
func ReadCSV(ctx context.Context, csvReader io.Reader) ([]Transfer, error) {
	r := csv.NewReader(tfio.StripUTF8BOM(csvReader))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read the first line of the CSV: %w", err)
	}

	// map header names (lowercased, trimmed) to indices
	hdrIdx := make(map[string]int)
	for i, h := range header {
		key := strings.TrimSpace(strings.ToLower(h))
		hdrIdx[key] = i
	}

	columnIndex := func(name string) (int, error) {
		idx, found := hdrIdx[strings.ToLower(name)]
		if !found {
			return 0, fmt.Errorf(
				"CSV is missing required column: %s from available columns: [%s]",
				name,
				strings.Join(header, ", "),
			)
		}

		return idx, nil
	}

	indices := make(map[string]int)
	for _, name := range []string{
		columnTransactionHash,
		columnDateTime,
		columnToken,
		columnContract,
		columnFrom,
		columnTo,
		columnAmount,
		columnTokenDecimal,
	} {
		idx, err := columnIndex(name)
		if err != nil {
			return nil, err
		}
		indices[name] = idx
	}

	var transfers []Transfer

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}

		// skip empty records
		if len(record) == 0 {
			slog.DebugContext(ctx, "Row has no values in it; skipping")

			continue
		}

		// protect against short records
		for _, idx := range indices {
			if idx >= len(record) {
				return nil, fmt.Errorf("malformed csv record: %v", record)
			}
		}

		field := func(name string) string {
			return strings.TrimSpace(record[indices[name]])
		}

		txHash := field(columnTransactionHash)

		decimalsString := field(columnTokenDecimal)
		decimals, err := strconv.Atoi(decimalsString)
		if err != nil {
			return nil, fmt.Errorf(
				"parse token decimals %q for transaction hash %q: %w",
				decimalsString,
				txHash,
				err,
			)
		}

		amountString := field(columnAmount)
		if amountString == "" {
			return nil, fmt.Errorf("transaction hash %q has empty amount field", txHash)
		}

		amount, err := tfbig.BigIntFromDecimalString(amountString, decimals)
		if err != nil {
			return nil, fmt.Errorf(
				"parse amount %q for transaction hash %q: %w",
				amountString,
				txHash,
				err,
			)
		}

		timeString := field(columnDateTime)
		executionTime, err := time.Parse(timeLayout, timeString)
		if err != nil {
			return nil, fmt.Errorf(
				"parse execution time %q for transaction hash %q: %w",
				timeString,
				txHash,
				err,
			)
		}

		transfers = append(transfers, Transfer{
			TokenSymbol:     field(columnToken),
			ContractAddress: field(columnContract),
			FromAddress:     field(columnFrom),
			ToAddress:       field(columnTo),
			Amount:          amount,
			TokenDecimals:   decimals,
			ExecutionTime:   executionTime,
			TransactionHash: txHash,
		})
	}

	return transfers, nil
}
