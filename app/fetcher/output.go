package fetcher

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/elyase/dexmetadata/app/metadata"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DetectOutputFormat infers the output format from the file extension,
// defaulting to text.
func DetectOutputFormat(outputFile string) string {
	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

type flatPool struct {
	PoolAddress    string `json:"pool_address"`
	Token0Address  string `json:"token0_address"`
	Token0Name     string `json:"token0_name"`
	Token0Symbol   string `json:"token0_symbol"`
	Token0Decimals uint8  `json:"token0_decimals"`
	Token1Address  string `json:"token1_address"`
	Token1Name     string `json:"token1_name"`
	Token1Symbol   string `json:"token1_symbol"`
	Token1Decimals uint8  `json:"token1_decimals"`
}

func flatten(p *metadata.Pool) flatPool {
	return flatPool{
		PoolAddress:    p.Address,
		Token0Address:  p.Token0.Address,
		Token0Name:     p.Token0.Name,
		Token0Symbol:   p.Token0.Symbol,
		Token0Decimals: p.Token0.Decimals,
		Token1Address:  p.Token1.Address,
		Token1Name:     p.Token1.Name,
		Token1Symbol:   p.Token1.Symbol,
		Token1Decimals: p.Token1.Decimals,
	}
}

// WriteOutput renders pools in the requested format.
func WriteOutput(w io.Writer, pools []metadata.Pool, format string) error {
	switch format {
	case FormatJSON:
		flat := make([]flatPool, len(pools))
		for i := range pools {
			flat[i] = flatten(&pools[i])
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(flat); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatCSV:
		writer := csv.NewWriter(w)

		if err := writer.Write(metadata.FieldNames); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}

		for i := range pools {
			if err := writer.Write(pools[i].FieldValues()); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}

		writer.Flush()

		if err := writer.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
	case FormatText:
		for i := range pools {
			if _, err := fmt.Fprintf(w, "%s\n\n", pools[i].String()); err != nil {
				return fmt.Errorf("write text: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	return nil
}
