// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

const parquetBatchSize = 256

// LoadParquet reads records from a Parquet file whose columns follow the
// Record parquet tags (id, title, year, venue, doi, authors).
func LoadParquet(path string) ([]types.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}

	reader := parquet.NewGenericReader[types.Record](pf)
	defer reader.Close()

	records := make([]types.Record, 0, pf.NumRows())
	for {
		// A fresh batch each time: the reader may reuse slice fields of
		// the rows it decodes into.
		batch := make([]types.Record, parquetBatchSize)
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}
