// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads record snapshots from files: a directory of YAML
// metadata files, a JSON or JSON Lines record file, or a Parquet dataset.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// Load reads records from path, choosing the format from the path itself:
// directories hold one YAML record per file, and files are read by
// extension (.json, .jsonl, .yaml/.yml, .parquet).
func Load(path string) ([]types.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	if info.IsDir() {
		return LoadYAMLDir(path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return LoadJSON(path)
	case ".jsonl":
		return LoadJSONL(path)
	case ".yaml", ".yml":
		return LoadYAMLFile(path)
	case ".parquet":
		return LoadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q (supported: directory, .json, .jsonl, .yaml, .parquet)", ext)
	}
}

// LoadAll loads every path in order and concatenates the records.
func LoadAll(paths ...string) ([]types.Record, error) {
	var all []types.Record
	for _, p := range paths {
		records, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		all = append(all, records...)
	}
	return all, nil
}
