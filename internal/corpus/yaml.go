// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// LoadYAMLDir reads every *.yaml and *.yml file in dir, one record per
// file, in file name order. A record without an id takes the file name
// stem as its ID.
func LoadYAMLDir(dir string) ([]types.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory %s: %w", dir, err)
	}

	records := []types.Record{}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var r types.Record
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if r.ID == "" {
			r.ID = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}
		records = append(records, r)
	}
	return records, nil
}

// LoadYAMLFile reads a YAML sequence of records from path.
func LoadYAMLFile(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records := []types.Record{}
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
