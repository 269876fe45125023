// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAMLDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "id: paper-b\ntitle: Deep Residual Learning\nyear: 2015\n")
	writeFile(t, dir, "a.yml", "title: Attention Is All You Need\ndoi: 10.1/abc\nauthors:\n  - Vaswani\n  - Shazeer\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	records, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, types.Record{
		ID: "a", Title: "Attention Is All You Need", DOI: "10.1/abc",
		Authors: []string{"Vaswani", "Shazeer"},
	}, records[0], "missing id falls back to the file name")
	assert.Equal(t, "paper-b", records[1].ID)
	assert.Equal(t, 2015, records[1].Year)
}

func TestLoadYAMLDirBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "id: [unterminated\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "records.yaml", `
- id: x1
  title: One
- id: x2
  title: Two
  year: 2020
`)
	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "x2", records[1].ID)
	assert.Equal(t, 2020, records[1].Year)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "records.json", `[
		{"id": "id1", "title": "Attention Is All You Need", "year": 2017, "doi": "10.1/abc"},
		{"id": "id2", "title": "Attention is all you need.", "year": 2017, "authors": ["Vaswani"], "abstract": "extra fields are allowed"}
	]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "10.1/abc", records[0].DOI)
	assert.Equal(t, []string{"Vaswani"}, records[1].Authors)
}

func TestDecodeJSONValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"not an array", `{"id": "x"}`},
		{"missing id", `[{"title": "No ID"}]`},
		{"empty id", `[{"id": ""}]`},
		{"year as string", `[{"id": "x", "year": "2017"}]`},
		{"fractional year", `[{"id": "x", "year": 2017.5}]`},
		{"negative year", `[{"id": "x", "year": -1}]`},
		{"author not a string", `[{"id": "x", "authors": [1]}]`},
		{"trailing content", `[{"id": "x"}] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	records, err := DecodeJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadJSONL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "records.jsonl",
		`{"id": "a", "title": "First"}`+"\n\n"+`{"id": "b", "title": "Second", "year": 1999}`+"\n")

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, 1999, records[1].Year)

	bad := writeFile(t, t.TempDir(), "bad.jsonl", `{"id": "a"}`+"\n"+`{"title": "no id"}`+"\n")
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadParquetRoundTrip(t *testing.T) {
	want := []types.Record{
		{ID: "id1", Title: "Attention Is All You Need", Year: 2017, Venue: "NeurIPS", DOI: "10.1/abc", Authors: []string{"Vaswani", "Shazeer"}},
		{ID: "id3", Title: "Deep Residual Learning", Year: 2015},
	}
	for i := 0; i < 600; i++ {
		want = append(want, types.Record{ID: "bulk" + string(rune('a'+i%26)), Title: "Bulk", Authors: []string{"A", "B"}})
	}

	path := filepath.Join(t.TempDir(), "records.parquet")
	require.NoError(t, parquet.WriteFile(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	assert.Equal(t, want[0], got[0])
	assert.Equal(t, "id3", got[1].ID)
	assert.Equal(t, 2015, got[1].Year)
	assert.Empty(t, got[1].Venue)
	assert.Empty(t, got[1].Authors)
	assert.Equal(t, []string{"A", "B"}, got[len(got)-1].Authors)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, t.TempDir(), "records.csv", "id,title\n"))
	assert.ErrorContains(t, err, "unsupported corpus format")
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"id": "a"}]`)
	b := writeFile(t, dir, "b.jsonl", `{"id": "b"}`)

	records, err := LoadAll(a, b)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)

	_, err = LoadAll(a, filepath.Join(dir, "nope.json"))
	assert.ErrorContains(t, err, "nope.json")
}
