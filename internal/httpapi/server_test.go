// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgegian2018/research-library-engine/internal/library"
	"github.com/georgegian2018/research-library-engine/pkg/types"
)

type fakeSource struct {
	records  map[string][]types.Record
	err      error
	projects []string
}

func (f *fakeSource) ListRecords(_ context.Context, opts library.ListOptions) ([]types.Record, error) {
	f.projects = append(f.projects, opts.Project)
	if f.err != nil {
		return nil, f.err
	}
	records, ok := f.records[opts.Project]
	if !ok {
		return nil, library.ErrProjectNotFound
	}
	return records, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{records: map[string][]types.Record{
		"": {
			{ID: "id1", Title: "Attention Is All You Need", Year: 2017, DOI: "10.1/abc"},
			{ID: "id2", Title: "Attention is all you need.", Year: 2017, DOI: "10.1/abc"},
			{ID: "id3", Title: "Deep Residual Learning", Year: 2015},
			{ID: "id4", Title: "Deep Residual Learning for Image Recognition", Year: 2015},
		},
		"resnet": {
			{ID: "id3", Title: "Deep Residual Learning", Year: 2015},
			{ID: "id4", Title: "Deep Residual Learning for Image Recognition", Year: 2015},
		},
	}}
}

type reportEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		RunID     string            `json:"run_id"`
		Threshold float64           `json:"threshold"`
		Rows      []types.ReportRow `json:"rows"`
		Groups    []struct {
			PaperIDs []string `json:"paper_ids"`
		} `json:"groups"`
		ValidationErrors map[string]string `json:"validation_errors"`
	} `json:"data"`
}

func serve(t *testing.T, source RecordSource, target string) (*httptest.ResponseRecorder, reportEnvelope) {
	t.Helper()
	srv := NewServer(source, types.DefaultDedupConfig(), zerolog.Nop(), Options{})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var env reportEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealth(t *testing.T) {
	srv := NewServer(newFakeSource(), types.DefaultDedupConfig(), zerolog.Nop(), Options{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReportDefaultThreshold(t *testing.T) {
	rec, env := serve(t, newFakeSource(), "/dedup/report")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, 0.85, env.Data.Threshold)
	assert.Empty(t, env.Data.RunID, "run metadata is opt-in")
	require.Len(t, env.Data.Rows, 1)
	assert.Equal(t, "id1", env.Data.Rows[0].Paper1ID)
	assert.Equal(t, "id2", env.Data.Rows[0].Paper2ID)
	assert.Equal(t, 1.0, env.Data.Rows[0].Score)
	assert.True(t, env.Data.Rows[0].DOIMatch)
	assert.Empty(t, env.Data.Groups)
}

func TestReportQueryParameters(t *testing.T) {
	source := newFakeSource()

	_, env := serve(t, source, "/dedup/report?threshold=0.5&groups=true")
	assert.Equal(t, "success", env.Status)
	assert.Len(t, env.Data.Rows, 2)
	assert.Len(t, env.Data.Groups, 2)

	_, env = serve(t, source, "/dedup/report?threshold=0.5&exclude_doi=true")
	require.Len(t, env.Data.Rows, 1)
	assert.Equal(t, "id3", env.Data.Rows[0].Paper1ID)

	_, env = serve(t, source, "/dedup/report?threshold=0.5&project=resnet")
	require.Len(t, env.Data.Rows, 1)
	assert.Equal(t, "id4", env.Data.Rows[0].Paper2ID)
	assert.Equal(t, "resnet", source.projects[len(source.projects)-1])

	_, env = serve(t, source, "/dedup/report?threshold=0.95")
	assert.Len(t, env.Data.Rows, 1)
}

func TestReportRunMetadata(t *testing.T) {
	srv := NewServer(newFakeSource(), types.DefaultDedupConfig(), zerolog.Nop(), Options{})
	body := func(target string) string {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	first := body("/dedup/report")
	assert.Equal(t, first, body("/dedup/report"), "identical requests give identical bodies")
	assert.NotContains(t, first, "run_id")
	assert.NotContains(t, first, "elapsed_ns")

	_, env := serve(t, newFakeSource(), "/dedup/report?run_metadata=true")
	assert.NotEmpty(t, env.Data.RunID)
}

func TestReportEmptyRowsIsArray(t *testing.T) {
	source := &fakeSource{records: map[string][]types.Record{"": nil}}
	srv := NewServer(source, types.DefaultDedupConfig(), zerolog.Nop(), Options{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dedup/report", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
}

func TestReportValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"threshold above one", "threshold=1.5", "threshold"},
		{"threshold below zero", "threshold=-0.1", "threshold"},
		{"threshold not a number", "threshold=high", "threshold"},
		{"threshold NaN", "threshold=NaN", "threshold"},
		{"groups not a bool", "groups=maybe", "groups"},
		{"exclude_doi not a bool", "exclude_doi=2", "exclude_doi"},
		{"run_metadata not a bool", "run_metadata=often", "run_metadata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			rec, env := serve(t, source, "/dedup/report?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "fail", env.Status)
			assert.Contains(t, env.Data.ValidationErrors, tt.field)
			assert.Empty(t, env.Data.Rows)
			assert.Empty(t, source.projects, "no records are read for an invalid request")
		})
	}
}

func TestReportUnknownProject(t *testing.T) {
	rec, env := serve(t, newFakeSource(), "/dedup/report?project=missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", env.Status)
	assert.Contains(t, env.Message, "missing")
}

func TestReportSourceError(t *testing.T) {
	rec, env := serve(t, &fakeSource{err: errors.New("disk on fire")}, "/dedup/report")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestUnknownRoute(t *testing.T) {
	rec, env := serve(t, newFakeSource(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", env.Status)
}
