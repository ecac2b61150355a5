package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/effectchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *effectchain.Chain) {
	t.Helper()

	chain, err := effectchain.DefaultPreset().Build(effectchain.DefaultRegistry())
	require.NoError(t, err)

	return New(chain, nil), chain
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return rec
}

func TestGetStages(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var stages []effectchain.StageInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	require.Len(t, stages, 7)
	assert.Equal(t, "denoise", stages[0].ID)
	assert.True(t, stages[0].Bypass)
}

func TestGetStage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/stages/comp", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info effectchain.StageInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "fet", info.Type)
	assert.Equal(t, "clean-4", info.Params["ratioMode"])
	assert.InDelta(t, -18, info.Params["thresholdDB"], 0)

	rec = do(t, s, http.MethodGet, "/stages/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetParam(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"number", "/stages/comp/params/thresholdDB", "-30", http.StatusOK},
		{"number with whitespace", "/stages/eq/params/lowGainDB", " 3.5\n", http.StatusOK},
		{"bare name", "/stages/comp/params/ratioMode", "clean-12", http.StatusOK},
		{"json string", "/stages/tube/params/polynomial", `"octave"`, http.StatusOK},
		{"unknown stage", "/stages/nope/params/drive", "1", http.StatusNotFound},
		{"unknown param", "/stages/comp/params/ratio", "4", http.StatusNotFound},
		{"bad name", "/stages/comp/params/ratioMode", "clean-3", http.StatusBadRequest},
		{"non-finite", "/stages/xfmr/params/drive", "NaN", http.StatusBadRequest},
		{"empty body", "/stages/xfmr/params/drive", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)

			rec := do(t, s, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestSetParamUpdatesChain(t *testing.T) {
	s, chain := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/stages/comp/params/thresholdDB", "-30")
	require.Equal(t, http.StatusOK, rec.Code)

	var info effectchain.StageInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.InDelta(t, -30, info.Params["thresholdDB"], 0)

	got, err := chain.StageInfo("comp")
	require.NoError(t, err)
	assert.Equal(t, -30.0, got.Params["thresholdDB"])

	do(t, s, http.MethodPut, "/stages/comp/params/ratioMode", "blown-all")
	got, _ = chain.StageInfo("comp")
	assert.Equal(t, "blown-all", got.Params["ratioMode"])
}

func TestSetBypass(t *testing.T) {
	s, chain := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/stages/exciter/bypass", "true")
	require.Equal(t, http.StatusOK, rec.Code)

	stage, ok := chain.Stage("exciter")
	require.True(t, ok)
	assert.True(t, stage.Bypassed())

	rec = do(t, s, http.MethodPut, "/stages/exciter/bypass", "maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/stages/nope/bypass", "false")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeters(t *testing.T) {
	s, chain := newTestServer(t)

	src := make([]float32, 256)
	for i := range src {
		src[i] = 0.5
	}

	chain.ProcessBlock(src, src)

	rec := do(t, s, http.MethodGet, "/meters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var m effectchain.Meters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.InDelta(t, -6.02, m.InputPeakDB, 0.01)
	assert.Contains(t, m.GainReduction, "comp")
	assert.Contains(t, m.GainReduction, "leveler")
}

func TestPresetAndHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/preset?name=live", "")
	require.Equal(t, http.StatusOK, rec.Code)

	p, err := effectchain.LoadPreset(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "live", p.Name)
	assert.Len(t, p.Stages, 7)

	rec = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/stages", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
