package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"namestat/internal/controller"
	"namestat/internal/model/naming"
	"namestat/internal/service/frequency"
	"namestat/internal/service/grammar"
	"namestat/internal/service/identifier"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapTagger map[string]string

func (m mapTagger) Tag(ctx context.Context, word string) (string, error) {
	if tag, ok := m[word]; ok {
		return tag, nil
	}
	return "", errors.New("unknown word")
}

func (m mapTagger) Name() string { return "map" }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tagger := mapTagger{"get": "VB", "set": "VB", "user": "NN", "name": "NN"}
	registry, err := identifier.NewDefaultRegistry("python")
	require.NoError(t, err)
	processor := controller.NewRepoProcessor(registry, grammar.NewTagProvider(tagger), nil, zap.NewNop())
	defaults := controller.ScanOptions{
		Category: naming.Verb,
		Kind:     naming.DeclarationName,
		TopSize:  200,
		Order:    frequency.OrderAscending,
		MaxFiles: -1,
	}
	rc := controller.NewRepoController(processor, tagger, defaults, zap.NewNop())
	return SetupRouter(rc, zap.NewNop())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestTag(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tag/Get", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"word":"get","tag":"VB"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tag/zzz", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.py"), []byte("def get_user():\n    pass\n\ndef set_name():\n    pass\n"), 0o644))
	router := newTestRouter(t)

	body := `{"paths":["` + filepath.ToSlash(dir) + `"],"words":"noun"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report naming.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "noun", report.Category)
	assert.Equal(t, []naming.FrequencyEntry{{Word: "user", Count: 1}, {Word: "name", Count: 1}}, report.Entries)
}

func TestReport_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	cases := map[string]string{
		"missing paths": `{}`,
		"bad category":  `{"paths":["."],"words":"adverb"}`,
		"missing dir":   `{"paths":["/definitely/not/here"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/report", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CustomRecoveryMiddleware(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
