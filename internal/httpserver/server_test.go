package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/importer"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/metrics"
	"github.com/MrSnakeDoc/abbrhelper/internal/scanner"
	"github.com/MrSnakeDoc/abbrhelper/internal/store/memstore"
	"github.com/MrSnakeDoc/abbrhelper/internal/version"
)

type testServer struct {
	handler   http.Handler
	glossary  *glossary.Glossary
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.New("error", false)
	st := memstore.New()
	g := glossary.New(st, index.NewMemoryIndex(), log)
	require.NoError(t, g.LoadAll(context.Background()))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	reg.MustRegister(metrics.NewGlossaryCollector(g.Index()))

	upload := t.TempDir()
	d := deps.Deps{
		Logger:            log,
		StartTime:         time.Now(),
		Build:             version.Info{Version: "test"},
		TimeNow:           time.Now,
		Store:             st,
		Glossary:          g,
		Scanner:           scanner.NewService(g.Index(), log, scanner.ServiceOptions{Metrics: m}),
		Importer:          importer.New(g.Abbreviations, log, m),
		Registry:          reg,
		UploadDir:         upload,
		MaxUploadSize:     1 << 20,
		AllowedExtensions: []string{"txt", "docx", "pdf"},
		ScanRateBurst:     100,
		ScanRatePerMin:    100,
		ReloadTrigger:     make(chan struct{}, 1),
	}
	return &testServer{handler: NewRouter(5*time.Second, log, d), glossary: g, uploadDir: upload}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func (s *testServer) upload(t *testing.T, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, path, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAbbreviationEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/groups", `{"name":"hardware"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hw := decode[domain.Group](t, rec)

	rec = s.do(t, http.MethodPost, "/api/abbrs", `{"name":"CPU","description":"Central Processing Unit","groups":"hardware"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cpu := decode[domain.Abbreviation](t, rec)
	assert.Equal(t, []int64{hw.ID}, cpu.GroupIDs)

	// Duplicate returns the existing entity
	rec = s.do(t, http.MethodPost, "/api/abbrs", `{"name":"CPU","description":"Central Processing Unit"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	dup := decode[struct {
		Error    string              `json:"error"`
		Existing domain.Abbreviation `json:"existing"`
	}](t, rec)
	assert.Equal(t, cpu.ID, dup.Existing.ID)

	// Validation
	rec = s.do(t, http.MethodPost, "/api/abbrs", `{"name":"C","description":"Central"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/abbrs", `{"name":"GPU","description":"Graphics","groups":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Update: disable and drop groups
	rec = s.do(t, http.MethodPut, "/api/abbrs/"+itoa(cpu.ID), `{"disabled":true,"groups":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.Abbreviation](t, rec)
	assert.True(t, updated.Disabled)
	assert.Empty(t, updated.GroupIDs)
	assert.Equal(t, "Central Processing Unit", updated.Description)

	rec = s.do(t, http.MethodGet, "/api/abbrs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Abbreviation](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/db", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, itoa(cpu.ID)+";CPU;Central Processing Unit;;1\n", rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/abbrs/"+itoa(cpu.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/abbrs/"+itoa(cpu.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/abbrs/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGroupDeleteCascades(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	g, err := s.glossary.Groups.Create(ctx, "legacy", "", false)
	require.NoError(t, err)
	a, err := s.glossary.Abbreviations.Create(ctx, "FDD", "Floppy Disk Drive", "", false, []int64{g.ID})
	require.NoError(t, err)
	e, err := s.glossary.Exceptions.Create(ctx, "OK", "", false, []int64{g.ID})
	require.NoError(t, err)

	rec := s.do(t, http.MethodDelete, "/api/groups/"+itoa(g.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, ok := s.glossary.Abbreviations.Get(a.ID)
	require.True(t, ok)
	assert.Empty(t, got.GroupIDs)
	gotE, ok := s.glossary.Exceptions.Get(e.ID)
	require.True(t, ok)
	assert.Empty(t, gotE.GroupIDs)

	rec = s.do(t, http.MethodGet, "/api/groups", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestExceptionEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/exceptions", `{"name":"OK","comment":"interjection"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ok := decode[domain.Exception](t, rec)

	rec = s.do(t, http.MethodPost, "/api/exceptions", `{"name":"OK"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/exceptions/"+itoa(ok.ID), `{"disabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Exception](t, rec).Disabled)

	rec = s.do(t, http.MethodPut, "/api/exceptions/"+itoa(ok.ID), `{"unknown_field":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanUpload(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	hw, err := s.glossary.Groups.Create(ctx, "hardware", "", false)
	require.NoError(t, err)
	_, err = s.glossary.Abbreviations.Create(ctx, "CPU", "Central Processing Unit", "", false, []int64{hw.ID})
	require.NoError(t, err)
	_, err = s.glossary.Exceptions.Create(ctx, "OK", "", false, nil)
	require.NoError(t, err)

	rec := s.upload(t, "/api/scan", "notes.txt", "The CPU and the GPU are OK.", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[struct {
		ScanID     string                `json:"scan_id"`
		File       string                `json:"file"`
		WordCount  int                   `json:"word_count"`
		Known      []domain.Abbreviation `json:"known"`
		Unknown    []string              `json:"unknown"`
		Exceptions []domain.Exception    `json:"exceptions"`
		Report     string                `json:"report"`
		Markup     string                `json:"report_markup"`
	}](t, rec)
	assert.NotEmpty(t, resp.ScanID)
	assert.Equal(t, "notes.txt", resp.File)
	assert.Equal(t, 7, resp.WordCount)
	require.Len(t, resp.Known, 1)
	assert.Equal(t, "CPU", resp.Known[0].Name)
	assert.Equal(t, []string{"GPU"}, resp.Unknown)
	require.Len(t, resp.Exceptions, 1)
	assert.Contains(t, resp.Report, "KNOWN ABBREVIATIONS (1):")
	assert.Contains(t, resp.Markup, "<br>")

	// Suppressing the group hides CPU for this call only
	rec = s.upload(t, "/api/scan", "notes.txt", "The CPU", map[string]string{"suppress": "hardware"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unknown":["CPU"]`)

	rec = s.upload(t, "/api/scan", "notes.txt", "The CPU", map[string]string{"suppress": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(t, "/api/scan", "image.png", "binary", nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	// A corrupt document is the client's fault, and the reason is shown
	rec = s.upload(t, "/api/scan", "report.docx", "not a zip", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "report.docx")
	assert.Contains(t, rec.Body.String(), domain.ErrUnreadableDocument.Error())

	// Staged uploads are removed after the scan
	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScanText(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/scan/text", `{"text":"RAM and ROM"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"unknown":["RAM","ROM"]`)

	rec = s.do(t, http.MethodGet, "/api/scans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/scan/text", `{"text":"`+strings.Repeat("A", 1<<20)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/scan/text", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportUpload(t *testing.T) {
	s := newTestServer(t)

	content := "# glossary\nCPU;Central Processing Unit\nPC;Personal Computer;Program Counter\nbroken line\n"
	rec := s.upload(t, "/api/import", "glossary.txt", content, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sum := decode[importer.Summary](t, rec)
	assert.Equal(t, 3, sum.Created)
	assert.Equal(t, 0, sum.Duplicates)
	assert.Equal(t, 1, sum.SkippedLines)
	assert.Len(t, s.glossary.Abbreviations.ByName("PC"), 2)
}

func TestOpsEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
	assert.Contains(t, rec.Body.String(), `"glossary_revision"`)
	assert.Contains(t, rec.Body.String(), `"glossary_fingerprint"`)

	rec = s.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"disabled"`)

	rec = s.do(t, http.MethodGet, "/infra", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"optimal"`)

	rec = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "abbrhelper_glossary_entries")

	rec = s.do(t, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	rec = s.do(t, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
