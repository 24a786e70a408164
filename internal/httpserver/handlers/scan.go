package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/scanner"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before the rest spills to temporary files.
const multipartMemory = 32 << 20

type scanResponse struct {
	ScanID       string                 `json:"scan_id"`
	File         string                 `json:"file"`
	Format       string                 `json:"format"`
	WordCount    int                    `json:"word_count"`
	Known        []*domain.Abbreviation `json:"known"`
	Unknown      []string               `json:"unknown"`
	Exceptions   []*domain.Exception    `json:"exceptions"`
	Report       string                 `json:"report"`
	ReportMarkup string                 `json:"report_markup"`
	Cached       bool                   `json:"cached"`
}

func newScanResponse(s *scanner.Scan) scanResponse {
	return scanResponse{
		ScanID:       s.ID,
		File:         s.File,
		Format:       s.Format,
		WordCount:    s.WordCount,
		Known:        s.Result.Known,
		Unknown:      s.Result.Unknown,
		Exceptions:   s.Result.Exceptions,
		Report:       s.Report,
		ReportMarkup: s.ReportMarkup,
		Cached:       s.Cached,
	}
}

type scanTextRequest struct {
	Text     string   `json:"text"`
	Suppress []string `json:"suppress"`
}

// suppressedGroups resolves group names or ids to suppress for one scan.
func suppressedGroups(g *glossary.Glossary, refs []string) ([]int64, error) {
	ids, err := g.Groups.Resolve(refs)
	if err != nil {
		return nil, fmt.Errorf("suppress: %v: %w", err, domain.ErrInvalidInput)
	}
	return ids, nil
}

// Scan accepts a multipart upload (field "file", optional "suppress") and
// returns the classification and the rendered report.
func Scan(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := uploadedFile(w, r, d)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		defer func() { _ = file.Close() }()

		suppressed, err := suppressedGroups(d.Glossary, glossary.SplitNames(r.FormValue("suppress")))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		path, cleanup, err := stageUpload(d.UploadDir, header.Filename, file)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		defer cleanup()

		scan, err := d.Scanner.ScanFile(r.Context(), path, suppressed)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newScanResponse(scan))
	}
}

// ScanText classifies raw text sent as JSON.
func ScanText(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadSize)
		var req scanTextRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		suppressed, err := suppressedGroups(d.Glossary, req.Suppress)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		scan, err := d.Scanner.ScanText(r.Context(), req.Text, suppressed)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newScanResponse(scan))
	}
}

// Import applies a semicolon-separated glossary file (field "file").
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := uploadedFile(w, r, d)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		defer func() { _ = file.Close() }()

		raw, err := io.ReadAll(file)
		if err != nil {
			writeError(w, d.Logger, fmt.Errorf("read upload: %w", err))
			return
		}
		sum, err := d.Importer.ImportBytes(r.Context(), raw)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		d.Logger.Info("glossary imported",
			logger.String("file", header.Filename),
			logger.Int("created", sum.Created),
			logger.Int("duplicates", sum.Duplicates),
			logger.Int("invalid", sum.Invalid))
		writeJSON(w, http.StatusOK, sum)
	}
}

// RecentScans lists the latest scan summaries (?limit=N, default 20).
func RecentScans(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, d.Logger, fmt.Errorf("invalid limit %q: %w", raw, domain.ErrInvalidInput))
				return
			}
			limit = n
		}
		scans, err := d.Scanner.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, scans)
	}
}

// uploadedFile parses the multipart body and returns the "file" part after
// checking its extension against the allow-list.
func uploadedFile(w http.ResponseWriter, r *http.Request, d deps.Deps) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("invalid multipart body: %v: %w", err, domain.ErrInvalidInput)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing file field: %w", domain.ErrInvalidInput)
	}
	if !allowedExtension(header.Filename, d.AllowedExtensions) {
		_ = file.Close()
		return nil, nil, fmt.Errorf("%s: %w", header.Filename, domain.ErrUnsupportedFormat)
	}
	return file, header, nil
}

func allowedExtension(name string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && slices.Contains(allowed, ext)
}

// stageUpload copies an upload into its own directory under dir, keeping the
// original base name so reports and history show it. cleanup removes the
// directory; the upload garbage collector catches what a crash leaves behind.
func stageUpload(dir, filename string, src io.Reader) (string, func(), error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", nil, fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.MkdirTemp(dir, "upload-*")
	if err != nil {
		return "", nil, fmt.Errorf("create upload dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmp) }

	path := filepath.Join(tmp, filepath.Base(filepath.Clean("/"+filename)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	return path, cleanup, nil
}
