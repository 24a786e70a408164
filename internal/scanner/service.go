package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/MrSnakeDoc/abbrhelper/internal/document"
	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/metrics"
)

// Glossary is the read view the service scans against: the finder lookups
// plus a fingerprint of the glossary content. Processes sharing a report
// cache agree on the fingerprint whenever they hold the same rows.
type Glossary interface {
	Lookup
	Fingerprint() string
}

// ReportCache stores encoded results by digest. The redis store satisfies it.
type ReportCache interface {
	GetCachedReport(ctx context.Context, digest string) ([]byte, bool, error)
	CacheReport(ctx context.Context, digest string, payload []byte) error
}

// ScanHistory keeps short summaries of past scans.
type ScanHistory interface {
	PushScan(ctx context.Context, summary domain.ScanSummary) error
	RecentScans(ctx context.Context, limit int) ([]domain.ScanSummary, error)
}

// ServiceOptions holds the optional collaborators. Leave Cache and History
// nil (not a typed nil pointer) to disable them.
type ServiceOptions struct {
	Policy  DisablePolicy
	Cache   ReportCache
	History ScanHistory
	Metrics *metrics.Metrics
}

// Service runs the full scan flow: extract, classify, render, cache, record.
type Service struct {
	glossary Glossary
	finder   *Finder
	policy   DisablePolicy
	cache    ReportCache
	history  ScanHistory
	metrics  *metrics.Metrics
	log      logger.Logger
	now      func() time.Time
}

func NewService(g Glossary, log logger.Logger, opts ServiceOptions) *Service {
	return &Service{
		glossary: g,
		finder:   NewFinder(g),
		policy:   opts.Policy,
		cache:    opts.Cache,
		history:  opts.History,
		metrics:  opts.Metrics,
		log:      log,
		now:      time.Now,
	}
}

// Policy returns the disable policy applied to every scan.
func (s *Service) Policy() DisablePolicy { return s.policy }

// Scan is the outcome of one scan run.
type Scan struct {
	ID           string  `json:"scan_id"`
	File         string  `json:"file"`
	Format       string  `json:"format"`
	WordCount    int     `json:"word_count"`
	Result       *Result `json:"result"`
	Report       string  `json:"report"`
	ReportMarkup string  `json:"report_markup"`
	Cached       bool    `json:"cached"`
}

// ScanFile extracts and scans the file at path.
func (s *Service) ScanFile(ctx context.Context, path string, suppressed []int64) (*Scan, error) {
	start := s.now()
	doc, err := document.Extract(path)
	if err != nil {
		s.extractFailed(path, start, err)
		return nil, err
	}
	return s.ScanDocument(ctx, doc, suppressed)
}

// ScanBytes extracts and scans an in-memory file; name selects the format.
func (s *Service) ScanBytes(ctx context.Context, name string, raw []byte, suppressed []int64) (*Scan, error) {
	start := s.now()
	doc, err := document.ExtractBytes(name, raw)
	if err != nil {
		s.extractFailed(name, start, err)
		return nil, err
	}
	return s.ScanDocument(ctx, doc, suppressed)
}

// ScanText scans raw text.
func (s *Service) ScanText(ctx context.Context, text string, suppressed []int64) (*Scan, error) {
	return s.ScanDocument(ctx, document.FromText(text), suppressed)
}

// ScanDocument classifies an extracted document. Cache and history failures
// are logged and never fail the scan.
func (s *Service) ScanDocument(ctx context.Context, doc *document.Document, suppressed []int64) (*Scan, error) {
	start := s.now()
	opts := Options{SuppressedGroups: suppressed, Policy: s.policy}
	digest := s.digest(doc.Words, opts)

	scan := &Scan{
		ID:        ulid.Make().String(),
		File:      doc.Name,
		Format:    string(doc.Format),
		WordCount: len(doc.Words),
	}

	if res, report, ok := s.lookupCache(ctx, digest); ok {
		scan.Result = res
		scan.Report = report
		scan.Cached = true
	} else {
		scan.Result = s.finder.Classify(doc.Words, opts)
		scan.Report = Render(scan.Result)
		s.storeCache(ctx, digest, scan.Result, scan.Report)
	}
	scan.ReportMarkup = ToMarkup(scan.Report)

	status := "ok"
	if scan.Cached {
		status = "cached"
	}
	s.metrics.ObserveScan(scan.Format, status, s.now().Sub(start), scan.WordCount)
	s.metrics.ObserveFindings(len(scan.Result.Known), len(scan.Result.Unknown), len(scan.Result.Exceptions))

	s.record(ctx, scan, suppressed)

	s.log.Info("document scanned",
		logger.String("scan_id", scan.ID),
		logger.String("file", scan.File),
		logger.Int("words", scan.WordCount),
		logger.Int("known", len(scan.Result.Known)),
		logger.Int("unknown", len(scan.Result.Unknown)),
		logger.Int("exceptions", len(scan.Result.Exceptions)),
		logger.Bool("cached", scan.Cached))
	return scan, nil
}

// Recent returns the latest scan summaries, or an empty list without history.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.ScanSummary, error) {
	if s.history == nil {
		return []domain.ScanSummary{}, nil
	}
	return s.history.RecentScans(ctx, limit)
}

func (s *Service) extractFailed(name string, start time.Time, err error) {
	format := "unknown"
	if f, ferr := document.FormatOf(name); ferr == nil {
		format = string(f)
	}
	s.metrics.ObserveScan(format, "error", s.now().Sub(start), 0)
	s.log.Warn("document extraction failed", logger.String("file", name), logger.Error(err))
}

type cachedReport struct {
	Result *Result `json:"result"`
	Report string  `json:"report"`
}

func (s *Service) lookupCache(ctx context.Context, digest string) (*Result, string, bool) {
	if s.cache == nil {
		return nil, "", false
	}
	data, ok, err := s.cache.GetCachedReport(ctx, digest)
	if err != nil {
		s.metrics.CacheResult("error")
		s.log.Warn("report cache lookup failed", logger.Error(err))
		return nil, "", false
	}
	if !ok {
		s.metrics.CacheResult("miss")
		return nil, "", false
	}

	var cached cachedReport
	if err := json.Unmarshal(data, &cached); err != nil || cached.Result == nil {
		s.metrics.CacheResult("error")
		s.log.Warn("discarding undecodable cached report", logger.String("digest", digest))
		return nil, "", false
	}
	s.metrics.CacheResult("hit")
	return cached.Result, cached.Report, true
}

func (s *Service) storeCache(ctx context.Context, digest string, res *Result, report string) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(cachedReport{Result: res, Report: report})
	if err != nil {
		s.log.Warn("failed to encode report for cache", logger.Error(err))
		return
	}
	if err := s.cache.CacheReport(ctx, digest, data); err != nil {
		s.log.Warn("failed to cache report", logger.Error(err))
	}
}

func (s *Service) record(ctx context.Context, scan *Scan, suppressed []int64) {
	if s.history == nil {
		return
	}
	summary := domain.ScanSummary{
		ID:         scan.ID,
		File:       scan.File,
		Format:     scan.Format,
		Words:      scan.WordCount,
		Known:      len(scan.Result.Known),
		Unknown:    len(scan.Result.Unknown),
		Exceptions: len(scan.Result.Exceptions),
		Suppressed: suppressed,
		Cached:     scan.Cached,
		ScannedAt:  s.now().UTC(),
	}
	if err := s.history.PushScan(ctx, summary); err != nil {
		s.log.Warn("failed to record scan", logger.String("scan_id", scan.ID), logger.Error(err))
	}
}

// digest identifies a classification input: the words, the suppressed groups,
// the policy and the glossary fingerprint. Any glossary change yields a new
// digest, in this process or in any other process reading the same store.
func (s *Service) digest(words []string, opts Options) string {
	ids := append([]int64(nil), opts.SuppressedGroups...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := sha256.New()
	h.Write([]byte(strings.Join(words, "\x00")))
	h.Write([]byte{0x01})
	for _, id := range ids {
		h.Write([]byte(strconv.FormatInt(id, 10)))
		h.Write([]byte{','})
	}
	h.Write([]byte{0x01})
	h.Write([]byte(opts.Policy.String()))
	h.Write([]byte{0x01})
	h.Write([]byte(s.glossary.Fingerprint()))
	return hex.EncodeToString(h.Sum(nil))
}
