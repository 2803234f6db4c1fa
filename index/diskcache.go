package index

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source fetches the raw upstream response for an index, e.g. an HTTP
// client hitting a monetary authority's published-rates API. Decoupling the
// transport from DiskCacheBackend keeps the cache-file contract independent
// of any one upstream's wire format.
type Source interface {
	Fetch(code Code, begin, end time.Time) ([]byte, error)
}

// HTTPSource is a Source backed by an injected *http.Client and a caller
// supplied URL builder, so no upstream host is hardcoded into the module.
type HTTPSource struct {
	Client  *http.Client
	BuildURL func(code Code, begin, end time.Time) string
}

func (s *HTTPSource) Fetch(code Code, begin, end time.Time) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequest(http.MethodGet, s.BuildURL(code, begin, end), nil)
	if err != nil {
		return nil, fmt.Errorf("index: building request for %s: %w", code, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index: fetching %s: %w", code, err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// DiskCacheBackend is a disk-cached Backend: it fetches from Source at
// most once per (index, calendar day) and serves subsequent same-day
// requests from a JSON file on disk.
type DiskCacheBackend struct {
	CacheDir string
	Source   Source
	Now      func() time.Time // overridable for tests; defaults to time.Now

	memo *InMemoryBackend // not used: every request re-reads and re-parses the cache file
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

func (b *DiskCacheBackend) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *DiskCacheBackend) cachePath(code Code) string {
	today := b.now().Format("20060102")
	return filepath.Join(b.CacheDir, fmt.Sprintf("backend_%s_%s.json", slugify(string(code)), today))
}

// rawRow is the shape persisted to the cache file: a flat array of
// {date or month, value} records, the upstream's typical response shape.
type rawRow struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// load reads today's cache file if present, otherwise fetches from Source
// and writes the raw response before parsing it.
func (b *DiskCacheBackend) load(code Code, begin, end time.Time) ([]rawRow, error) {
	path := b.cachePath(code)
	requestID := uuid.New().String()

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("index: reading cache %s: %w", path, err)
		}
		log.Printf("index[%s]: cache miss for %s, fetching", requestID, code)
		raw, err = b.Source.Fetch(code, begin, end)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(b.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("index: creating cache dir: %w", err)
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return nil, fmt.Errorf("index: writing cache %s: %w", path, err)
		}
	} else {
		log.Printf("index[%s]: cache hit for %s at %s", requestID, code, path)
	}

	var rows []rawRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		msg := string(raw)
		if len(msg) > 256 {
			msg = msg[:256]
		}
		return nil, newBackendError(ErrUpstream, code, "non-JSON response from upstream: %s", msg)
	}
	return rows, nil
}

func (b *DiskCacheBackend) toInMemory(code Code, rows []rawRow, monthly bool) *InMemoryBackend {
	daily := map[string]decimal.Decimal{}
	monthlyTable := map[Code]map[string]decimal.Decimal{code: {}}
	for _, r := range rows {
		if monthly {
			monthlyTable[code][r.Date[:7]] = r.Value
		} else {
			daily[r.Date] = r.Value
		}
	}
	return NewInMemoryBackend(daily, monthlyTable, nil)
}

func (b *DiskCacheBackend) GetDailyIndexes(code Code, begin, end time.Time) ([]DailyIndex, error) {
	rows, err := b.load(code, begin, end)
	if err != nil {
		return nil, err
	}
	return b.toInMemory(code, rows, false).GetDailyIndexes(code, begin, end)
}

func (b *DiskCacheBackend) GetMonthlyIndexes(code Code, begin, end time.Time) ([]MonthlyIndex, error) {
	rows, err := b.load(code, begin, end)
	if err != nil {
		return nil, err
	}
	return b.toInMemory(code, rows, true).GetMonthlyIndexes(code, begin, end)
}

func (b *DiskCacheBackend) GetSavingsIndexes(begin, end time.Time) ([]RangedIndex, error) {
	rows, err := b.load(Poupanca, begin, end)
	if err != nil {
		return nil, err
	}
	savings := map[string]decimal.Decimal{}
	for _, r := range rows {
		savings[r.Date[:7]] = r.Value
	}
	return NewInMemoryBackend(nil, nil, savings).GetSavingsIndexes(begin, end)
}
