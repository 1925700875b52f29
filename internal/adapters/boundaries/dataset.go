package boundaries

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/coverage-area/internal/pkg/metrics"
)

// Dataset is one ISO 3166 boundary GeoJSON file.
type Dataset struct {
	Name string
	// Property holds the region code of each feature.
	Property string
}

// Boundary datasets for country and subdivision codes.
var (
	Countries    = Dataset{Name: "iso3166-1-boundaries", Property: "ISO3166-1"}
	Subdivisions = Dataset{Name: "iso3166-2-boundaries", Property: "ISO3166-2"}
)

// File is the unpacked GeoJSON file name.
func (d Dataset) File() string {
	return d.Name + ".geojson"
}

// Archive is the versioned archive name.
func (d Dataset) Archive(version string) string {
	return d.File() + "-" + version + ".zip"
}

// Config locates the boundary archives.
type Config struct {
	CacheDir string
	BaseURL  string
	Version  string
	Timeout  time.Duration
}

// Downloader fetches and unpacks boundary archives into the cache
// directory, at most once per dataset.
type Downloader struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger

	mu   sync.Mutex
	done map[string]bool
}

// NewDownloader creates a Downloader.
func NewDownloader(cfg Config) *Downloader {
	if cfg.CacheDir == "" {
		cfg.CacheDir = "."
	}
	return &Downloader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    slog.Default(),
		done:   make(map[string]bool),
	}
}

// Path returns the location of the unpacked dataset.
func (d *Downloader) Path(ds Dataset) string {
	return filepath.Join(d.cfg.CacheDir, ds.File())
}

// Ensure downloads and unpacks the archive of ds unless it is already
// cached. Transport failures and error statuses are logged and leave the
// cache absent; only local I/O failures are returned.
func (d *Downloader) Ensure(ctx context.Context, ds Dataset) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done[ds.Name] {
		return nil
	}
	d.done[ds.Name] = true

	archive := filepath.Join(d.cfg.CacheDir, ds.Archive(d.cfg.Version))
	if _, err := os.Stat(archive); err == nil {
		return nil
	}

	url := strings.TrimSuffix(d.cfg.BaseURL, "/") + "/" + ds.Archive(d.cfg.Version)
	d.log.Info("downloading boundaries", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		d.log.Warn("boundary download failed", "url", url, "error", err)
		metrics.BoundaryDownloads.WithLabelValues(ds.Name, "error").Inc()
		return nil
	}
	defer resp.Body.Close()

	metrics.BoundaryDownloads.WithLabelValues(ds.Name, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode >= 400 {
		d.log.Warn("boundary download failed", "url", url, "status", resp.StatusCode)
		return nil
	}

	if err := os.MkdirAll(d.cfg.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := writeFile(archive, resp.Body); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	if err := unzip(archive, d.cfg.CacheDir); err != nil {
		return fmt.Errorf("unpack %s: %w", archive, err)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func unzip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("entry %q escapes %s", f.Name, dir)
		}
		target := filepath.Join(dir, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(target, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
