package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// mboxAPIURL is the Apache Pony Mail endpoint serving monthly mbox dumps
const mboxAPIURL = "https://lists.apache.org/api/mbox.lua"

// HTTPFetcher downloads KEYS files and monthly mbox archives over HTTP
type HTTPFetcher struct {
	client    *http.Client
	baseURL   string
	outputDir string
	overwrite bool
	logger    *zap.Logger
}

// NewHTTPFetcher creates a fetcher writing archives into outputDir.
// Existing archive files are reused unless overwrite is set.
func NewHTTPFetcher(outputDir string, overwrite bool, timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		baseURL:   mboxAPIURL,
		outputDir: outputDir,
		overwrite: overwrite,
		logger:    logger,
	}
}

// FetchKeys downloads a KEYS file and returns its text
func (f *HTTPFetcher) FetchKeys(ctx context.Context, keysURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keysURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build KEYS request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download KEYS file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("KEYS download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read KEYS response: %w", err)
	}
	return string(body), nil
}

// FetchMonth downloads one monthly mbox archive and returns its local
// path. An already-present file is returned as-is unless the fetcher was
// created with overwrite.
func (f *HTTPFetcher) FetchMonth(ctx context.Context, list, domain string, year, month int) (string, error) {
	filename := fmt.Sprintf("%s_%s-%d-%d.mbox", list, strings.ReplaceAll(domain, ".", "_"), year, month)
	path := filepath.Join(f.outputDir, filename)

	if _, err := os.Stat(path); err == nil {
		if !f.overwrite {
			f.logger.Debug("Archive already downloaded, skipping",
				zap.String("file", filename))
			return path, nil
		}
		f.logger.Info("Overwriting existing archive", zap.String("file", filename))
	}

	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	query := url.Values{}
	query.Set("list", list)
	query.Set("domain", domain)
	query.Set("d", fmt.Sprintf("%d-%d", year, month))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build archive request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive file: %w", err)
	}

	f.logger.Info("Downloaded archive", zap.String("file", filename))
	return path, nil
}

// FetchMonths downloads a list of monthly archives, skipping months that
// fail with a diagnostic rather than aborting the batch. It returns the
// local paths of all archives fetched (or already present).
func (f *HTTPFetcher) FetchMonths(ctx context.Context, list, domain string, months []YearMonth) ([]string, error) {
	var paths []string
	for _, ym := range months {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path, err := f.FetchMonth(ctx, list, domain, ym.Year, ym.Month)
		if err != nil {
			f.logger.Error("Failed to fetch archive month",
				zap.Int("year", ym.Year),
				zap.Int("month", ym.Month),
				zap.Error(err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}
