// Package net fetches remote sample files into a local cache so the
// rest of the toolkit only ever reads local paths.
package net

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60

	dirMode = 0700
)

var (
	// ErrNotFound is returned when the remote file does not exist.
	ErrNotFound = errors.New("URL not found")

	client = &http.Client{
		Timeout: timeoutInSeconds * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:          maxIdleConns,
			IdleConnTimeout:       timeoutInSeconds * time.Second,
			ResponseHeaderTimeout: timeoutInSeconds * time.Second,
		},
	}
)

// IsRemote reports whether path is an http(s) URL.
func IsRemote(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Download writes the content behind url to path.
func Download(fileURL, path string) (retErr error) {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", path)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && retErr == nil {
			retErr = errors.Wrap(cerr, "failed to close file")
		}
	}()

	resp, err := client.Get(fileURL)
	if err != nil {
		return errors.Wrapf(err, "failed to get: %s", fileURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("failed to download %s (status: %s)", fileURL, resp.Status)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return errors.Wrap(err, "failed to save downloaded content")
	}
	return nil
}

// Fetch returns a local path for fileURL, downloading it into cacheDir
// unless a previous download is already there. Local paths are
// returned unchanged.
func Fetch(fileURL, cacheDir string) (string, error) {
	if !IsRemote(fileURL) {
		return fileURL, nil
	}

	u, err := url.Parse(fileURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid URL: %s", fileURL)
	}
	name := filepath.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", errors.Errorf("cannot derive file name from URL: %s", fileURL)
	}

	if err := os.MkdirAll(cacheDir, dirMode); err != nil {
		return "", errors.Wrapf(err, "failed to create cache dir: %s", cacheDir)
	}

	path := filepath.Join(cacheDir, name)
	if _, err := os.Stat(path); err == nil {
		slog.Debug("using cached file", "url", fileURL, "path", path)
		return path, nil
	}

	slog.Debug("downloading", "url", fileURL, "path", path)
	if err := Download(fileURL, path); err != nil {
		return "", err
	}
	return path, nil
}
