/*
Package dataset acquires the raw archive documents: the year index, the per-year live
record arrays and the song master used for autocomplete.

Documents are fetched by name through a Source. Three sources exist:

	DirSource       files under a local directory (the data/ folder of the static site)
	HTTPSource      the same files served over HTTP
	SnapshotSource  a single msgpack pack produced by WritePack

A failed fetch (missing file, transport error, non-2xx status, undecodable body) is the
only error this package reports. Failures are not retried; callers surface them as a
load failure and re-trigger the load on the next user action.
*/
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrFetch matches every FetchError via errors.Is.
var ErrFetch = errors.New("fetch failed")

// FetchError describes a document that could not be loaded.
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s load failed: status %d", e.Resource, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s load failed: %v", e.Resource, e.Err)
	default:
		return e.Resource + " load failed"
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// Source fetches a named document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads documents from a directory.
type DirSource struct {
	Dir string
}

// NewDirSource returns a Source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// Fetch reads dir/name.
func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Resource: name, Err: err}
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, &FetchError{Resource: name, Err: err}
	}
	return data, nil
}

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns a Source for baseURL with the given request timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs GET baseURL/name and requires a 2xx response.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.BaseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Resource: name, Err: err}
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Resource: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Resource: name, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Resource: name, Err: err}
	}
	return data, nil
}
