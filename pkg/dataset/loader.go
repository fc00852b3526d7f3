package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/charmbracelet/log"
)

const (
	DefaultIndexFile = "index.json"
	DefaultSongsFile = "songs.raw.json"
)

// Loader turns fetched documents into typed records.
type Loader struct {
	src       Source
	indexFile string
	songsFile string
}

// Option configures a Loader.
type Option func(*Loader)

// WithIndexFile overrides the year index document name.
func WithIndexFile(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.indexFile = name
		}
	}
}

// WithSongsFile overrides the song master document name.
func WithSongsFile(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.songsFile = name
		}
	}
}

// NewLoader creates a loader over src.
func NewLoader(src Source, opts ...Option) *Loader {
	l := &Loader{
		src:       src,
		indexFile: DefaultIndexFile,
		songsFile: DefaultSongsFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// YearFile is the document name holding one year's records.
func YearFile(year setlist.Year) string {
	return string(year) + ".json"
}

// Years loads the year index.
func (l *Loader) Years(ctx context.Context) (setlist.YearIndex, error) {
	var idx setlist.YearIndex
	if err := l.fetchJSON(ctx, l.indexFile, &idx); err != nil {
		return setlist.YearIndex{}, err
	}
	log.Debugf("Loaded year index: %d years", len(idx.Years))
	return idx, nil
}

// Year loads one year's records, each tagged with year.
func (l *Loader) Year(ctx context.Context, year setlist.Year) ([]setlist.LiveEvent, error) {
	var lives []setlist.LiveEvent
	if err := l.fetchJSON(ctx, YearFile(year), &lives); err != nil {
		return nil, err
	}
	log.Debugf("Loaded year %s: %d lives", year, len(lives))
	return setlist.TagYear(lives, year), nil
}

// Target loads the collection a selector points at. AllYears walks the index in
// listed order and concatenates every year, stopping at the first failure.
func (l *Loader) Target(ctx context.Context, sel setlist.YearSelector) ([]setlist.LiveEvent, error) {
	if !sel.IsAll() {
		return l.Year(ctx, sel.Year())
	}
	idx, err := l.Years(ctx)
	if err != nil {
		return nil, err
	}
	var all []setlist.LiveEvent
	for _, y := range idx.Years {
		lives, err := l.Year(ctx, y)
		if err != nil {
			return nil, err
		}
		all = append(all, lives...)
	}
	return all, nil
}

// SongMaster fetches the raw song master payload. Its shape is not checked
// here; package extract recovers titles from whatever it holds.
func (l *Loader) SongMaster(ctx context.Context) ([]byte, error) {
	return l.src.Fetch(ctx, l.songsFile)
}

// SongsFile names the song master document.
func (l *Loader) SongsFile() string {
	return l.songsFile
}

func (l *Loader) fetchJSON(ctx context.Context, name string, v any) error {
	data, err := l.src.Fetch(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &FetchError{Resource: name, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
