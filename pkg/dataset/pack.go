package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// PackVersion is written into every pack header.
const PackVersion = 1

// Pack bundles every archive document into one msgpack file so a single read
// replaces the index + per-year + song master fetches.
type Pack struct {
	Version   int               `msgpack:"v"`
	CreatedAt int64             `msgpack:"ts"`
	Docs      map[string][]byte `msgpack:"docs"`
}

// BuildPack fetches the index, every listed year and the song master through l.
// A missing song master is tolerated; the rest must load.
func BuildPack(ctx context.Context, l *Loader) (*Pack, error) {
	p := &Pack{
		Version:   PackVersion,
		CreatedAt: time.Now().Unix(),
		Docs:      make(map[string][]byte),
	}

	idxData, err := l.src.Fetch(ctx, l.indexFile)
	if err != nil {
		return nil, err
	}
	p.Docs[l.indexFile] = idxData

	idx, err := l.Years(ctx)
	if err != nil {
		return nil, err
	}
	for _, y := range idx.Years {
		name := YearFile(y)
		data, err := l.src.Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		p.Docs[name] = data
	}

	if songs, err := l.src.Fetch(ctx, l.songsFile); err != nil {
		log.Warnf("Song master not packed: %v", err)
	} else {
		p.Docs[l.songsFile] = songs
	}
	return p, nil
}

// WritePack encodes p to w.
func WritePack(w io.Writer, p *Pack) error {
	if err := msgpack.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encode pack: %w", err)
	}
	return nil
}

// ReadPack decodes a pack written by WritePack.
func ReadPack(r io.Reader) (*Pack, error) {
	var p Pack
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	if p.Version != PackVersion {
		return nil, fmt.Errorf("unsupported pack version %d", p.Version)
	}
	return &p, nil
}

// SnapshotSource serves documents out of a Pack.
type SnapshotSource struct {
	pack *Pack
}

// NewSnapshotSource wraps an already decoded pack.
func NewSnapshotSource(p *Pack) *SnapshotSource {
	return &SnapshotSource{pack: p}
}

// OpenSnapshot reads a pack file from disk.
func OpenSnapshot(path string) (*SnapshotSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadPack(f)
	if err != nil {
		return nil, err
	}
	log.Debugf("Opened pack %s: %d documents", path, len(p.Docs))
	return NewSnapshotSource(p), nil
}

// Fetch returns the packed document.
func (s *SnapshotSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Resource: name, Err: err}
	}
	data, ok := s.pack.Docs[name]
	if !ok {
		return nil, &FetchError{Resource: name, Err: os.ErrNotExist}
	}
	return data, nil
}
