package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const fileExt = ".json.zst"

// File is a Store persisting each collection as a zstd-compressed JSON file
// under a data directory. Writes go through a temp file and rename so a
// crashed write never leaves a truncated collection behind.
type File struct {
	dir     string
	mu      sync.Mutex
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFile creates a file-backed store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &File{dir: dir, encoder: encoder, decoder: decoder}, nil
}

func (f *File) path(name string) string {
	// Collection names are internal constants, but keep paths flat regardless.
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	return filepath.Join(f.dir, name+fileExt)
}

func (f *File) Get(name string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read collection %s: %w", name, err)
	}

	data, err := f.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress collection %s: %w", name, err)
	}
	return data, true, nil
}

func (f *File) Set(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	compressed := f.encoder.EncodeAll(data, nil)

	path := f.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection %s: %w", name, err)
	}
	return nil
}
