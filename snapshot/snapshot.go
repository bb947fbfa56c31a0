// Package snapshot persists learned reference patterns so a trained lattice
// can be restored without re-training.
//
// Files are self-describing: the header records the codec and compression
// names, and loading selects both by name. A checksum over the payload
// guards against torn or corrupted writes.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"time"

	"github.com/hupe1980/spikego/codec"
)

const (
	// MagicNumber identifies snapshot files (ASCII: "SPK1").
	MagicNumber = 0x53504B31
	// Version is the current file format version.
	Version = 0x00010000

	// MaxPayloadLen bounds the payload length a header may declare. The
	// length is read before the checksum can be verified, so a corrupt
	// header must not drive the payload allocation.
	MaxPayloadLen = 1 << 30
)

var (
	ErrInvalidMagic    = errors.New("snapshot: invalid magic number")
	ErrInvalidVersion  = errors.New("snapshot: unsupported version")
	ErrChecksum        = errors.New("snapshot: payload checksum mismatch")
	ErrPayloadTooLarge = errors.New("snapshot: payload length exceeds limit")
)

// NeuronState holds one neuron's learned reference patterns.
type NeuronState struct {
	ID       int         `json:"id"`
	Patterns [][]float64 `json:"patterns"`
}

// Snapshot is the persisted state of a trained lattice.
type Snapshot struct {
	CreatedAt         time.Time     `json:"created_at"`
	GridSize          int           `json:"grid_size"`
	Orientations      int           `json:"orientations"`
	NeuronsPerFeature int           `json:"neurons_per_feature"`
	Neurons           []NeuronState `json:"neurons"`
}

// Options configures snapshot writing.
type Options struct {
	// Codec encodes the snapshot payload. Defaults to codec.Default.
	Codec codec.Codec

	// Compression names the payload compression. Defaults to zstd.
	Compression Compression
}

// DefaultOptions contains the default snapshot options.
var DefaultOptions = Options{
	Codec:       codec.Default,
	Compression: CompressionZSTD,
}

// Write encodes the snapshot to w.
func Write(w io.Writer, snap *Snapshot, optFns ...func(o *Options)) error {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	payload, err := opts.Codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	payload, err = compress(payload, opts.Compression)
	if err != nil {
		return fmt.Errorf("snapshot: compress: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(MagicNumber)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(Version)); err != nil {
		return err
	}
	if err := writeString(w, opts.Codec.Name()); err != nil {
		return err
	}
	if err := writeString(w, opts.Compression.String()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(payload))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, crc32.ChecksumIEEE(payload)); err != nil {
		return err
	}

	if _, err := w.Write(payload); err != nil {
		return err
	}

	return nil
}

// Read decodes a snapshot from r, selecting codec and compression from the
// file header.
func Read(r io.Reader) (*Snapshot, error) {
	var magic, version uint32

	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != MagicNumber {
		return nil, ErrInvalidMagic
	}

	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	codecName, err := readString(r)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q", codecName)
	}

	compName, err := readString(r)
	if err != nil {
		return nil, err
	}

	comp, ok := CompressionByName(compName)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown compression %q", compName)
	}

	var payloadLen uint64
	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return nil, err
	}
	if payloadLen > MaxPayloadLen {
		return nil, ErrPayloadTooLarge
	}

	var sum uint32
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, err
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	if crc32.ChecksumIEEE(payload) != sum {
		return nil, ErrChecksum
	}

	payload, err = decompress(payload, comp)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress: %w", err)
	}

	var snap Snapshot
	if err := c.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}

	return &snap, nil
}

// Save writes the snapshot to a file, replacing any existing file via an
// atomic rename.
func Save(path string, snap *Snapshot, optFns ...func(o *Options)) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return err
	}

	if err := Write(f, snap, optFns...); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)

		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)

		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)

		return err
	}

	return os.Rename(tmp, path)
}

// Load reads a snapshot from a file.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}

	_, err := io.WriteString(w, s)

	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}

	return string(b), nil
}
