package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/zlib"

	"github.com/CommanderRoot/ed-forge/internal/domain"
)

// ErrMalformedCode is returned when a build code cannot be decoded
var ErrMalformedCode = errors.New("malformed build code")

// maxCodeSize bounds the inflated size of a build code
const maxCodeSize = 4 << 20

var compressionLevel atomic.Int32

func init() {
	compressionLevel.Store(zlib.BestCompression)
}

// SetCompressionLevel changes the zlib level used by Compress
func SetCompressionLevel(level int) error {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return fmt.Errorf("invalid compression level %d", level)
	}
	compressionLevel.Store(int32(level))
	return nil
}

// Compress turns any JSON-serializable value into a compact text code:
// JSON, zlib deflated, standard base64.
func Compress(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode build: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, int(compressionLevel.Load()))
	if err != nil {
		return "", fmt.Errorf("create compressor: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return "", fmt.Errorf("compress build: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress build: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Inflate reverses the base64 and zlib layers of a build code and returns
// the JSON document
func Inflate(code string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCode, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCode, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxCodeSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCode, err)
	}
	if len(data) > maxCodeSize {
		return nil, fmt.Errorf("%w: inflated size exceeds %d bytes", ErrMalformedCode, maxCodeSize)
	}
	return data, nil
}

// Decompress reverses Compress into v
func Decompress(code string, v any) error {
	data, err := Inflate(code)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCode, err)
	}
	return nil
}

// CompactCodec reads and writes builds as compact codes
type CompactCodec struct{}

// NewCompactCodec creates a new compact code codec
func NewCompactCodec() *CompactCodec {
	return &CompactCodec{}
}

// Format returns the codec format identifier
func (c *CompactCodec) Format() string {
	return "code"
}

// Parse reads a single build code. The inflated document is validated
// before it is decoded.
func (c *CompactCodec) Parse(r io.Reader) (*domain.ShipObject, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read build code: %w", err)
	}

	doc, err := Inflate(string(data))
	if err != nil {
		return nil, err
	}
	return decodeShip(doc)
}

// Export writes the build code followed by a newline
func (c *CompactCodec) Export(ship *domain.ShipObject, w io.Writer) error {
	code, err := Compress(ship)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, code+"\n"); err != nil {
		return fmt.Errorf("failed to write build code: %w", err)
	}
	return nil
}
