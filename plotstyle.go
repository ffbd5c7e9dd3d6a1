// Package plotstyle decodes AutoCAD plot style tables, the color dependent (CTB)
// and named (STB) pen settings files, into a catalog of styles indexed by
// the AutoCAD Color Index (ACI).
//
// A plot style file is a short ASCII header followed by a zlib compressed,
// brace delimited key and value text. Each style carries a resolved drawing color,
// an optional lineweight in millimeters, and an optional screening percentage.
//
// The package does no I/O and holds no shared state, so it is safe to decode
// many files concurrently.
package plotstyle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrReader   = errors.New("reader is nil")
	ErrMarker   = errors.New("missing version marker")
	ErrPayload  = errors.New("no compressed payload found")
	ErrTooLarge = errors.New("decompressed payload exceeds the size limit")
)

const (
	// Marker is the version marker that must be found in the header.
	Marker = "PIAFILEVERSION"
	// HeaderSize is the number of leading bytes searched for the Marker.
	HeaderSize = 32
	// MaxPayload is the maximum size of a decompressed payload in bytes.
	MaxPayload = 64 << 20
)

// zsig is the zlib header of a deflate stream using the best compression level.
var zsig = []byte{0x78, 0xDA}

// Kind is the plot style table variant named in the file header.
type Kind uint

const (
	Unknown Kind = iota // Unknown is a header without a recognized table version
	CTB                 // CTB is a color dependent plot style table
	STB                 // STB is a named plot style table
)

// String returns the common file extension name of the kind.
func (k Kind) String() string {
	switch k {
	case CTB:
		return "CTB"
	case STB:
		return "STB"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FormatError is returned when the file is not a plot style table.
type FormatError struct {
	File string // File is the name supplied by the caller
	Err  error  // Err is either ErrMarker or ErrPayload
}

func (e *FormatError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("format: %v", e.Err)
	}
	return fmt.Sprintf("%s: format: %v", e.File, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// DecompressionError is returned when the compressed payload is corrupt or truncated.
type DecompressionError struct {
	File string // File is the name supplied by the caller
	Err  error  // Err is the underlying zlib or size limit error
}

func (e *DecompressionError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("decompress: %v", e.Err)
	}
	return fmt.Sprintf("%s: decompress: %v", e.File, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// Read reads all of r and decodes it as a plot style table.
// The name is only used to identify the file in any returned error.
func Read(name string, r io.Reader) (*Catalog, error) {
	if r == nil {
		return nil, ErrReader
	}
	p, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", name, err)
	}
	return Decode(name, p)
}

// Decode decodes the plot style table found in p.
// The name is only used to identify the file in any returned error.
//
// A missing header marker or compressed payload returns a [*FormatError],
// and a corrupt payload returns a [*DecompressionError].
// Otherwise decode never fails, and any unrecognized text in the payload is ignored.
func Decode(name string, p []byte) (*Catalog, error) {
	header := p[:min(len(p), HeaderSize)]
	mark := bytes.Index(header, []byte(Marker))
	if mark < 0 {
		return nil, &FormatError{File: name, Err: ErrMarker}
	}
	offset := mark + len(Marker)
	z := bytes.Index(p[offset:], zsig)
	if z < 0 {
		return nil, &FormatError{File: name, Err: ErrPayload}
	}
	z += offset
	text, err := inflate(p[z:])
	if err != nil {
		return nil, &DecompressionError{File: name, Err: err}
	}
	t := tokenize(text)
	head := string(p[mark:z])
	kind := kindOf(head)
	return &Catalog{
		Header:  firstLine(head),
		Kind:    kind,
		Globals: t.globals,
		Styles:  assemble(t),
	}, nil
}

// inflate decompresses the zlib stream and returns it as valid UTF-8 text.
// Invalid UTF-8 sequences are replaced rather than treated as an error.
func inflate(p []byte) (string, error) {
	zr, err := zlib.NewReader(bytes.NewReader(p))
	if err != nil {
		return "", fmt.Errorf("zlib reader: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, MaxPayload+1))
	if err != nil {
		return "", fmt.Errorf("zlib read: %w", err)
	}
	if len(raw) > MaxPayload {
		return "", ErrTooLarge
	}
	utf, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("utf-8 decode: %w", err)
	}
	return string(utf), nil
}

// kindOf returns the table variant named in the header, such as "CTBVER1".
func kindOf(head string) Kind {
	switch {
	case strings.Contains(head, "CTBVER"):
		return CTB
	case strings.Contains(head, "STBVER"):
		return STB
	default:
		return Unknown
	}
}

// firstLine returns the printable text of the header up to the first line break.
func firstLine(head string) string {
	if i := strings.IndexAny(head, "\r\n"); i >= 0 {
		head = head[:i]
	}
	return strings.TrimSpace(strings.ToValidUTF8(head, ""))
}
