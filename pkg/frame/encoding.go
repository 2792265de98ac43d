package frame

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when the caller does not choose one.
const DefaultEncoding = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodingError reports that the uploaded bytes cannot be decoded with
// the selected character encoding.
type EncodingError struct {
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unable to decode the file with encoding '%s'. Please select another encoding", e.Encoding)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Names users commonly type that the WHATWG/IANA indexes resolve differently
// or not at all.
var encodingAliases = map[string]encoding.Encoding{
	"utf-8":      unicode.UTF8,
	"utf8":       unicode.UTF8,
	"utf-8-sig":  unicode.UTF8,
	"latin-1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"cp1252":     charmap.Windows1252,
}

func normalizeEncodingName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(n, "_", "-")
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	n := normalizeEncodingName(name)
	if enc, ok := encodingAliases[n]; ok {
		return enc, nil
	}
	if enc, err := htmlindex.Get(n); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q has no decoder", name)
	}
	return enc, nil
}

func isASCII(name string) bool {
	switch normalizeEncodingName(name) {
	case "ascii", "us-ascii":
		return true
	}
	return false
}

// decodeText converts raw bytes to UTF-8 text using the named encoding.
func decodeText(data []byte, name string) (string, error) {
	if isASCII(name) {
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", &EncodingError{Encoding: name, Err: fmt.Errorf("byte 0x%x at position %d", b, i)}
			}
		}
		return string(data), nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", &EncodingError{Encoding: name, Err: err}
	}

	if enc == unicode.UTF8 {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", &EncodingError{Encoding: name, Err: fmt.Errorf("invalid utf-8 sequence")}
		}
		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &EncodingError{Encoding: name, Err: err}
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", &EncodingError{Encoding: name, Err: fmt.Errorf("undecodable byte sequence")}
	}
	return strings.TrimPrefix(string(decoded), "\uFEFF"), nil
}
