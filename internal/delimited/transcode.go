package delimited

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var legacyCharmaps = map[string]*charmap.Charmap{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
}

func normalizeEncoding(encoding string) string {
	return strings.ToLower(strings.TrimSpace(encoding))
}

// SupportedEncoding reports whether DecodeReader can handle the named
// character encoding. The empty string counts as UTF-8.
func SupportedEncoding(encoding string) bool {
	switch normalizeEncoding(encoding) {
	case "", "utf-8", "utf8":
		return true
	}
	_, ok := legacyCharmaps[normalizeEncoding(encoding)]
	return ok
}

// DecodeReader wraps r so input in the named legacy encoding is decoded to
// UTF-8 before parsing. UTF-8 input passes through unchanged.
func DecodeReader(r io.Reader, encoding string) (io.Reader, error) {
	name := normalizeEncoding(encoding)
	switch name {
	case "", "utf-8", "utf8":
		return r, nil
	}
	cm, ok := legacyCharmaps[name]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
	return cm.NewDecoder().Reader(r), nil
}
