package console

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// 端末のコードページ(Windows の cmd.exe は cp866 が多い)
var encodings = map[string]encoding.Encoding{
	"utf-8":        encoding.Nop,
	"cp866":        charmap.CodePage866,
	"windows-1251": charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
}

// Lookup returns the terminal encoding registered under name.
func Lookup(name string) (encoding.Encoding, error) {
	enc, ok := encodings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported console encoding %q", name)
	}
	return enc, nil
}

// Wrap transcodes in/out between the terminal encoding and UTF-8.
// The returned writer must be closed to flush a trailing partial rune.
func Wrap(enc encoding.Encoding, in io.Reader, out io.Writer) (io.Reader, io.WriteCloser) {
	if enc == encoding.Nop {
		return in, nopCloser{out}
	}
	return transform.NewReader(in, enc.NewDecoder()), transform.NewWriter(out, enc.NewEncoder())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
