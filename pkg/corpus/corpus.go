// Package corpus opens text sources for training. Plain files are read as is;
// ".xz" files are decompressed, and ".html"/".htm" files are reduced to their
// visible text. Unicode compatibility folding can be applied on top.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/unicode/norm"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// ErrUnavailable is matched by every error caused by a corpus that cannot be
// opened or decoded.
var ErrUnavailable = errors.New("corpus unavailable")

// Format is the decoding applied to a corpus.
type Format int

const (
	// FormatText is plain text.
	FormatText Format = iota
	// FormatHTML is an HTML document; only visible text is kept.
	FormatHTML
)

type options struct {
	normalize  bool
	format     Format
	autoFormat bool
}

// Option configures Open.
type Option func(*options)

// WithNormalization folds the text to Unicode NFKC, so that for example the
// single-character ellipsis becomes "..." and full-width letters become ASCII.
// Letters with no ASCII equivalent stay as they are; the markov default
// tokenizer only keeps them with markov.UnicodeLexemeRegex.
func WithNormalization(normalize bool) Option {
	return func(o *options) { o.normalize = normalize }
}

// WithFormat forces the corpus format instead of guessing it from the extension.
func WithFormat(format Format) Option {
	return func(o *options) {
		o.format = format
		o.autoFormat = false
	}
}

// DetectFormat guesses the format of path from its extension, ignoring a
// trailing ".xz".
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), ".xz")))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	default:
		return FormatText
	}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Open opens the corpus at path ("-" for standard input) and returns a reader
// over its decoded text. The caller must close it.
func Open(path string, opts ...Option) (io.ReadCloser, error) {
	var (
		r      io.Reader
		closer io.Closer
	)
	if path == Stdin {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		r, closer = f, f
	}

	rc, err := Decode(r, path, opts...)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	return &readCloser{Reader: rc, closer: closer}, nil
}

// Decode wraps r with the decoders implied by name and the options. name is
// only used to pick decoders and in error messages.
func Decode(r io.Reader, name string, opts ...Option) (io.Reader, error) {
	o := &options{autoFormat: true}
	for _, opt := range opts {
		opt(o)
	}
	if strings.HasSuffix(strings.ToLower(name), ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
		}
		r = xr
	}

	format := o.format
	if o.autoFormat {
		format = DetectFormat(name)
	}
	if format == FormatHTML {
		text, err := htmlText(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
		}
		r = strings.NewReader(text)
	}

	if o.normalize {
		r = norm.NFKC.Reader(r)
	}
	return r, nil
}
