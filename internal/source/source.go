// Package source loads the input class dump from a local file or an
// http(s) URL.
package source

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/samber/oops"
	"resty.dev/v3"

	"github.com/g5becks/ahkdoc/internal/errcode"
)

// Input is a loaded class dump.
type Input struct {
	Location     string
	Data         []byte
	ETag         string
	LastModified string
	// NotModified is set when a conditional request was answered with 304.
	// Data is empty in that case.
	NotModified bool
}

// Validators are the cache validators of a previous download.
type Validators struct {
	ETag         string
	LastModified string
}

// Loader reads input documents.
type Loader struct {
	client *resty.Client
}

type Option func(*Loader)

// WithClient replaces the HTTP client used for URL inputs.
func WithClient(client *resty.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}

	if l.client == nil {
		l.client = resty.New()
	}

	return l
}

// Close releases the underlying HTTP client.
func (l *Loader) Close() error {
	if l == nil || l.client == nil {
		return nil
	}

	return l.client.Close()
}

// IsURL reports whether location names an http(s) resource.
func IsURL(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load reads location. prev is only consulted for URL inputs, where it turns
// the request into a conditional one.
func (l *Loader) Load(ctx context.Context, location string, prev *Validators) (*Input, error) {
	if strings.TrimSpace(location) == "" {
		return nil, oops.
			Code(errcode.InputNotFound).
			Hint("Set input_file in ahkdoc.toml or pass --input").
			Errorf("no input location given")
	}

	if IsURL(location) {
		return l.fetch(ctx, location, prev)
	}

	return readFile(location)
}

func readFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code(errcode.InputNotFound).
				With("path", path).
				Hint("Check input_file; relative paths resolve against the config directory").
				Errorf("input file %q does not exist", path)
		}

		return nil, oops.
			Code(errcode.InputNotFound).
			With("path", path).
			Wrapf(err, "reading input file %q", path)
	}

	return &Input{Location: path, Data: data}, nil
}
