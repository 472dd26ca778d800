//go:build !cgo

package jsast

import (
	"context"
)

// Parser is a stub for non-CGO builds.
type Parser struct{}

// NewParser returns a parser whose Parse always fails with ErrNoCGO.
func NewParser() *Parser {
	return &Parser{}
}

// Close is a no-op.
func (p *Parser) Close() {}

// Parse returns ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*File, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
