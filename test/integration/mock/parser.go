package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/application/adapter"
)

var parserOnce sync.Once
var parser *StatementParser

// StatementParser is a configurable stand-in for the AI statement parser.
// Scenarios describe the statement the parser should produce, or an error
// it should fail with, before the upload request is sent.
type StatementParser struct {
	mu     sync.Mutex
	parsed *adapter.ParsedStatement
	err    error
}

// NewStatementParser returns the shared parser stub.
func NewStatementParser() *StatementParser {
	parserOnce.Do(func() {
		parser = &StatementParser{}
	})
	return parser
}

// Reset clears any configured result between scenarios.
func (p *StatementParser) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parsed = nil
	p.err = nil
}

// SetStatement configures the parse result for the next upload.
func (p *StatementParser) SetStatement(parsed *adapter.ParsedStatement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parsed = parsed
	p.err = nil
}

// Statement returns the currently configured parse result, creating an
// empty one when no scenario step has set it yet.
func (p *StatementParser) Statement() *adapter.ParsedStatement {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.parsed == nil {
		p.parsed = &adapter.ParsedStatement{}
	}
	return p.parsed
}

// SetError makes the next Parse call fail.
func (p *StatementParser) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = errors.New(message)
	p.parsed = nil
}

// Parse implements adapter.StatementParser.
func (p *StatementParser) Parse(_ context.Context, _ uuid.UUID, _ []byte, _ uuid.UUID) (*adapter.ParsedStatement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	if p.parsed == nil {
		return &adapter.ParsedStatement{}, nil
	}
	return p.parsed, nil
}
