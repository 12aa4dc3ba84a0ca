package prompt

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tokenizer used for budget accounting. cl100k_base
// covers the GPT-4 family; close enough for the other providers since the
// budget is advisory.
const DefaultEncoding = "cl100k_base"

// TokenCounter estimates the token cost of a piece of text.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts with a real BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// HeuristicCounter approximates one token per four bytes of text. Used when
// the encoding files cannot be loaded (offline environments) and in
// deterministic tests.
type HeuristicCounter struct{}

func (HeuristicCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// NewCounter returns a tiktoken-backed counter, falling back to the
// heuristic when the encoding cannot be loaded.
func NewCounter(encoding string) TokenCounter {
	counter, err := NewTiktokenCounter(encoding)
	if err != nil {
		return HeuristicCounter{}
	}
	return counter
}
