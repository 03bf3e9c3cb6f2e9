// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var offlineBPE sync.Once

// Tokenizer maps text to model token ids and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads a BPE encoding by name. GPT-2 uses r50k_base. Encoding
// files are read from the data embedded in tiktoken-go-loader, so no network
// access is needed.
func NewTiktoken(encoding string) (Tokenizer, error) {
	offlineBPE.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// truncate cuts text to at most limit tokens.
func truncate(tok Tokenizer, text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	ids := tok.Encode(text)
	if len(ids) <= limit {
		return text
	}
	return tok.Decode(ids[:limit])
}
