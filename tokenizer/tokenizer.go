// Package tokenizer turns raw corpus text into the uint16 token ids a
// Cdawg or Dawg indexes. Three strategies are provided: splitting on
// whitespace, treating every byte as its own token, and delegating to a
// pretrained BPE tokenizer via github.com/daulet/tokenizers.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/daulet/tokenizers"
	"github.com/lvlath/cdawg/cdawg"
)

// Tokenizer turns a line of text into token ids.
type Tokenizer interface {
	Encode(text string) ([]uint16, error)
	// VocabSize bounds the token ids Encode can produce.
	VocabSize() int
}

// Whitespace splits on Unicode whitespace and assigns each distinct word a
// stable id in first-seen order. It is the simplest possible tokenizer,
// useful for small experiments and tests where a full BPE vocabulary is
// unwarranted.
type Whitespace struct {
	ids  map[string]uint16
	next uint16
}

// NewWhitespace constructs an empty Whitespace tokenizer.
func NewWhitespace() *Whitespace {
	return &Whitespace{ids: make(map[string]uint16)}
}

func (w *Whitespace) Encode(text string) ([]uint16, error) {
	fields := strings.Fields(text)
	out := make([]uint16, 0, len(fields))
	for _, f := range fields {
		id, ok := w.ids[f]
		if !ok {
			if int(w.next) >= int(cdawg.TerminatorToken) {
				return nil, fmt.Errorf("tokenizer.Whitespace.Encode: vocabulary exceeds reserved 16-bit token id space")
			}
			id = w.next
			w.ids[f] = id
			w.next++
		}
		out = append(out, id)
	}
	return out, nil
}

func (w *Whitespace) VocabSize() int { return int(w.next) }

// Byte treats every byte of the input as its own token, trivially
// reversible and alphabet-free.
type Byte struct{}

func (Byte) Encode(text string) ([]uint16, error) {
	b := []byte(text)
	out := make([]uint16, len(b))
	for i, c := range b {
		out[i] = uint16(c)
	}
	return out, nil
}

func (Byte) VocabSize() int { return 256 }

// BPE wraps a pretrained Hugging Face-format tokenizer loaded from a
// tokenizer.json file.
type BPE struct {
	inner *tokenizers.Tokenizer
}

// NewBPE loads a tokenizer.json file at path.
func NewBPE(path string) (*BPE, error) {
	t, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokenizer.NewBPE: %w", err)
	}
	return &BPE{inner: t}, nil
}

// Close releases the underlying tokenizer's native resources.
func (b *BPE) Close() error { return b.inner.Close() }

func (b *BPE) Encode(text string) ([]uint16, error) {
	ids, _ := b.inner.Encode(text, false)
	out := make([]uint16, len(ids))
	for i, id := range ids {
		if id >= uint32(cdawg.TerminatorToken) {
			return nil, fmt.Errorf("tokenizer.BPE.Encode: token id %d collides with the reserved document terminator", id)
		}
		out[i] = uint16(id)
	}
	return out, nil
}

func (b *BPE) VocabSize() int { return int(b.inner.VocabSize(false)) }
