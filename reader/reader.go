// Package reader streams corpus documents from disk into the engine,
// independent of the tokenizer or the automaton being built: a txt reader
// yielding one document per line, a jsonl reader pulling a named field out
// of each JSON object, and a pile-style reader for gzip-compressed
// .jsonl.gz dumps shaped like the EleutherAI Pile.
package reader

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DocumentReader yields corpus documents one at a time. Next returns
// io.EOF once the source is exhausted.
type DocumentReader interface {
	Next() (string, error)
	Close() error
}

// Text reads a plain text file, one document per line.
type Text struct {
	f   *os.File
	sc  *bufio.Scanner
}

// NewText opens path as a line-delimited text corpus.
func NewText(path string) (*Text, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader.NewText: %w", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Text{f: f, sc: sc}, nil
}

func (t *Text) Next() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", fmt.Errorf("reader.Text.Next: %w", err)
		}
		return "", io.EOF
	}
	return t.sc.Text(), nil
}

func (t *Text) Close() error { return t.f.Close() }

// JSONL reads newline-delimited JSON, extracting a single string field
// from each object as the document text.
type JSONL struct {
	f     *os.File
	dec   *json.Decoder
	field string
}

// NewJSONL opens path as a newline-delimited JSON corpus, pulling field
// out of each object.
func NewJSONL(path, field string) (*JSONL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader.NewJSONL: %w", err)
	}
	return &JSONL{f: f, dec: json.NewDecoder(f), field: field}, nil
}

func (j *JSONL) Next() (string, error) {
	var obj map[string]any
	if err := j.dec.Decode(&obj); err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("reader.JSONL.Next: %w", err)
	}
	text, ok := obj[j.field].(string)
	if !ok {
		return "", fmt.Errorf("reader.JSONL.Next: field %q missing or not a string", j.field)
	}
	return text, nil
}

func (j *JSONL) Close() error { return j.f.Close() }

// Pile reads a gzip-compressed newline-delimited JSON corpus shaped like
// an EleutherAI Pile shard: each line is an object with a "text" field.
// gzip and encoding/json are standard library here because no compression
// or JSON library appears anywhere else in the example pack to ground a
// third-party choice for this one reader.
type Pile struct {
	f   *os.File
	gz  *gzip.Reader
	dec *json.Decoder
}

// NewPile opens a .jsonl.gz Pile shard at path.
func NewPile(path string) (*Pile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader.NewPile: %w", err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reader.NewPile: %w", err)
	}
	return &Pile{f: f, gz: gz, dec: json.NewDecoder(gz)}, nil
}

func (p *Pile) Next() (string, error) {
	var obj struct {
		Text string `json:"text"`
	}
	if err := p.dec.Decode(&obj); err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("reader.Pile.Next: %w", err)
	}
	return obj.Text, nil
}

func (p *Pile) Close() error {
	if err := p.gz.Close(); err != nil {
		p.f.Close()
		return fmt.Errorf("reader.Pile.Close: %w", err)
	}
	return p.f.Close()
}
