// Package dict loads the idiom dataset and builds the lookup index the
// chain game runs against. The index is built once and never mutated, so
// it is safe to share across concurrent requests without locking.
package dict

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

//go:embed data/chengyu.tsv
var defaultData embed.FS

// ErrInvalidDictionary marks a malformed dataset at load time. It is fatal
// to startup and not recoverable.
var ErrInvalidDictionary = errors.New("invalid idiom dictionary")

// Record is one idiom row as shipped in the dataset. Meaning, Source and
// Example are opaque display strings and are never parsed.
type Record struct {
	Text    string
	Pinyin  string
	Meaning string
	Source  string
	Example string

	syllables []string
}

// LeadChar returns the first character of the idiom.
func (r *Record) LeadChar() rune {
	for _, c := range r.Text {
		return c
	}
	return 0
}

// TailChar returns the last character of the idiom.
func (r *Record) TailChar() rune {
	var last rune
	for _, c := range r.Text {
		last = c
	}
	return last
}

// LeadSyllable returns the first pinyin syllable.
func (r *Record) LeadSyllable() string {
	if len(r.syllables) == 0 {
		return ""
	}
	return r.syllables[0]
}

// TailSyllable returns the last pinyin syllable.
func (r *Record) TailSyllable() string {
	if len(r.syllables) == 0 {
		return ""
	}
	return r.syllables[len(r.syllables)-1]
}

// Index is the read-only lookup structure over the loaded dataset.
type Index struct {
	byText         map[string]*Record
	byLeadChar     map[rune][]string
	byLeadSyllable map[string][]string
	texts          []string
}

// Build constructs the index from records. It fails with a wrapped
// ErrInvalidDictionary when a text is empty or shorter than two characters,
// when the syllable count does not match the character count, or when a
// text appears twice.
func Build(records []Record) (*Index, error) {
	ix := &Index{
		byText:         make(map[string]*Record, len(records)),
		byLeadChar:     make(map[rune][]string),
		byLeadSyllable: make(map[string][]string),
		texts:          make([]string, 0, len(records)),
	}

	for i := range records {
		rec := records[i]
		rec.Text = strings.TrimSpace(rec.Text)
		rec.Pinyin = strings.TrimSpace(rec.Pinyin)

		runes := []rune(rec.Text)
		if len(runes) < 2 {
			return nil, fmt.Errorf("%w: record %d: text %q too short", ErrInvalidDictionary, i+1, rec.Text)
		}
		rec.syllables = strings.Fields(rec.Pinyin)
		if len(rec.syllables) != len(runes) {
			return nil, fmt.Errorf("%w: record %d: %q has %d characters but %d syllables",
				ErrInvalidDictionary, i+1, rec.Text, len(runes), len(rec.syllables))
		}
		if _, dup := ix.byText[rec.Text]; dup {
			return nil, fmt.Errorf("%w: duplicate idiom %q", ErrInvalidDictionary, rec.Text)
		}

		ix.byText[rec.Text] = &rec
		ix.byLeadChar[runes[0]] = append(ix.byLeadChar[runes[0]], rec.Text)
		ix.byLeadSyllable[rec.syllables[0]] = append(ix.byLeadSyllable[rec.syllables[0]], rec.Text)
		ix.texts = append(ix.texts, rec.Text)
	}

	if len(ix.texts) == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrInvalidDictionary)
	}
	return ix, nil
}

// Lookup resolves an idiom text to its record.
func (ix *Index) Lookup(text string) (*Record, bool) {
	rec, ok := ix.byText[strings.TrimSpace(text)]
	return rec, ok
}

// Contains reports whether text is a known idiom.
func (ix *Index) Contains(text string) bool {
	_, ok := ix.Lookup(text)
	return ok
}

// StartingWithChar returns the idioms whose first character is ch.
// The returned slice is owned by the index and must not be mutated.
func (ix *Index) StartingWithChar(ch rune) []string {
	return ix.byLeadChar[ch]
}

// StartingWithSyllable returns the idioms whose first syllable is syll.
func (ix *Index) StartingWithSyllable(syll string) []string {
	return ix.byLeadSyllable[strings.TrimSpace(syll)]
}

// Texts returns every idiom text in dataset order.
func (ix *Index) Texts() []string { return ix.texts }

// Size returns the number of idioms in the index.
func (ix *Index) Size() int { return len(ix.texts) }

// Parse reads tab-separated records from r. The column order is
// chengyu, pingyin, jieshi, chuchu, lizi; a header row is skipped when
// present. Trailing columns may be absent.
func Parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		cols := strings.Split(raw, "\t")
		if line == 1 && strings.TrimSpace(cols[0]) == "chengyu" {
			continue
		}
		if len(cols) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected at least 2 columns, got %d", ErrInvalidDictionary, line, len(cols))
		}
		rec := Record{Text: cols[0], Pinyin: cols[1]}
		if len(cols) > 2 {
			rec.Meaning = strings.TrimSpace(cols[2])
		}
		if len(cols) > 3 {
			rec.Source = strings.TrimSpace(cols[3])
		}
		if len(cols) > 4 {
			rec.Example = strings.TrimSpace(cols[4])
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return records, nil
}

// Load parses and indexes a TSV stream.
func Load(r io.Reader) (*Index, error) {
	records, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Build(records)
}

// LoadFile loads a dictionary from path, falling back to the embedded
// default dataset when path is empty.
func LoadFile(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return LoadEmbedded()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// LoadEmbedded loads the dataset compiled into the binary.
func LoadEmbedded() (*Index, error) {
	raw, err := fs.ReadFile(defaultData, "data/chengyu.tsv")
	if err != nil {
		return nil, fmt.Errorf("read embedded dictionary: %w", err)
	}
	return Load(strings.NewReader(string(raw)))
}
