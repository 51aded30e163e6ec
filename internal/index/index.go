// Package index persists crawled documents as disposable, timestamp-keyed
// chunk sets in blob storage.
package index

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize = 1200
	DefaultOverlap   = 200
)

// Document is a crawled source ready for chunking.
type Document struct {
	URL          string
	Title        string
	Jurisdiction string
	Text         string
}

// Chunk is a window of document text tagged with its source.
type Chunk struct {
	Seq          int    `json:"seq"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Jurisdiction string `json:"jurisdiction"`
	Text         string `json:"text"`
}

// Manifest summarizes a stored index.
type Manifest struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Regions   []string  `json:"regions"`
	Documents int       `json:"documents"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// Index is a manifest with its chunks.
type Index struct {
	Manifest Manifest `json:"manifest"`
	Chunks   []Chunk  `json:"chunks"`
}

// NewID derives a short index identifier from the summary, the sorted regions
// and the Unix timestamp of now.
func NewID(summary string, regions []string, now time.Time) string {
	sorted := slices.Clone(regions)
	slices.Sort(sorted)
	sum := sha1.Sum(fmt.Appendf(nil, "%s|%s|%d", summary, strings.Join(sorted, ","), now.Unix()))
	return hex.EncodeToString(sum[:])[:12]
}

// Split cuts text into windows of size characters, each overlapping the
// previous one by overlap characters. Empty text yields no chunks.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// ChunkDocuments splits every document and tags each window with its source.
func ChunkDocuments(docs []Document, size, overlap int) []Chunk {
	var chunks []Chunk
	for _, d := range docs {
		for _, text := range Split(d.Text, size, overlap) {
			chunks = append(chunks, Chunk{
				Seq:          len(chunks),
				URL:          d.URL,
				Title:        d.Title,
				Jurisdiction: d.Jurisdiction,
				Text:         text,
			})
		}
	}
	return chunks
}

func manifestKey(id string) string {
	return id + "/manifest.json"
}

func chunksKey(id string) string {
	return id + "/chunks.json"
}
