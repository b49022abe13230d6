package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"scrutiny/internal/logging"
	"scrutiny/internal/services"
)

// indexVersion guards the on-disk layout. Bump when the format changes.
const indexVersion = 1

// Embedder produces embedding vectors for texts.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float64, error)
	EmbedOne(ctx context.Context, input string) ([]float64, error)
}

// Options configures index construction and retrieval.
type Options struct {
	DocumentPath string
	IndexPath    string
	ChunkSize    int
	ChunkOverlap int
}

// Snippet is one retrieved policy chunk with its distance to the query.
type Snippet struct {
	Text     string
	Distance float64
}

// Index is a loaded vector index over the policy document.
type Index struct {
	opts     Options
	embedder Embedder
	logger   *slog.Logger
	entries  []indexEntry
}

type indexEntry struct {
	Text   string    `json:"text"`
	Vector []float64 `json:"vector"`
}

type indexFile struct {
	Version      int          `json:"version"`
	ChunkSize    int          `json:"chunk_size"`
	ChunkOverlap int          `json:"chunk_overlap"`
	Entries      []indexEntry `json:"entries"`
}

// Open loads the index from disk, building it from the policy document first
// when no index file exists.
func Open(ctx context.Context, opts Options, embedder Embedder, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "policy")

	idx := &Index{opts: opts, embedder: embedder, logger: logger}
	if err := idx.load(); err == nil {
		return idx, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, services.Wrap(services.ErrConfiguration, "policy", "load", "index file unreadable", err)
	}

	logger.Info("index not found, building", logging.String("index_path", opts.IndexPath))
	if err := idx.Build(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Build re-chunks and re-embeds the policy document and replaces the on-disk
// index wholesale. Concurrent builds are serialized by a file lock; partial
// indexes are never visible because the file is written once, complete.
func (idx *Index) Build(ctx context.Context) error {
	doc, err := os.ReadFile(idx.opts.DocumentPath)
	if err != nil {
		return services.Wrap(services.ErrBadInput, "policy", "build", fmt.Sprintf("policy document not found: %s", idx.opts.DocumentPath), err)
	}
	chunks := Chunk(string(doc), idx.opts.ChunkSize, idx.opts.ChunkOverlap)
	if len(chunks) == 0 {
		return services.Wrap(services.ErrEmptyResult, "policy", "build", "policy document produced no chunks", nil)
	}

	if err := os.MkdirAll(filepath.Dir(idx.opts.IndexPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "policy", "build", "create index directory", err)
	}
	lock := flock.New(idx.opts.IndexPath + ".lock")
	if err := lock.Lock(); err != nil {
		return services.Wrap(services.ErrConfiguration, "policy", "build", "acquire index lock", err)
	}
	defer lock.Unlock() //nolint:errcheck

	idx.logger.Info("embedding policy chunks", logging.Int("chunks", len(chunks)))
	vectors, err := idx.embedder.Embed(ctx, chunks)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "policy", "embed", "embedding policy chunks failed", err)
	}

	entries := make([]indexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = indexEntry{Text: chunk, Vector: vectors[i]}
	}
	payload := indexFile{
		Version:      indexVersion,
		ChunkSize:    idx.opts.ChunkSize,
		ChunkOverlap: idx.opts.ChunkOverlap,
		Entries:      entries,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "policy", "build", "encode index", err)
	}
	tmp := idx.opts.IndexPath + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "policy", "build", "write index", err)
	}
	if err := os.Rename(tmp, idx.opts.IndexPath); err != nil {
		return services.Wrap(services.ErrConfiguration, "policy", "build", "replace index", err)
	}

	idx.entries = entries
	return nil
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Retrieve returns the k chunks nearest to query by cosine distance, most
// similar first. Ties preserve document order. When k meets or exceeds the
// index size every chunk is returned.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]Snippet, error) {
	if strings.TrimSpace(query) == "" {
		return nil, services.Wrap(services.ErrBadInput, "policy", "retrieve", "query required", nil)
	}
	if k <= 0 {
		return nil, services.Wrap(services.ErrBadInput, "policy", "retrieve", fmt.Sprintf("invalid k %d", k), nil)
	}
	if len(idx.entries) == 0 {
		return nil, services.Wrap(services.ErrEmptyResult, "policy", "retrieve", "index is empty", nil)
	}

	queryVec, err := idx.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "policy", "embed", "embedding query failed", err)
	}

	snippets := make([]Snippet, len(idx.entries))
	for i, entry := range idx.entries {
		snippets[i] = Snippet{Text: entry.Text, Distance: CosineDistance(queryVec, entry.Vector)}
	}
	sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].Distance < snippets[j].Distance })
	if k < len(snippets) {
		snippets = snippets[:k]
	}
	return snippets, nil
}

func (idx *Index) load() error {
	data, err := os.ReadFile(idx.opts.IndexPath)
	if err != nil {
		return err
	}
	var payload indexFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse index: %w", err)
	}
	if payload.Version != indexVersion {
		return fmt.Errorf("index version %d, want %d (rebuild required)", payload.Version, indexVersion)
	}
	idx.entries = payload.Entries
	return nil
}

// CosineDistance is 1 minus the cosine similarity of a and b. Mismatched or
// zero-magnitude vectors are maximally distant.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
