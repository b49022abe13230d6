package policy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrutiny/internal/services"
)

// hashEmbedder returns deterministic vectors so distance ordering is stable
// without a real embedding service.
type hashEmbedder struct {
	calls int
}

func (h *hashEmbedder) Embed(ctx context.Context, inputs []string) ([][]float64, error) {
	h.calls++
	out := make([][]float64, len(inputs))
	for i, input := range inputs {
		out[i] = vectorFor(input)
	}
	return out, nil
}

func (h *hashEmbedder) EmbedOne(ctx context.Context, input string) ([]float64, error) {
	h.calls++
	return vectorFor(input), nil
}

func vectorFor(input string) []float64 {
	v := make([]float64, 8)
	for i, r := range input {
		v[i%8] += float64(r)
	}
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, inputs []string) ([][]float64, error) {
	return nil, errors.New("embedding service down")
}

func (failingEmbedder) EmbedOne(ctx context.Context, input string) ([]float64, error) {
	return nil, errors.New("embedding service down")
}

func writePolicy(t *testing.T, content string) Options {
	t.Helper()
	dir := t.TempDir()
	docPath := filepath.Join(dir, "policy.md")
	if err := os.WriteFile(docPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return Options{
		DocumentPath: docPath,
		IndexPath:    filepath.Join(dir, "index.json"),
		ChunkSize:    500,
		ChunkOverlap: 50,
	}
}

func TestOpenBuildsWhenMissing(t *testing.T) {
	opts := writePolicy(t, "Refunds must be issued within 30 days. Agents must verify identity.")
	emb := &hashEmbedder{}
	idx, err := Open(context.Background(), opts, emb, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if idx.Len() == 0 {
		t.Fatal("expected chunks in index")
	}
	if _, err := os.Stat(opts.IndexPath); err != nil {
		t.Fatalf("index file not written: %v", err)
	}
}

func TestOpenLoadsExistingWithoutEmbedding(t *testing.T) {
	opts := writePolicy(t, "Agents must never promise compensation without approval.")
	if _, err := Open(context.Background(), opts, &hashEmbedder{}, nil); err != nil {
		t.Fatalf("first Open: %v", err)
	}

	emb := &hashEmbedder{}
	idx, err := Open(context.Background(), opts, emb, nil)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if emb.calls != 0 {
		t.Fatalf("load path must not call the embedder, got %d calls", emb.calls)
	}
	if idx.Len() == 0 {
		t.Fatal("loaded index is empty")
	}
}

func TestRetrieveReturnsVerbatimChunksOrdered(t *testing.T) {
	var doc strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&doc, "Section %d: rule text padding %s. ", i, strings.Repeat("word ", 30))
	}
	opts := writePolicy(t, doc.String())
	idx, err := Open(context.Background(), opts, &hashEmbedder{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	snippets, err := idx.Retrieve(context.Background(), "Section 2 rule", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(snippets) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(snippets))
	}
	for i := 1; i < len(snippets); i++ {
		if snippets[i].Distance < snippets[i-1].Distance {
			t.Fatalf("snippets not in ascending distance: %v then %v", snippets[i-1].Distance, snippets[i].Distance)
		}
	}
	for _, s := range snippets {
		if !strings.Contains(doc.String(), s.Text) {
			t.Fatalf("snippet is not a verbatim substring of the document: %q", s.Text)
		}
	}
}

func TestRetrieveAfterReopenUsesPersistedVectors(t *testing.T) {
	doc := "Refund requests older than 30 days require supervisor approval. Agents must verify identity before discussing account details."
	opts := writePolicy(t, doc)
	if _, err := Open(context.Background(), opts, &hashEmbedder{}, nil); err != nil {
		t.Fatalf("building Open: %v", err)
	}

	emb := &hashEmbedder{}
	idx, err := Open(context.Background(), opts, emb, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	snippets, err := idx.Retrieve(context.Background(), "verify identity", 1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}
	if !strings.Contains(doc, snippets[0].Text) {
		t.Errorf("snippet is not a verbatim substring of the document: %q", snippets[0].Text)
	}
	if emb.calls != 1 {
		t.Errorf("retrieval after reopen should embed only the query, got %d calls", emb.calls)
	}
}

func TestRetrieveKOverflowReturnsAll(t *testing.T) {
	opts := writePolicy(t, "one short policy")
	idx, err := Open(context.Background(), opts, &hashEmbedder{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	snippets, err := idx.Retrieve(context.Background(), "policy", 50)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(snippets) != idx.Len() {
		t.Fatalf("k overflow should return all %d chunks, got %d", idx.Len(), len(snippets))
	}
}

func TestRetrieveRejectsBadArgs(t *testing.T) {
	opts := writePolicy(t, "some policy")
	idx, err := Open(context.Background(), opts, &hashEmbedder{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := idx.Retrieve(context.Background(), "  ", 3); !errors.Is(err, services.ErrBadInput) {
		t.Errorf("blank query: %v", err)
	}
	if _, err := idx.Retrieve(context.Background(), "q", 0); !errors.Is(err, services.ErrBadInput) {
		t.Errorf("k=0: %v", err)
	}
}

func TestBuildMissingDocumentIsBadInput(t *testing.T) {
	opts := Options{
		DocumentPath: filepath.Join(t.TempDir(), "missing.md"),
		IndexPath:    filepath.Join(t.TempDir(), "index.json"),
		ChunkSize:    500,
		ChunkOverlap: 50,
	}
	_, err := Open(context.Background(), opts, &hashEmbedder{}, nil)
	if !errors.Is(err, services.ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
}

func TestBuildEmbeddingFailureSurfaces(t *testing.T) {
	opts := writePolicy(t, "some policy text")
	_, err := Open(context.Background(), opts, failingEmbedder{}, nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if _, statErr := os.Stat(opts.IndexPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("failed build must not leave an index file")
	}
}

func TestCosineDistance(t *testing.T) {
	if d := CosineDistance([]float64{1, 0}, []float64{1, 0}); math.Abs(d) > 1e-12 {
		t.Errorf("identical vectors distance = %v", d)
	}
	if d := CosineDistance([]float64{1, 0}, []float64{0, 1}); math.Abs(d-1) > 1e-12 {
		t.Errorf("orthogonal vectors distance = %v", d)
	}
	if d := CosineDistance([]float64{1, 0}, []float64{0, 0}); d != 1 {
		t.Errorf("zero vector distance = %v", d)
	}
	if d := CosineDistance([]float64{1}, []float64{1, 0}); d != 1 {
		t.Errorf("mismatched dims distance = %v", d)
	}
}
