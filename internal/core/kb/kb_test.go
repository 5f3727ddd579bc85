package kb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{"empty", "   \n ", 10, 0, nil},
		{"fits in one", "hello world", 20, 2, []string{"hello world"}},
		{"splits on words", "aa bb cc dd", 5, 0, []string{"aa bb", "cc dd"}},
		{"overlap", "aa bb cc dd ee", 8, 1, []string{"aa bb cc", "cc dd ee"}},
		{"long word", "short enormousword end", 6, 0, []string{"short", "enormousword", "end"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkText(tt.text, tt.size, tt.overlap)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("ChunkText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkTextCountsRunes(t *testing.T) {
	text := strings.Repeat("价格 ", 300)
	for _, chunk := range ChunkText(text, 50, 3) {
		if n := utf8.RuneCountInString(chunk); n > 50 {
			t.Fatalf("chunk of %d runes exceeds size", n)
		}
		if !utf8.ValidString(chunk) {
			t.Fatalf("chunk split a rune: %q", chunk)
		}
	}
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) ModelName() string { return "test-embed" }

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

type fakeFactory struct {
	embedder *fakeEmbedder
	keys     []string
}

func (f *fakeFactory) ChatClient(apiKey string) llm.ChatCompleter { return nil }

func (f *fakeFactory) Embedder(apiKey string) llm.Embedder {
	f.keys = append(f.keys, apiKey)
	return f.embedder
}

type mapCache struct {
	data map[string][]float32
}

func (m *mapCache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	v, ok := m.data[model+"|"+text]
	return v, ok, nil
}

func (m *mapCache) Set(ctx context.Context, model, text string, embedding []float32) error {
	m.data[model+"|"+text] = embedding
	return nil
}

type fakeChunks struct {
	lastEmbedding []float32
	lastThreshold float64
	lastLimit     int
}

func (f *fakeChunks) SearchChunks(ctx context.Context, avatarID uuid.UUID, embedding []float32, threshold float64, limit int) ([]models.KnowledgePassage, error) {
	f.lastEmbedding = embedding
	f.lastThreshold = threshold
	f.lastLimit = limit
	return []models.KnowledgePassage{{ChunkText: "We ship nationwide.", Similarity: 0.91}}, nil
}

func TestRetrieverUsesCache(t *testing.T) {
	embedder := &fakeEmbedder{}
	factory := &fakeFactory{embedder: embedder}
	chunks := &fakeChunks{}
	r := NewRetriever(chunks, factory, &mapCache{data: map[string][]float32{}})

	for i := 0; i < 3; i++ {
		passages, err := r.Search(context.Background(), "sk-1", uuid.New(), "do you ship?", 0.7, 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(passages) != 1 {
			t.Fatalf("expected a passage, got %v", passages)
		}
	}

	if embedder.calls != 1 {
		t.Errorf("repeated queries should hit the cache, embedder called %d times", embedder.calls)
	}
	if chunks.lastThreshold != 0.7 || chunks.lastLimit != 5 {
		t.Errorf("search parameters not forwarded: %+v", chunks)
	}
	if factory.keys[0] != "sk-1" {
		t.Errorf("embedding must use the tenant key")
	}
}

func TestRetrieverEmptyQueryAndErrors(t *testing.T) {
	embedder := &fakeEmbedder{}
	r := NewRetriever(&fakeChunks{}, &fakeFactory{embedder: embedder}, nil)

	passages, err := r.Search(context.Background(), "k", uuid.New(), "  ", 0.7, 5)
	if err != nil || passages != nil || embedder.calls != 0 {
		t.Errorf("blank queries skip retrieval")
	}

	embedder.err = errors.New("rate limited")
	if _, err := r.Search(context.Background(), "k", uuid.New(), "hi", 0.7, 5); err == nil {
		t.Errorf("embedding failures are returned")
	}
}

type memFiles struct {
	pending     []models.KnowledgeFile
	replaced    map[uuid.UUID][]models.KnowledgeChunk
	errored     map[uuid.UUID]string
	staleBefore time.Time
}

func (m *memFiles) ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]models.KnowledgeFile, error) {
	m.staleBefore = staleBefore
	out := m.pending
	m.pending = nil
	return out, nil
}

func (m *memFiles) ReplaceChunks(ctx context.Context, file *models.KnowledgeFile, chunks []models.KnowledgeChunk) error {
	m.replaced[file.ID] = chunks
	return nil
}

func (m *memFiles) MarkError(ctx context.Context, fileID uuid.UUID, message string) error {
	// a real store refuses to write on a dead context
	if err := ctx.Err(); err != nil {
		return err
	}
	m.errored[fileID] = message
	return nil
}

type memKeys map[uuid.UUID]string

func (m memKeys) GetActiveKey(ctx context.Context, userID uuid.UUID, provider string) (string, error) {
	k, ok := m[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return k, nil
}

func TestProcessorIngestsPendingFiles(t *testing.T) {
	withKey := uuid.New()
	withoutKey := uuid.New()

	good := models.KnowledgeFile{ID: uuid.New(), UserID: withKey, AvatarID: uuid.New(), FileName: "faq.txt", ExtractedText: strings.Repeat("shipping policy ", 200)}
	empty := models.KnowledgeFile{ID: uuid.New(), UserID: withKey, FileName: "blank.txt", ExtractedText: " "}
	noKey := models.KnowledgeFile{ID: uuid.New(), UserID: withoutKey, FileName: "other.txt", ExtractedText: "hello"}

	files := &memFiles{
		pending:  []models.KnowledgeFile{good, empty, noKey},
		replaced: map[uuid.UUID][]models.KnowledgeChunk{},
		errored:  map[uuid.UUID]string{},
	}
	p := NewProcessor(files, memKeys{withKey: "sk-tenant"}, &fakeFactory{embedder: &fakeEmbedder{}})

	n, err := p.ProcessPending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 processed file, got %d", n)
	}

	chunks := files.replaced[good.ID]
	if len(chunks) < 2 {
		t.Fatalf("expected the long file to be chunked, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i || c.Embedding == nil || c.AvatarID != good.AvatarID {
			t.Errorf("chunk %d malformed: %+v", i, c)
		}
	}

	if files.errored[empty.ID] == "" || files.errored[noKey.ID] != "no OpenAI API key found" {
		t.Errorf("failing files must be marked error, got %v", files.errored)
	}
}

// cancellingEmbedder simulates the run's deadline expiring mid-embedding
type cancellingEmbedder struct {
	fakeEmbedder
	cancel context.CancelFunc
}

func (c *cancellingEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	c.cancel()
	return nil, context.Canceled
}

type cancellingFactory struct {
	embedder *cancellingEmbedder
}

func (f *cancellingFactory) ChatClient(apiKey string) llm.ChatCompleter { return nil }
func (f *cancellingFactory) Embedder(apiKey string) llm.Embedder { return f.embedder }

func TestProcessorMarksErrorAfterDeadline(t *testing.T) {
	userID := uuid.New()
	first := models.KnowledgeFile{ID: uuid.New(), UserID: userID, FileName: "big.txt", ExtractedText: "warranty terms"}
	second := models.KnowledgeFile{ID: uuid.New(), UserID: userID, FileName: "next.txt", ExtractedText: "return policy"}

	files := &memFiles{
		pending:  []models.KnowledgeFile{first, second},
		replaced: map[uuid.UUID][]models.KnowledgeChunk{},
		errored:  map[uuid.UUID]string{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	embedder := &cancellingEmbedder{cancel: cancel}

	p := NewProcessor(files, memKeys{userID: "sk-tenant"}, &cancellingFactory{embedder: embedder})
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	n, err := p.ProcessPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("processed = %d, want 0", n)
	}
	if files.errored[first.ID] == "" {
		t.Errorf("the file that hit the deadline must still be marked error, got %v", files.errored)
	}
	if _, touched := files.errored[second.ID]; touched || embedder.calls != 1 {
		t.Errorf("files after the deadline must be left for reclaim (errored %v, embed calls %d)", files.errored, embedder.calls)
	}
	if want := fixed.Add(-DefaultClaimLease); !files.staleBefore.Equal(want) {
		t.Errorf("staleBefore = %v, want %v", files.staleBefore, want)
	}
}
