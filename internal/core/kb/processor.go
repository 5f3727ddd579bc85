package kb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/metrics"
)

const (
	defaultClaimBatch = 5
	// DefaultClaimLease is how long a file may sit in processing before another
	// run reclaims it. It must outlive one scheduled run.
	DefaultClaimLease = 15 * time.Minute
)

// FileStore is the ingestion side of the knowledge repository
type FileStore interface {
	// ClaimPending moves pending files, and processing files last touched before
	// staleBefore, to processing
	ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]models.KnowledgeFile, error)
	ReplaceChunks(ctx context.Context, file *models.KnowledgeFile, chunks []models.KnowledgeChunk) error
	MarkError(ctx context.Context, fileID uuid.UUID, message string) error
}

type KeyStore interface {
	GetActiveKey(ctx context.Context, userID uuid.UUID, provider string) (string, error)
}

// Processor turns pending knowledge files into embedded chunks
type Processor struct {
	files     FileStore
	keys      KeyStore
	clients   llm.ClientFactory
	chunkSize int
	overlap   int
	batch     int
	lease     time.Duration
	now       func() time.Time
}

func NewProcessor(files FileStore, keys KeyStore, clients llm.ClientFactory) *Processor {
	return &Processor{
		files:     files,
		keys:      keys,
		clients:   clients,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlapWords,
		batch:     defaultClaimBatch,
		lease:     DefaultClaimLease,
		now:       time.Now,
	}
}

// ProcessPending claims a batch of pending (or abandoned) files and ingests
// each one. A failing file is marked error; the others continue. Once ctx is
// done the rest of the batch is left for a later run to reclaim.
func (p *Processor) ProcessPending(ctx context.Context) (int, error) {
	files, err := p.files.ClaimPending(ctx, p.batch, p.now().Add(-p.lease))
	if err != nil {
		return 0, fmt.Errorf("failed to claim knowledge files: %w", err)
	}

	processed := 0
	for i := range files {
		if ctx.Err() != nil {
			log.Warn().Int("left", len(files)-i).Msg("⚠️ Ingest run out of time, remaining files will be reclaimed")
			break
		}
		file := &files[i]
		if err := p.processFile(ctx, file); err != nil {
			log.Error().Err(err).Str("file_id", file.ID.String()).Str("file", file.FileName).Msg("❌ Knowledge file processing failed")
			metrics.KnowledgeFilesProcessed.WithLabelValues(models.KnowledgeStatusError).Inc()
			// the run's deadline may be what failed the file
			if markErr := p.files.MarkError(context.WithoutCancel(ctx), file.ID, err.Error()); markErr != nil {
				log.Error().Err(markErr).Str("file_id", file.ID.String()).Msg("❌ Failed to mark knowledge file as error")
			}
			continue
		}
		metrics.KnowledgeFilesProcessed.WithLabelValues(models.KnowledgeStatusProcessed).Inc()
		processed++
	}
	return processed, nil
}

func (p *Processor) processFile(ctx context.Context, file *models.KnowledgeFile) error {
	texts := ChunkText(file.ExtractedText, p.chunkSize, p.overlap)
	if len(texts) == 0 {
		return errors.New("no extracted text to process")
	}

	apiKey, err := p.keys.GetActiveKey(ctx, file.UserID, models.ProviderOpenAI)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("no OpenAI API key found")
		}
		return fmt.Errorf("failed to load provider key: %w", err)
	}

	embeddings, err := p.clients.Embedder(apiKey).GenerateBatchEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: got %d, expected %d", len(embeddings), len(texts))
	}

	chunks := make([]models.KnowledgeChunk, 0, len(texts))
	for i, text := range texts {
		vec := pgvector.NewVector(embeddings[i])
		chunks = append(chunks, models.KnowledgeChunk{
			KnowledgeFileID: file.ID,
			AvatarID:        file.AvatarID,
			UserID:          file.UserID,
			ChunkIndex:      i,
			ChunkText:       text,
			Embedding:       &vec,
		})
	}

	if err := p.files.ReplaceChunks(ctx, file, chunks); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	log.Info().Str("file_id", file.ID.String()).Int("chunks", len(chunks)).Msg("📚 Knowledge file processed")
	return nil
}
