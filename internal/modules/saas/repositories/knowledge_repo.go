package repositories

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeRepo interface {
	CreateFile(ctx context.Context, file *models.KnowledgeFile) error
	ListFiles(ctx context.Context, avatarID, userID uuid.UUID) ([]models.KnowledgeFile, error)
	// ClaimPending moves up to limit files to processing and returns them. Files
	// stuck in processing since before staleBefore are claimed again.
	ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]models.KnowledgeFile, error)
	// ReplaceChunks swaps a file's chunks and marks it processed in one transaction
	ReplaceChunks(ctx context.Context, file *models.KnowledgeFile, chunks []models.KnowledgeChunk) error
	MarkError(ctx context.Context, fileID uuid.UUID, message string) error
	// SearchChunks runs the search_knowledge_chunks similarity function
	SearchChunks(ctx context.Context, avatarID uuid.UUID, embedding []float32, threshold float64, limit int) ([]models.KnowledgePassage, error)
}

type knowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepo(db *gorm.DB) KnowledgeRepo {
	return &knowledgeRepo{db: db}
}

func (r *knowledgeRepo) CreateFile(ctx context.Context, file *models.KnowledgeFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *knowledgeRepo) ListFiles(ctx context.Context, avatarID, userID uuid.UUID) ([]models.KnowledgeFile, error) {
	var files []models.KnowledgeFile
	err := r.db.WithContext(ctx).
		Where("avatar_id = ? AND user_id = ?", avatarID, userID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *knowledgeRepo) ClaimPending(ctx context.Context, limit int, staleBefore time.Time) ([]models.KnowledgeFile, error) {
	var claimed []models.KnowledgeFile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []models.KnowledgeFile
		err := claimable(tx, staleBefore).
			Order("created_at ASC").
			Limit(limit).
			Find(&candidates).Error
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, file := range candidates {
			// the same condition guards the update so only one claimer wins
			result := claimable(tx.Model(&models.KnowledgeFile{}), staleBefore).
				Where("id = ?", file.ID).
				Updates(map[string]interface{}{
					"processing_status": models.KnowledgeStatusProcessing,
					"updated_at":        now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				file.ProcessingStatus = models.KnowledgeStatusProcessing
				file.UpdatedAt = now
				claimed = append(claimed, file)
			}
		}
		return nil
	})
	return claimed, err
}

// claimable matches pending files and processing files whose lease ran out
func claimable(tx *gorm.DB, staleBefore time.Time) *gorm.DB {
	return tx.Where("(processing_status = ? OR (processing_status = ? AND updated_at < ?))",
		models.KnowledgeStatusPending, models.KnowledgeStatusProcessing, staleBefore.UTC())
}

func (r *knowledgeRepo) ReplaceChunks(ctx context.Context, file *models.KnowledgeFile, chunks []models.KnowledgeChunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("knowledge_file_id = ?", file.ID).Delete(&models.KnowledgeChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) > 0 {
			if err := tx.CreateInBatches(&chunks, 100).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		return tx.Model(&models.KnowledgeFile{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"processing_status": models.KnowledgeStatusProcessed,
				"chunk_count":       len(chunks),
				"processed_at":      now,
				"error_message":     "",
			}).Error
	})
}

func (r *knowledgeRepo) MarkError(ctx context.Context, fileID uuid.UUID, message string) error {
	return r.db.WithContext(ctx).Model(&models.KnowledgeFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{
			"processing_status": models.KnowledgeStatusError,
			"error_message":     message,
		}).Error
}

func (r *knowledgeRepo) SearchChunks(ctx context.Context, avatarID uuid.UUID, embedding []float32, threshold float64, limit int) ([]models.KnowledgePassage, error) {
	var passages []models.KnowledgePassage
	err := r.db.WithContext(ctx).
		Raw("SELECT chunk_text, similarity FROM search_knowledge_chunks(?, ?, ?, ?)",
			pgvector.NewVector(embedding), avatarID, threshold, limit).
		Scan(&passages).Error
	return passages, err
}
