package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const (
	KnowledgeStatusPending    = "pending"
	KnowledgeStatusProcessing = "processing"
	KnowledgeStatusProcessed  = "processed"
	KnowledgeStatusError      = "error"
)

// KnowledgeFile is an uploaded document whose extracted text feeds retrieval
type KnowledgeFile struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AvatarID uuid.UUID `gorm:"type:uuid;not null;index" json:"avatar_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	FileName      string `gorm:"type:text;not null" json:"file_name"`
	FileURL       string `gorm:"type:text" json:"file_url,omitempty"`
	ExtractedText string `gorm:"type:text" json:"-"`

	IsLinked    bool `gorm:"type:boolean;not null" json:"is_linked"`
	IsShareable bool `gorm:"type:boolean;not null" json:"is_shareable"`

	ProcessingStatus string     `gorm:"type:text;not null;default:'pending';index" json:"processing_status"`
	ErrorMessage     string     `gorm:"type:text" json:"error_message,omitempty"`
	ChunkCount       int        `gorm:"type:integer;not null;default:0" json:"chunk_count"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KnowledgeFile) TableName() string {
	return "avatar_knowledge_files"
}

func (f *KnowledgeFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.ProcessingStatus == "" {
		f.ProcessingStatus = KnowledgeStatusPending
	}
	return nil
}

// KnowledgeChunk is one embedded slice of a processed file
type KnowledgeChunk struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	KnowledgeFileID uuid.UUID        `gorm:"type:uuid;not null;index" json:"knowledge_file_id"`
	AvatarID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"avatar_id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
	ChunkIndex      int              `gorm:"type:integer;not null" json:"chunk_index"`
	ChunkText       string           `gorm:"type:text;not null" json:"chunk_text"`
	Embedding       *pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (KnowledgeChunk) TableName() string {
	return "avatar_knowledge_chunks"
}

func (c *KnowledgeChunk) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// KnowledgePassage is a similarity-search hit
type KnowledgePassage struct {
	ChunkText  string  `json:"chunk_text"`
	Similarity float64 `json:"similarity"`
}

// CreateKnowledgeFileRequest registers a document whose text was already extracted
type CreateKnowledgeFileRequest struct {
	FileName      string `json:"file_name"`
	FileURL       string `json:"file_url,omitempty"`
	ExtractedText string `json:"extracted_text"`
	IsLinked      *bool  `json:"is_linked,omitempty"`
	IsShareable   bool   `json:"is_shareable,omitempty"`
}
