package repositories

import (
	"context"
	"testing"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database. One connection means
// concurrent transactions queue behind each other the way row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.Avatar{},
		&models.PromptVersion{},
		&models.Product{},
		&models.Promotion{},
		&models.KnowledgeFile{},
		&models.Memory{},
		&models.PlatformAPIKey{},
		&models.ProviderKey{},
		&models.APIRequestLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedAvatar(t *testing.T, db *gorm.DB) *models.Avatar {
	t.Helper()
	avatar := &models.Avatar{
		UserID:       uuid.New(),
		Name:         "Aina",
		CompanyName:  "Gadget Hub",
		PriceVisible: true,
	}
	if err := NewAvatarRepo(db).Create(context.Background(), avatar); err != nil {
		t.Fatalf("failed to seed avatar: %v", err)
	}
	return avatar
}
