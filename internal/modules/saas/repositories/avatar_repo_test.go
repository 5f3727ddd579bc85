package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestAvatarTrashRestoreAndPurge(t *testing.T) {
	db := newTestDB(t)
	repo := NewAvatarRepo(db)
	ctx := context.Background()

	avatar := seedAvatar(t, db)

	if err := repo.Trash(ctx, avatar.ID, avatar.UserID); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if _, err := repo.GetByID(ctx, avatar.ID, avatar.UserID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("trashed avatar should not be found, got %v", err)
	}

	if err := repo.Restore(ctx, avatar.ID, avatar.UserID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, err := repo.GetByID(ctx, avatar.ID, avatar.UserID)
	if err != nil {
		t.Fatalf("restored avatar not found: %v", err)
	}
	if got.TrashedAt != nil {
		t.Errorf("restore should clear trashed_at")
	}

	if err := repo.Trash(ctx, avatar.ID, avatar.UserID); err != nil {
		t.Fatalf("trash again: %v", err)
	}

	// Retention window not yet elapsed
	n, err := repo.PurgeTrashed(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("purge before cutoff removed %d (err %v)", n, err)
	}

	n, err = repo.PurgeTrashed(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged avatar, got %d", n)
	}
	if err := repo.Restore(ctx, avatar.ID, avatar.UserID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("purged avatar should not be restorable, got %v", err)
	}
}

func TestAvatarTrashIsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewAvatarRepo(db)
	avatar := seedAvatar(t, db)
	intruder := seedAvatar(t, db)

	err := repo.Trash(context.Background(), avatar.ID, intruder.UserID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for another tenant, got %v", err)
	}
}
