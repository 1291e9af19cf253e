package repository

import (
	"context"
	"fmt"
	"testing"

	"guildhall/internal/database"
	"guildhall/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates a fresh in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(database.ForumModels()...))
	return db
}

var userSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("trader%d", userSeq),
		Email:    fmt.Sprintf("trader%d@example.com", userSeq),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

var categorySeq int

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	categorySeq++
	category := &models.Category{
		Name:         fmt.Sprintf("Category %d", categorySeq),
		Description:  "test category",
		Slug:         fmt.Sprintf("category-%d", categorySeq),
		DisplayOrder: categorySeq,
		IsActive:     true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

var threadSeq int

func createTestThread(t *testing.T, db *gorm.DB, categoryID, authorID uint) *models.Thread {
	t.Helper()
	threadSeq++
	repo := NewThreadRepository(db)
	thread := &models.Thread{
		CategoryID: categoryID,
		AuthorID:   authorID,
		Title:      "How do I price a vintage lens?",
		Slug:       fmt.Sprintf("how-do-i-price-a-vintage-lens-%d", threadSeq),
	}
	root := &models.Post{Content: "Looking for pricing advice."}
	require.NoError(t, repo.CreateWithRootPost(context.Background(), thread, root))
	return thread
}

func createTestPost(t *testing.T, db *gorm.DB, threadID, authorID uint, content string) *models.Post {
	t.Helper()
	repo := NewPostRepository(db)
	post := &models.Post{
		ThreadID: threadID,
		AuthorID: authorID,
		Content:  content,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}
