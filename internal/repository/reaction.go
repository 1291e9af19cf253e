package repository

import (
	"context"

	"guildhall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Toggle(ctx context.Context, userID, postID uint, reactionType string) (bool, error)
	CountsByType(ctx context.Context, postID uint) (map[string]int64, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Reaction, error)
	CountReceivedByAuthor(ctx context.Context, authorID uint) (int64, error)
	DeleteByPost(ctx context.Context, postID uint) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

type reactionCount struct {
	ReactionType string
	Count        int64
}

// Toggle adds the reaction if the (user, post, type) tuple is absent, removes
// it if present. The insert uses ON CONFLICT DO NOTHING against the unique
// index, so two concurrent toggles resolve to exactly one net state change:
// the insert that loses the race sees zero affected rows and deletes instead.
func (r *reactionRepository) Toggle(ctx context.Context, userID, postID uint, reactionType string) (bool, error) {
	reaction := models.Reaction{
		UserID:       userID,
		PostID:       postID,
		ReactionType: reactionType,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&reaction)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND reaction_type = ?", userID, postID, reactionType).
		Delete(&models.Reaction{}).Error
	return false, err
}

func (r *reactionRepository) CountsByType(ctx context.Context, postID uint) (map[string]int64, error) {
	var rows []reactionCount
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ReactionType] = row.Count
	}
	return counts, nil
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&reactions).Error
	return reactions, err
}

// CountReceivedByAuthor counts reactions other users left on the author's
// posts. This is the number that feeds reputation, not reactions given.
func (r *reactionRepository) CountReceivedByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Joins("JOIN forum_posts ON forum_posts.id = forum_reactions.post_id").
		Where("forum_posts.author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *reactionRepository) DeleteByPost(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Reaction{}).Error
}
