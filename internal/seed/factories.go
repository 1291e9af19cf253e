// Package seed provides helpers to create demo forum data for development
// and testing. Not wired into the server; run via cmd/seed.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"guildhall/internal/models"
	"guildhall/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:   gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:      gofakeit.Email(),
		Reputation: gofakeit.Number(0, 2500),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory constructs and persists a category.
func (f *Factory) CreateCategory(name string, displayOrder int, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name:         name,
		Description:  gofakeit.Sentence(12),
		Slug:         validation.Slugify(name),
		DisplayOrder: displayOrder,
		IsActive:     true,
	}

	for _, override := range overrides {
		override(category)
	}

	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateThread constructs and persists a thread together with its opening
// post, keeping post_count and last_activity_at consistent.
func (f *Factory) CreateThread(author *models.User, category *models.Category, overrides ...func(*models.Thread)) (*models.Thread, error) {
	title := strings.TrimSuffix(gofakeit.Sentence(f.r.Intn(6)+4), ".")
	createdAt := f.pastTimestamp(90)

	thread := &models.Thread{
		CategoryID:     category.ID,
		AuthorID:       author.ID,
		Title:          title,
		Slug:           fmt.Sprintf("%s-%d", validation.Slugify(title), f.r.Intn(100000)),
		PostCount:      1,
		ViewCount:      gofakeit.Number(0, 5000),
		LastActivityAt: createdAt,
		CreatedAt:      createdAt,
	}

	for _, override := range overrides {
		override(thread)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		root := &models.Post{
			ThreadID:  thread.ID,
			AuthorID:  thread.AuthorID,
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			Status:    models.PostStatusPublished,
			CreatedAt: thread.CreatedAt,
		}
		return tx.Create(root).Error
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// CreatePost constructs and persists a reply in the given thread and bumps
// the thread's counters the way the write path does.
func (f *Factory) CreatePost(author *models.User, thread *models.Thread, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		ThreadID:  thread.ID,
		AuthorID:  author.ID,
		Content:   gofakeit.Paragraph(1, 2, 10, "\n"),
		Status:    models.PostStatusPublished,
		CreatedAt: f.between(thread.CreatedAt, time.Now()),
	}

	for _, override := range overrides {
		override(post)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", thread.ID).
			UpdateColumns(map[string]interface{}{
				"post_count":       gorm.Expr("post_count + 1"),
				"last_activity_at": post.CreatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	thread.PostCount++
	return post, nil
}

// CreateReaction persists a reaction row, ignoring duplicates.
func (f *Factory) CreateReaction(user *models.User, post *models.Post, reactionType string) error {
	reaction := &models.Reaction{
		UserID:       user.ID,
		PostID:       post.ID,
		ReactionType: reactionType,
	}
	err := f.db.Create(reaction).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// CreatePoll attaches a poll with the given options to a thread.
func (f *Factory) CreatePoll(thread *models.Thread, question string, options []string) (*models.ThreadPoll, error) {
	poll := &models.ThreadPoll{
		ThreadID: thread.ID,
		Question: question,
	}
	for i, label := range options {
		poll.Options = append(poll.Options, models.PollOption{Label: label, Position: i})
	}
	if err := f.db.Create(poll).Error; err != nil {
		return nil, err
	}
	return poll, nil
}

// CreatePollVote records a vote for a random option of the poll.
func (f *Factory) CreatePollVote(user *models.User, poll *models.ThreadPoll) error {
	if len(poll.Options) == 0 {
		return nil
	}
	option := poll.Options[f.r.Intn(len(poll.Options))]
	vote := &models.PollVote{
		PollID:   poll.ID,
		OptionID: option.ID,
		UserID:   user.ID,
	}
	err := f.db.Create(vote).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// pastTimestamp returns a time spread over the last maxDays days.
func (f *Factory) pastTimestamp(maxDays int) time.Time {
	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().UTC().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)
}

// between returns a random instant in [from, to].
func (f *Factory) between(from, to time.Time) time.Time {
	if !to.After(from) {
		return from
	}
	span := to.Sub(from)
	return from.Add(time.Duration(f.r.Int63n(int64(span))))
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
