package seed

import (
	"fmt"
	"log"

	"guildhall/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers   int
	NumThreads int
	NumReplies int
}

var categoryNames = []string{
	"General Discussion", "Buying & Selling", "Shipping & Logistics",
	"Payments & Escrow", "Disputes & Refunds", "Seller Lounge",
	"Product Reviews", "Feature Requests", "Site Feedback",
}

var reactionTypes = []string{"like", "helpful", "insightful", "funny", "agree"}

// Seeder populates the database with demo forum data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all forum data. Child tables first so foreign keys hold.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing forum data...")
	tables := []string{
		"forum_poll_votes", "forum_poll_options", "forum_polls",
		"forum_reactions", "forum_posts", "forum_threads",
		"forum_categories", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database with categories, users, threads, replies,
// reactions and a few polls.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users, %d threads, %d replies...",
		opts.NumUsers, opts.NumThreads, opts.NumReplies)

	categories, err := s.seedCategories()
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("✓ %d categories created", len(categories))

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	threads, err := s.seedThreads(users, categories, opts.NumThreads)
	if err != nil {
		return fmt.Errorf("failed to create threads: %w", err)
	}
	log.Printf("✓ %d threads created", len(threads))

	posts, err := s.seedReplies(users, threads, opts.NumReplies)
	if err != nil {
		return fmt.Errorf("failed to create replies: %w", err)
	}
	log.Printf("✓ %d replies created", len(posts))

	if err := s.seedReactions(users, posts); err != nil {
		return fmt.Errorf("failed to create reactions: %w", err)
	}
	log.Println("✓ reactions created")

	if err := s.seedPolls(users, threads); err != nil {
		return fmt.Errorf("failed to create polls: %w", err)
	}
	log.Println("✓ polls created")

	return nil
}

func (s *Seeder) seedCategories() ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames))
	for i, name := range categoryNames {
		category, err := s.factory.CreateCategory(name, i)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		// the first user is the demo admin
		user, err := s.factory.CreateUser(func(u *models.User) {
			if i == 0 {
				u.Username = "admin"
				u.IsAdmin = true
			}
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedThreads(users []*models.User, categories []*models.Category, n int) ([]*models.Thread, error) {
	threads := make([]*models.Thread, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.r.Intn(len(users))]
		category := categories[s.factory.r.Intn(len(categories))]
		thread, err := s.factory.CreateThread(author, category, func(t *models.Thread) {
			// a sprinkle of pinned and locked threads
			t.IsPinned = s.factory.r.Intn(20) == 0
			t.IsLocked = s.factory.r.Intn(25) == 0
		})
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func (s *Seeder) seedReplies(users []*models.User, threads []*models.Thread, n int) ([]*models.Post, error) {
	if len(threads) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.r.Intn(len(users))]
		thread := threads[s.factory.r.Intn(len(threads))]
		post, err := s.factory.CreatePost(author, thread)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedReactions(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			// roughly a quarter of users react to any given post
			if s.factory.r.Intn(4) != 0 {
				continue
			}
			reactionType := reactionTypes[s.factory.r.Intn(len(reactionTypes))]
			if err := s.factory.CreateReaction(user, post, reactionType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedPolls(users []*models.User, threads []*models.Thread) error {
	for _, thread := range threads {
		if s.factory.r.Intn(10) != 0 {
			continue
		}
		options := make([]string, 0, 4)
		for i := 0; i < s.factory.r.Intn(3)+2; i++ {
			options = append(options, gofakeit.ProductName())
		}
		poll, err := s.factory.CreatePoll(thread, gofakeit.Question(), options)
		if err != nil {
			return err
		}
		for _, user := range users {
			if s.factory.r.Intn(3) != 0 {
				continue
			}
			if err := s.factory.CreatePollVote(user, poll); err != nil {
				return err
			}
		}
	}
	return nil
}
