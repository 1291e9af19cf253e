package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"guildhall/internal/config"
	"guildhall/internal/database"
	"guildhall/internal/models"
	"guildhall/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     testJWTSecret,
		Port:          "0",
		RewardChannel: "rewards:events",
		StatsCacheTTL: 60,
		Env:           "test",
	}
}

// newTestServer builds a Server over an in-memory sqlite database with no
// Redis, and a Fiber app with all routes registered.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.ForumModels()...))

	srv, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app, db
}

// authToken signs a bearer token the way the identity service does.
func authToken(t *testing.T, userID uint, admin bool) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// doJSON performs a request against the app, optionally with a bearer token
// and a JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

var (
	userSeq     int
	categorySeq int
)

func createTestUser(t *testing.T, db *gorm.DB, admin bool) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("merchant%d", userSeq),
		Email:    fmt.Sprintf("merchant%d@example.com", userSeq),
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	categorySeq++
	category := &models.Category{
		Name:         fmt.Sprintf("Category %d", categorySeq),
		Slug:         fmt.Sprintf("category-%d", categorySeq),
		DisplayOrder: categorySeq,
		IsActive:     true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestThread(t *testing.T, srv *Server, author *models.User, category *models.Category, title string) *models.Thread {
	t.Helper()
	thread, err := srv.threadService.CreateThread(context.Background(), service.CreateThreadInput{
		Actor:      models.Actor{UserID: author.ID},
		CategoryID: category.ID,
		Title:      title,
		Content:    "Opening post with enough substance to pass validation.",
	})
	require.NoError(t, err)
	return thread
}

func createTestPost(t *testing.T, srv *Server, author *models.User, thread *models.Thread, content string) *models.Post {
	t.Helper()
	post, err := srv.postService.CreatePost(context.Background(), service.CreatePostInput{
		Actor:    models.Actor{UserID: author.ID},
		ThreadID: thread.ID,
		Content:  content,
	})
	require.NoError(t, err)
	return post
}
