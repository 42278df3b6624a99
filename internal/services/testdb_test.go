package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// setupTestDB opens a fresh in-memory sqlite database per test, migrated with
// the full schema. cache=shared keeps the pooled connections on the same
// database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Follow{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return &user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *models.User, title string, published bool) *models.Project {
	t.Helper()

	project := models.Project{
		Title:       title,
		Description: "a description long enough to pass validation",
		IsPublished: published,
		UserID:      owner.ID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project %q: %v", title, err)
	}
	return &project
}
