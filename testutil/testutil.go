// Package testutil builds the fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bod/common"
	"bod/content"
	"bod/database"
	"bod/models"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := common.OpenMemoryDb()
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func NewGormRepos(t testing.TB) *content.Repositories {
	return content.NewGormRepositories(NewDB(t))
}

func NewLocalRepos(t testing.TB) *content.Repositories {
	return content.NewLocalRepositories(content.NewMemoryStorage())
}

// Backends runs fn once per repository backend.
func Backends(t *testing.T, fn func(t *testing.T, repos *content.Repositories)) {
	t.Run("gorm", func(t *testing.T) { fn(t, NewGormRepos(t)) })
	t.Run("local", func(t *testing.T) { fn(t, NewLocalRepos(t)) })
}

func init() {
	gin.SetMode(gin.TestMode)
}

// CreateUser stores a user with a bcrypt hash of password.
func CreateUser(t testing.TB, repos *content.Repositories, username, password string) *models.User {
	t.Helper()
	hash, err := common.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Username: username, PasswordHash: hash, Role: "admin"}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}
