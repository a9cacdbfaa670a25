package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum/internal/db"
	"forum/internal/repository"
	"forum/internal/service"
)

const seedJSON = `{
  "users": [
    {"username": "alice", "password": "secret"},
    {"username": "alice", "password": "again"},
    {"username": "bob", "password": "secret"}
  ],
  "posts": [
    {"title": "Welcome", "content": "First post", "tags": "meta"},
    {"title": "AAPL earnings", "content": "Thoughts?", "tags": "stocks,aapl"}
  ]
}`

func TestSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	data, err := readSeedFile(path)
	require.NoError(t, err)

	gormDB, err := db.Open(db.DriverSQLite, filepath.Join(dir, "forum.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log, _ := logtest.NewNullLogger()
	accounts := service.NewAccountService(repository.NewUserRepository(gormDB), log)
	posts := service.NewPostService(repository.NewPostRepository(gormDB), log)

	users, skipped, created, err := seed(context.Background(), accounts, posts, data)
	require.NoError(t, err)
	assert.Equal(t, 2, users)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 2, created)

	listed, err := posts.List(context.Background(), service.Page{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Welcome", listed[0].Title)
}

func TestReadSeedFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := readSeedFile(path)
	assert.Error(t, err)

	_, err = readSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
