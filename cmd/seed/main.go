package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"forum/internal/config"
	"forum/internal/db"
	apperrors "forum/internal/errors"
	"forum/internal/logger"
	"forum/internal/repository"
	"forum/internal/service"
)

// SeedData is the layout of the seed file.
type SeedData struct {
	Users []struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"users"`
	Posts []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Tags    string `json:"tags"`
	} `json:"posts"`
}

func main() {
	path := flag.String("file", "seed.json", "path to the seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	data, err := readSeedFile(*path)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	accounts := service.NewAccountService(repository.NewUserRepository(gormDB), log)
	posts := service.NewPostService(repository.NewPostRepository(gormDB), log)

	users, skipped, created, err := seed(context.Background(), accounts, posts, data)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"users_created": users,
		"users_skipped": skipped,
		"posts_created": created,
	}).Info("seed completed")
}

func readSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

// seed registers users (existing usernames are skipped) and creates posts.
func seed(ctx context.Context, accounts service.AccountService, posts service.PostService, data *SeedData) (users, skipped, created int, err error) {
	for _, u := range data.Users {
		if _, err := accounts.Register(ctx, u.Username, u.Password); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateUser) {
				skipped++
				continue
			}
			return users, skipped, created, fmt.Errorf("register %q: %w", u.Username, err)
		}
		users++
	}

	for _, p := range data.Posts {
		if _, err := posts.Create(ctx, p.Title, p.Content, p.Tags); err != nil {
			return users, skipped, created, fmt.Errorf("create post %q: %w", p.Title, err)
		}
		created++
	}
	return users, skipped, created, nil
}
