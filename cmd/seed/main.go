package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/joho/godotenv"

	"socialboard/internal/auth"
	"socialboard/internal/config"
	"socialboard/internal/domain"
	"socialboard/internal/store/postgres"
)

// seed fills an empty database with a demo account and a set of fake users so
// the search, friends and feed pages have something to show. Safe to re-run:
// existing users are left alone.

var fakeNames = []string{
	"Jane_Smith", "Bob_Miller", "Alice_Jones", "Michael_Carter", "Sara_Parker",
	"James_Brown", "Emily_Davis", "David_Evans", "Linda_Miller", "Josh_Taylor",
	"Olivia_Hill", "Ethan_Clark", "Sophia_Wilson", "Mason_Roberts", "Ava_Richards",
	"William_Wright", "Mia_Turner", "Benjamin_Reed", "Amelia_Cooper",
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if cfg.DBDSN == "" {
		_, _ = os.Stderr.WriteString("APP_DB_DSN is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	pool, err := postgres.Open(ctx, cfg.DBDSN)
	if err != nil {
		logger.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	users := postgres.NewUsersStore(pool)
	posts := postgres.NewPostsStore(pool)

	if err := seedUser(ctx, users, "John_Doe", "john_doe@example.com", "changeme123", nil); err != nil {
		logger.Error("seed John_Doe failed", "err", err)
		os.Exit(1)
	}

	created := 0
	for _, name := range fakeNames {
		samples := []string{
			fmt.Sprintf("Hello from %s!", name),
			fmt.Sprintf("Enjoying the day, %s here!", name),
			fmt.Sprintf("Another post from %s.", name),
		}
		err := seedUser(ctx, users, name, strings.ToLower(name)+"@example.com", "test123", func(userID string) error {
			for _, text := range samples {
				if _, err := posts.Insert(ctx, userID, text, ""); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.Error("seed user failed", "username", name, "err", err)
			os.Exit(1)
		}
		created++
	}

	logger.Info("seed complete", "users", created+1)
}

func seedUser(ctx context.Context, users *postgres.UsersStore, username, email, password string, after func(userID string) error) error {
	if _, err := users.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	u, err := users.CreateUser(ctx, email, username, hash)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return err
	}

	if after != nil {
		return after(u.ID)
	}
	return nil
}
