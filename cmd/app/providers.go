package main

import (
	"fmt"
	"log/slog"

	"github.com/yanqian/userdirectory/internal/domain/directory"
	"github.com/yanqian/userdirectory/internal/infra/config"
	"github.com/yanqian/userdirectory/internal/infra/userrepo"
	"github.com/yanqian/userdirectory/pkg/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Log.Level)
}

func provideSeedUsers(cfg *config.Config) []directory.User {
	users := make([]directory.User, 0, len(cfg.Directory.Seed))
	for _, seed := range cfg.Directory.Seed {
		if seed.Email != nil {
			users = append(users, directory.NewUserWithEmail(seed.Username, seed.Password, *seed.Email))
			continue
		}
		users = append(users, directory.NewUser(seed.Username, seed.Password))
	}
	return users
}

func provideUserRepository(users []directory.User, logger *slog.Logger) (*userrepo.MemoryRepository, error) {
	repo, err := userrepo.NewMemoryRepository(users...)
	if err != nil {
		return nil, fmt.Errorf("seed user repository: %w", err)
	}
	logger.Info("user repository seeded", "users", repo.Count())
	return repo, nil
}
