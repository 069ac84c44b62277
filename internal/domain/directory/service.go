package directory

import (
	"log/slog"
	"strings"
)

// Service exposes registration, login and account maintenance workflows.
type Service interface {
	RegisterUser(username, password string) bool
	RegisterUserWithEmail(username, password, email string) bool
	LoginWithUsername(username, password string) bool
	LoginWithEmail(email, password string) bool
	RemoveUser(username string) bool
	ChangeUserEmail(username, newEmail string) bool
	GetUserCount() int
	GetUserByUsername(username string) (User, bool)
	GetUserByEmail(email string) (User, bool)
	GetAllUsers() []User
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service over repo.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "directory.service"),
	}
}

func (s *service) RegisterUser(username, password string) bool {
	if isBlank(username) {
		s.logger.Info("registration rejected", "reason", "blank username")
		return false
	}
	return s.add(NewUser(username, password))
}

func (s *service) RegisterUserWithEmail(username, password, email string) bool {
	if isBlank(username) {
		s.logger.Info("registration rejected", "reason", "blank username")
		return false
	}
	if isBlank(email) {
		s.logger.Info("registration rejected", "username", username, "reason", "blank email")
		return false
	}
	return s.add(NewUserWithEmail(username, password, email))
}

func (s *service) add(user User) bool {
	if !s.repo.Add(user) {
		s.logger.Info("registration rejected", "username", user.Username(), "reason", "duplicate key")
		return false
	}
	s.logger.Debug("user registered", "username", user.Username())
	return true
}

func (s *service) LoginWithUsername(username, password string) bool {
	user, found := s.repo.GetByUsername(username)
	return s.checkPassword(user, found, password)
}

func (s *service) LoginWithEmail(email, password string) bool {
	if email == "" {
		return false
	}
	user, found := s.repo.GetByEmail(email)
	return s.checkPassword(user, found, password)
}

func (s *service) checkPassword(user User, found bool, password string) bool {
	if !found {
		s.logger.Info("login denied", "reason", "unknown user")
		return false
	}
	if user.Password() != password {
		s.logger.Info("login denied", "username", user.Username(), "reason", "password mismatch")
		return false
	}
	s.logger.Debug("login accepted", "username", user.Username())
	return true
}

func (s *service) RemoveUser(username string) bool {
	if !s.repo.Remove(username) {
		s.logger.Info("remove rejected", "username", username, "reason", "unknown user")
		return false
	}
	s.logger.Debug("user removed", "username", username)
	return true
}

func (s *service) ChangeUserEmail(username, newEmail string) bool {
	if isBlank(newEmail) {
		s.logger.Info("email change rejected", "username", username, "reason", "blank email")
		return false
	}
	changed := s.repo.Replace(username, func(current User) (User, bool) {
		if email, ok := current.Email(); ok && email == newEmail {
			return current, false
		}
		return current.WithEmail(newEmail), true
	})
	if !changed {
		s.logger.Info("email change rejected", "username", username)
		return false
	}
	s.logger.Debug("email changed", "username", username)
	return true
}

func (s *service) GetUserCount() int {
	return s.repo.Count()
}

func (s *service) GetUserByUsername(username string) (User, bool) {
	return s.repo.GetByUsername(username)
}

func (s *service) GetUserByEmail(email string) (User, bool) {
	return s.repo.GetByEmail(email)
}

func (s *service) GetAllUsers() []User {
	return s.repo.ListAll()
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
