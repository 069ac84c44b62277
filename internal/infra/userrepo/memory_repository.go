package userrepo

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yanqian/userdirectory/internal/domain/directory"
	apperrors "github.com/yanqian/userdirectory/pkg/errors"
)

// MemoryRepository keeps users in process memory, indexed by username and email.
type MemoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]directory.User
	byEmail    map[string]directory.User
}

// NewMemoryRepository builds a repository seeded with users. It fails with
// directory.ErrDuplicateKey when two users share a username or an email.
func NewMemoryRepository(users ...directory.User) (*MemoryRepository, error) {
	byUsername := make(map[string]directory.User, len(users))
	byEmail := make(map[string]directory.User, len(users))
	for _, user := range users {
		if _, exists := byUsername[user.Username()]; exists {
			msg := fmt.Sprintf("two users can not have the same username %q", user.Username())
			return nil, apperrors.Wrap(directory.CodeDuplicateKey, msg, directory.ErrDuplicateKey)
		}
		byUsername[user.Username()] = user
		if email, ok := user.Email(); ok {
			if _, exists := byEmail[email]; exists {
				msg := fmt.Sprintf("two users can not have the same email %q", email)
				return nil, apperrors.Wrap(directory.CodeDuplicateKey, msg, directory.ErrDuplicateKey)
			}
			byEmail[email] = user
		}
	}
	return &MemoryRepository{
		byUsername: byUsername,
		byEmail:    byEmail,
	}, nil
}

// GetByUsername returns a user by username.
func (r *MemoryRepository) GetByUsername(username string) (directory.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byUsername[username]
	return user, ok
}

// GetByEmail returns a user by email.
func (r *MemoryRepository) GetByEmail(email string) (directory.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[email]
	return user, ok
}

// Add stores the user unless its username or email is already taken.
func (r *MemoryRepository) Add(user directory.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(user)
}

// Remove deletes the user and its email key.
func (r *MemoryRepository) Remove(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.delete(username)
	return ok
}

// Replace implements directory.Repository.
func (r *MemoryRepository) Replace(username string, mutate func(directory.User) (directory.User, bool)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	original, ok := r.delete(username)
	if !ok {
		return false
	}
	updated, ok := mutate(original)
	if ok && r.insert(updated) {
		return true
	}
	r.insert(original)
	return false
}

// Count returns the number of stored users.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername)
}

// ListAll returns a snapshot of every user ordered by username.
func (r *MemoryRepository) ListAll() []directory.User {
	r.mu.RLock()
	users := make([]directory.User, 0, len(r.byUsername))
	for _, user := range r.byUsername {
		users = append(users, user)
	}
	r.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username() < users[j].Username()
	})
	return users
}

// insert requires the write lock.
func (r *MemoryRepository) insert(user directory.User) bool {
	if _, exists := r.byUsername[user.Username()]; exists {
		return false
	}
	email, hasEmail := user.Email()
	if hasEmail {
		if _, exists := r.byEmail[email]; exists {
			return false
		}
	}
	r.byUsername[user.Username()] = user
	if hasEmail {
		r.byEmail[email] = user
	}
	return true
}

// delete requires the write lock.
func (r *MemoryRepository) delete(username string) (directory.User, bool) {
	user, ok := r.byUsername[username]
	if !ok {
		return directory.User{}, false
	}
	delete(r.byUsername, username)
	if email, hasEmail := user.Email(); hasEmail {
		delete(r.byEmail, email)
	}
	return user, true
}

var _ directory.Repository = (*MemoryRepository)(nil)
