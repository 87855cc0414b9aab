package user

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repository interface {
	List() []User
	GetByID(id int) (User, error)
	GetByEmail(email string) (User, error)
}

// InMemoryRepository is the fixed credential table.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{users: make([]User, 0, len(seed))}
	repo.users = append(repo.users, seed...)
	return repo
}

type credential struct {
	email    string
	password string
	role     string
}

var mockCredentials = []credential{
	{"admin@shopease.com", "admin123", RoleAdmin},
	{"user@shopease.com", "user123", RoleUser},
	{"demo@shopease.com", "demo123", RoleUser},
}

// MockUsers hashes the demo credentials. Ids follow table order so the same
// login always maps to the same saved records.
func MockUsers(cost int) ([]User, error) {
	out := make([]User, 0, len(mockCredentials))
	for i, cred := range mockCredentials {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cred.password), cost)
		if err != nil {
			return nil, err
		}
		out = append(out, User{ID: i + 1, Email: cred.email, Password: string(hashed), Role: cred.role})
	}
	return out, nil
}

func (r *InMemoryRepository) List() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users
}

func (r *InMemoryRepository) GetByID(id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}

	return User{}, ErrNotFound
}
