package user

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidationError maps login form fields to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// ValidateCredentials checks the shape of a login form before any lookup.
func ValidateCredentials(email, password string) error {
	errs := map[string]string{}
	if strings.TrimSpace(email) == "" {
		errs["email"] = "Email is required"
	} else if !emailShape.MatchString(email) {
		errs["email"] = "Please enter a valid email"
	}
	if strings.TrimSpace(password) == "" {
		errs["password"] = "Password is required"
	} else if len(password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

// Authenticate validates the form and checks the password against the table.
func (s *Service) Authenticate(email, password string) (Identity, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return Identity{}, err
	}

	user, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return user.Identity(), nil
}

// TokenConfig controls the JWTs issued at sign-in.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// IssueToken signs an HS256 token carrying the identity claims.
func IssueToken(id Identity, cfg TokenConfig, now time.Time) (string, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	claims := jwt.MapClaims{
		"user_id": id.ID,
		"email":   id.Email,
		"name":    id.Name,
		"role":    id.Role,
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}
