package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grocerystore/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const identityKey = "identity"

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TokenLookup resolves an API key to its user.
type TokenLookup interface {
	UserByToken(ctx context.Context, key string) (*models.User, error)
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UserByToken(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	var token models.Token
	if err := s.db.WithContext(ctx).Preload("User").Where(&models.Token{Key: key}).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &token.User, nil
}

// CreateUser stores a user with a bcrypt password hash.
func (s *Store) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, PasswordHash: string(hash)}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return nil, fmt.Errorf("create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUsernameTaken
	}
	return &user, nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Authenticate returns the user when username and password match.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where(&models.User{Username: username}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(&user, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// IssueToken returns the user's token, creating it on first call.
func (s *Store) IssueToken(ctx context.Context, userID uint) (*models.Token, error) {
	token := models.Token{Key: NewKey(), UserID: userID}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&token).Error; err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	var stored models.Token
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}
	return &stored, nil
}

// NewKey returns a random 40 character hex key.
func NewKey() string {
	a, b := uuid.New(), uuid.New()
	return strings.ReplaceAll(a.String(), "-", "") + strings.ReplaceAll(b.String(), "-", "")[:8]
}

// Required rejects requests without a valid "Bearer <key>" or "Token <key>"
// Authorization header and stores the caller's identity in the context.
func Required(lookup TokenLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := parseAuthorization(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication credentials were not provided.",
			})
		}

		user, err := lookup.UserByToken(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token.",
				})
			}
			return err
		}

		c.Locals(identityKey, user.Identity())
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by Required.
func IdentityFrom(c *fiber.Ctx) (models.Identity, bool) {
	who, ok := c.Locals(identityKey).(models.Identity)
	return who, ok
}

func parseAuthorization(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}
