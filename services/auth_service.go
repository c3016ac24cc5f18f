package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/v3blogs/api-go/config"
	"github.com/v3blogs/api-go/mailer"
	"github.com/v3blogs/api-go/models"
)

type AuthService struct {
	db       *gorm.DB
	secret   []byte
	resetTTL time.Duration
	mailer   mailer.Mailer
	now      func() time.Time
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(db *gorm.DB, cfg *config.Config, m mailer.Mailer) *AuthService {
	ttl := cfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AuthService{
		db:       db,
		secret:   []byte(cfg.SecretKey),
		resetTTL: ttl,
		mailer:   m,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// resetClaims is the payload of a password reset token. Fingerprint binds the
// token to the password hash at issue time, so it stops verifying once used.
type resetClaims struct {
	UserID      uint   `json:"reset_password"`
	Fingerprint string `json:"pwd"`
	jwt.RegisteredClaims
}

func (s *AuthService) hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates an account. Surrounding whitespace is stripped from
// username before it is validated and stored.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validate.Struct(registration{Username: username, Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: &hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAvailable(tx, username, email); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if err == nil {
		return user, nil
	}
	if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration.
		if cerr := checkAvailable(s.db.WithContext(ctx), username, email); cerr != nil {
			return nil, cerr
		}
		return nil, ErrDuplicateUsername
	}
	return nil, fmt.Errorf("create user: %w", err)
}

func checkAvailable(tx *gorm.DB, username, email string) error {
	taken, err := exists(tx, "username", username)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateUsername
	}
	if taken, err = exists(tx, "email", email); err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}
	return nil
}

func exists(tx *gorm.DB, column, value string) (bool, error) {
	var n int64
	if err := tx.Model(&models.User{}).Where(column+" = ?", value).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return n > 0, nil
}

// UsernameTaken reports whether an account already uses username.
func (s *AuthService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(s.db.WithContext(ctx), "username", username)
}

// EmailTaken reports whether an account already uses email.
func (s *AuthService) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(s.db.WithContext(ctx), "email", email)
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.hashCost)
	})
	return s.dummyHash
}

// VerifyPassword reports whether raw matches the user's stored hash. Users
// without a hash are compared against a throwaway hash so both failure paths
// cost the same.
func (s *AuthService) VerifyPassword(user *models.User, raw string) bool {
	hash := s.dummy()
	hasHash := user != nil && user.PasswordHash != nil && *user.PasswordHash != ""
	if hasHash {
		hash = []byte(*user.PasswordHash)
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(raw))
	return hasHash && err == nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err != nil {
		s.VerifyPassword(nil, password)
		return nil, ErrAuthenticationFailure
	}
	if !s.VerifyPassword(&user, password) {
		return nil, ErrAuthenticationFailure
	}
	return &user, nil
}

func (s *AuthService) fingerprint(user *models.User) string {
	mac := hmac.New(sha256.New, s.secret)
	if user.PasswordHash != nil {
		mac.Write([]byte(*user.PasswordHash))
	}
	return hex.EncodeToString(mac.Sum(nil))[:16]
}

// IssueResetToken signs a reset token for user. A non-positive ttl selects
// the configured default.
func (s *AuthService) IssueResetToken(user *models.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.resetTTL
	}
	now := s.now()

	claims := resetClaims{
		UserID:      user.ID,
		Fingerprint: s.fingerprint(user),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return token, nil
}

// VerifyResetToken returns the user a valid token was issued for, or nil.
func (s *AuthService) VerifyResetToken(ctx context.Context, tokenString string) *models.User {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	if !hmac.Equal([]byte(s.fingerprint(&user)), []byte(claims.Fingerprint)) {
		return nil
	}
	return &user
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validate.Var(newPassword, "required"); err != nil {
		return ErrInvalidPassword
	}

	user := s.VerifyResetToken(ctx, token)
	if user == nil {
		return ErrTokenInvalid
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	// The old hash in the WHERE clause makes a concurrent second use of the
	// same token update nothing.
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID)
	if user.PasswordHash == nil {
		q = q.Where("password_hash IS NULL")
	} else {
		q = q.Where("password_hash = ?", *user.PasswordHash)
	}
	res := q.Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTokenInvalid
	}
	return nil
}

// RequestPasswordReset mails a reset link to the account registered under
// email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := s.IssueResetToken(&user, 0)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, &user, token); err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}
	return nil
}
