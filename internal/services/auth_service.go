package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/memberdir/memberdir-backend/internal/bulk"
	"github.com/memberdir/memberdir-backend/internal/config"
	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/fields"
	"github.com/memberdir/memberdir-backend/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrMemberNotFound     = errors.New("member not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := fields.Sanitize(req.Name)
	email := fields.NormalizeEmail(req.Email)
	username := fields.Sanitize(req.Username)

	if name == "" {
		return nil, errors.New("name is required")
	}
	if !bulk.ValidEmail(email) {
		return nil, errors.New("invalid email format")
	}
	if !bulk.ValidUsername(username) {
		return nil, errors.New("username must be 4-20 characters using letters, digits, dot, underscore or hyphen")
	}
	if reason := bulk.PasswordReason(req.Password); reason != "" {
		return nil, errors.New(reason)
	}

	var existing models.Member
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := models.Member{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Username: username,
		Password: string(hash),
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return s.generateTokenPair(&member)
}

// Login accepts either the username or the email address.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	login := fields.Sanitize(req.Login)

	var member models.Member
	if err := s.db.Where("username = ? OR email = ?", login, fields.NormalizeEmail(login)).First(&member).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&member)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var member models.Member
	if err := s.db.First(&member, "id = ?", stored.MemberID).Error; err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}

	return s.generateTokenPair(&member)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) generateTokenPair(member *models.Member) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(member)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(member)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:       member.ID,
			Name:     member.Name,
			Email:    member.Email,
			Username: member.Username,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(member *models.Member) (string, error) {
	claims := jwt.MapClaims{
		"sub":      member.ID.String(),
		"email":    member.Email,
		"username": member.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(member *models.Member) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		MemberID:  member.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
