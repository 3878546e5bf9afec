package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"villageboard/internal/auth"
	"villageboard/internal/errors"
	"villageboard/internal/model"
	"villageboard/internal/repository"
	"villageboard/internal/upload"
)

const bcryptCost = 10

// ProfileImage is an uploaded image passed through to the binary store.
type ProfileImage struct {
	Filename string
	Content  io.Reader
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, image *ProfileImage) (*model.Member, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, member *model.Member, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	memberRepo repository.MemberRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	uploads    upload.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(memberRepo repository.MemberRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, uploads upload.Store) AuthService {
	return &authService{
		memberRepo: memberRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		uploads:    uploads,
	}
}

// Register creates a new member with a hashed password. Email uniqueness is
// checked here so duplicates surface as a conflict rather than a storage error.
func (s *authService) Register(ctx context.Context, name, email, password string, image *ProfileImage) (*model.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, errors.ErrValidation
	}

	existing, err := s.memberRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check member existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &model.Member{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if image != nil {
		ref, err := s.uploads.Save(ctx, image.Filename, image.Content)
		if err != nil {
			return nil, fmt.Errorf("store profile image: %w", err)
		}
		member.ProfileImage = ref
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	return member, nil
}

// Login authenticates a member and returns signed access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, member *model.Member, err error) {
	member, err = s.memberRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, errors.ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(member.ID, member.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(member.ID, member.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, member.ID, member.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, member, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	storedMemberID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	if storedMemberID != claims.MemberID || storedEmail != claims.Email {
		return "", errors.ErrInvalidRefreshToken
	}

	accessToken, err = s.jwtService.GenerateAccessToken(claims.MemberID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return errors.ErrInvalidRefreshToken
	}

	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
