package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"villageboard/internal/auth"
	"villageboard/internal/errors"
	"villageboard/internal/model"
)

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]model.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, memberID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, memberID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// fakeUploadStore records saved binaries in memory.
type fakeUploadStore struct {
	saved []string
}

func (f *fakeUploadStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, content)
	ref := "/uploads/" + filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeUploadStore) URL(ref string) string { return ref }

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		memberName    string
		email         string
		password      string
		image         *ProfileImage
		setupMock     func(*MockMemberRepository)
		expectedError error
	}{
		{
			name:       "successful registration",
			memberName: "Ana",
			email:      "ana@x.com",
			password:   "secret",
			setupMock: func(m *MockMemberRepository) {
				m.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Member")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:       "registration with profile image",
			memberName: "Ben",
			email:      "ben@x.com",
			password:   "secret",
			image:      &ProfileImage{Filename: "ben.png", Content: strings.NewReader("png-bytes")},
			setupMock: func(m *MockMemberRepository) {
				m.On("FindByEmail", mock.Anything, "ben@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Member")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:       "email already registered",
			memberName: "Existing",
			email:      "existing@x.com",
			password:   "secret",
			setupMock: func(m *MockMemberRepository) {
				m.On("FindByEmail", mock.Anything, "existing@x.com").Return(&model.Member{Email: "existing@x.com"}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
		{
			name:          "missing name",
			memberName:    "  ",
			email:         "blank@x.com",
			password:      "secret",
			setupMock:     func(m *MockMemberRepository) {},
			expectedError: errors.ErrValidation,
		},
		{
			name:          "missing password",
			memberName:    "NoPass",
			email:         "nopass@x.com",
			password:      "",
			setupMock:     func(m *MockMemberRepository) {},
			expectedError: errors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMemberRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			uploads := &fakeUploadStore{}

			service := NewAuthService(mockRepo, jwtService, new(MockTokenStore), uploads)
			member, err := service.Register(context.Background(), tt.memberName, tt.email, tt.password, tt.image)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, member)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, member)
				assert.Equal(t, tt.email, member.Email)
				assert.Equal(t, tt.memberName, member.Name)
				assert.NotEmpty(t, member.PasswordHash)
				if tt.image != nil {
					assert.NotEmpty(t, member.ProfileImage)
					assert.Len(t, uploads.saved, 1)
				} else {
					assert.Empty(t, member.ProfileImage)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// The returned member must never leak the password credential through JSON,
// whatever the input was.
func TestAuthService_RegisterNeverSerializesPassword(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	mockRepo.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Member")).Return(nil)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), &fakeUploadStore{})
	member, err := service.Register(context.Background(), "Ana", "ana@x.com", "secret", nil)
	assert.NoError(t, err)

	payload, err := json.Marshal(member)
	assert.NoError(t, err)
	assert.NotContains(t, string(payload), "secret")
	assert.NotContains(t, string(payload), member.PasswordHash)
	assert.NotContains(t, string(payload), "password")
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockMemberRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ana@x.com",
			password: "secret",
			setupMock: func(mRepo *MockMemberRepository, mToken *MockTokenStore) {
				hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), 10)
				memberID := uuid.New()
				mRepo.On("FindByEmail", mock.Anything, "ana@x.com").Return(&model.Member{
					ID:           memberID,
					Name:         "Ana",
					Email:        "ana@x.com",
					PasswordHash: string(hashed),
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, memberID, "ana@x.com", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "secret",
			setupMock: func(mRepo *MockMemberRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "ana@x.com",
			password: "not-the-password",
			setupMock: func(mRepo *MockMemberRepository, mToken *MockTokenStore) {
				hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), 10)
				mRepo.On("FindByEmail", mock.Anything, "ana@x.com").Return(&model.Member{
					ID:           uuid.New(),
					Email:        "ana@x.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMemberRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore, &fakeUploadStore{})

			accessToken, refreshToken, member, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, member)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, member)
				assert.Equal(t, tt.email, member.Email)

				// The returned id must resolve through the token claims.
				claims, err := jwtService.ValidateToken(accessToken)
				assert.NoError(t, err)
				assert.Equal(t, member.ID, claims.MemberID)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	memberID := uuid.New()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(memberID, "ana@x.com")
	assert.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockMemberRepository), jwtService, mockTokenStore, &fakeUploadStore{})

	assert.NoError(t, service.Logout(context.Background(), refreshToken))
	assert.Equal(t, errors.ErrInvalidRefreshToken, service.Logout(context.Background(), "garbage"))

	mockTokenStore.AssertExpectations(t)
}
