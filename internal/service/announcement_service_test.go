package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"villageboard/internal/errors"
	"villageboard/internal/model"
)

// MockAnnouncementRepository is a mock implementation of AnnouncementRepository.
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, announcement *model.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) List(ctx context.Context) ([]model.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Announcement, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAnnouncementService_Create(t *testing.T) {
	owner := &model.Member{ID: uuid.New(), Name: "Ana", Email: "ana@x.com"}

	tests := []struct {
		name          string
		callerID      uuid.UUID
		ownerID       uuid.UUID
		title         string
		description   string
		status        model.Status
		setupMock     func(*MockAnnouncementRepository, *MockMemberRepository)
		expectedError error
		wantStatus    model.Status
	}{
		{
			name:        "status defaults to pending",
			callerID:    owner.ID,
			ownerID:     owner.ID,
			title:       "Block Party",
			description: "Sat 5pm",
			setupMock: func(a *MockAnnouncementRepository, m *MockMemberRepository) {
				m.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
				a.On("Create", mock.Anything, mock.AnythingOfType("*model.Announcement")).Return(nil)
			},
			wantStatus: model.StatusPending,
		},
		{
			name:        "explicit draft status kept",
			callerID:    owner.ID,
			ownerID:     owner.ID,
			title:       "WIP",
			description: "not ready yet",
			status:      model.StatusDraft,
			setupMock: func(a *MockAnnouncementRepository, m *MockMemberRepository) {
				m.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
				a.On("Create", mock.Anything, mock.AnythingOfType("*model.Announcement")).Return(nil)
			},
			wantStatus: model.StatusDraft,
		},
		{
			name:          "unknown status rejected",
			callerID:      owner.ID,
			ownerID:       owner.ID,
			title:         "Bad",
			description:   "status",
			status:        model.Status("archived"),
			setupMock:     func(a *MockAnnouncementRepository, m *MockMemberRepository) {},
			expectedError: errors.ErrInvalidStatus,
		},
		{
			name:          "empty title rejected",
			callerID:      owner.ID,
			ownerID:       owner.ID,
			title:         "   ",
			description:   "Sat 5pm",
			setupMock:     func(a *MockAnnouncementRepository, m *MockMemberRepository) {},
			expectedError: errors.ErrValidation,
		},
		{
			name:          "caller must be the recorded owner",
			callerID:      uuid.New(),
			ownerID:       owner.ID,
			title:         "Block Party",
			description:   "Sat 5pm",
			setupMock:     func(a *MockAnnouncementRepository, m *MockMemberRepository) {},
			expectedError: errors.ErrNotAnnouncementOwner,
		},
		{
			name:        "unresolvable owner rejected",
			callerID:    owner.ID,
			ownerID:     owner.ID,
			title:       "Block Party",
			description: "Sat 5pm",
			setupMock: func(a *MockAnnouncementRepository, m *MockMemberRepository) {
				m.On("FindByID", mock.Anything, owner.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAnnouncementRepository)
			mockMembers := new(MockMemberRepository)
			tt.setupMock(mockRepo, mockMembers)

			service := NewAnnouncementService(mockRepo, mockMembers)
			announcement, err := service.Create(context.Background(), tt.callerID, tt.ownerID, tt.title, tt.description, tt.status)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, announcement)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, announcement)
				assert.Equal(t, tt.wantStatus, announcement.Status)
				assert.Equal(t, tt.ownerID, announcement.OwnerID)
			}

			mockRepo.AssertExpectations(t)
			mockMembers.AssertExpectations(t)
		})
	}
}

func TestAnnouncementService_ListAnnotatesOwnerNames(t *testing.T) {
	ana := &model.Member{ID: uuid.New(), Name: "Ana"}
	ghostID := uuid.New()

	announcements := []model.Announcement{
		{ID: uuid.New(), Title: "Block Party", Description: "Sat 5pm", Status: model.StatusPending, OwnerID: ana.ID},
		{ID: uuid.New(), Title: "Lost Cat", Description: "Orange tabby", Status: model.StatusPending, OwnerID: ana.ID},
		{ID: uuid.New(), Title: "Orphaned", Description: "owner deleted", Status: model.StatusApproved, OwnerID: ghostID},
	}

	mockRepo := new(MockAnnouncementRepository)
	mockRepo.On("List", mock.Anything).Return(announcements, nil)

	mockMembers := new(MockMemberRepository)
	// Owner resolved once despite owning two announcements.
	mockMembers.On("FindByID", mock.Anything, ana.ID).Return(ana, nil).Once()
	mockMembers.On("FindByID", mock.Anything, ghostID).Return(nil, gorm.ErrRecordNotFound).Once()

	service := NewAnnouncementService(mockRepo, mockMembers)
	listed, err := service.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Equal(t, "Ana", listed[0].OwnerName)
	assert.Equal(t, "Block Party", listed[0].Title)
	assert.Equal(t, model.StatusPending, listed[0].Status)
	assert.Equal(t, "Ana", listed[1].OwnerName)
	assert.Equal(t, "Unknown", listed[2].OwnerName)

	mockMembers.AssertExpectations(t)
}

func TestAnnouncementService_Update(t *testing.T) {
	ownerID := uuid.New()
	announcementID := uuid.New()
	newTitle := "Block Party (updated)"
	blank := "  "

	existing := func() *model.Announcement {
		return &model.Announcement{
			ID:          announcementID,
			Title:       "Block Party",
			Description: "Sat 5pm",
			Status:      model.StatusApproved,
			OwnerID:     ownerID,
		}
	}

	t.Run("partial update keeps other fields and status", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Announcement")).Return(nil)

		service := NewAnnouncementService(mockRepo, new(MockMemberRepository))
		updated, err := service.Update(context.Background(), ownerID, announcementID, AnnouncementUpdate{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, "Sat 5pm", updated.Description)
		assert.Equal(t, ownerID, updated.OwnerID)
		// Editing does not re-queue the announcement for review.
		assert.Equal(t, model.StatusApproved, updated.Status)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(existing(), nil)

		service := NewAnnouncementService(mockRepo, new(MockMemberRepository))
		updated, err := service.Update(context.Background(), uuid.New(), announcementID, AnnouncementUpdate{Title: &newTitle})

		assert.Equal(t, errors.ErrNotAnnouncementOwner, err)
		assert.Nil(t, updated)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing id reports not found", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(nil, gorm.ErrRecordNotFound)

		service := NewAnnouncementService(mockRepo, new(MockMemberRepository))
		updated, err := service.Update(context.Background(), ownerID, announcementID, AnnouncementUpdate{Title: &newTitle})

		assert.Equal(t, errors.ErrAnnouncementNotFound, err)
		assert.Nil(t, updated)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(existing(), nil)

		service := NewAnnouncementService(mockRepo, new(MockMemberRepository))
		_, err := service.Update(context.Background(), ownerID, announcementID, AnnouncementUpdate{Title: &blank})

		assert.Equal(t, errors.ErrValidation, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAnnouncementService_Delete(t *testing.T) {
	ownerID := uuid.New()
	announcementID := uuid.New()
	existing := &model.Announcement{ID: announcementID, Title: "Garage Sale", Description: "Sunday", OwnerID: ownerID}

	t.Run("owner deletes, second delete reports not found", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(existing, nil).Once()
		mockRepo.On("Delete", mock.Anything, announcementID).Return(nil).Once()
		// After deletion the lookup misses.
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(nil, gorm.ErrRecordNotFound).Once()

		service := NewAnnouncementService(mockRepo, new(MockMemberRepository))

		assert.NoError(t, service.Delete(context.Background(), ownerID, announcementID))
		assert.Equal(t, errors.ErrAnnouncementNotFound, service.Delete(context.Background(), ownerID, announcementID))

		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(existing, nil)

		service := NewAnnouncementService(mockRepo, new(MockMemberRepository))
		err := service.Delete(context.Background(), uuid.New(), announcementID)

		assert.Equal(t, errors.ErrNotAnnouncementOwner, err)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
