package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"villageboard/internal/errors"
	"villageboard/internal/model"
	"villageboard/internal/repository"
)

// unknownOwnerName is rendered when an announcement's owner cannot be resolved.
const unknownOwnerName = "Unknown"

// AnnouncementWithOwner is an announcement annotated with its owner's display name.
type AnnouncementWithOwner struct {
	model.Announcement
	OwnerName string `json:"owner_name"`
}

// AnnouncementUpdate carries a partial announcement update. Only title and
// description are mutable; status and owner never change on edit.
type AnnouncementUpdate struct {
	Title       *string
	Description *string
}

// AnnouncementService handles announcement submission and owner-scoped mutation.
type AnnouncementService interface {
	Create(ctx context.Context, callerID, ownerID uuid.UUID, title, description string, status model.Status) (*model.Announcement, error)
	List(ctx context.Context) ([]AnnouncementWithOwner, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Announcement, error)
	Update(ctx context.Context, callerID, id uuid.UUID, update AnnouncementUpdate) (*model.Announcement, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
}

type announcementService struct {
	repo       repository.AnnouncementRepository
	memberRepo repository.MemberRepository
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(repo repository.AnnouncementRepository, memberRepo repository.MemberRepository) AnnouncementService {
	return &announcementService{repo: repo, memberRepo: memberRepo}
}

// Create submits a new announcement. Status defaults to pending when empty;
// the caller must be the owner being recorded.
func (s *announcementService) Create(ctx context.Context, callerID, ownerID uuid.UUID, title, description string, status model.Status) (*model.Announcement, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" || ownerID == uuid.Nil {
		return nil, errors.ErrValidation
	}
	if callerID != ownerID {
		return nil, errors.ErrNotAnnouncementOwner
	}
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	if _, err := s.memberRepo.FindByID(ctx, ownerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrValidation
		}
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	announcement := &model.Announcement{
		Title:       title,
		Description: description,
		Status:      status,
		OwnerID:     ownerID,
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	return announcement, nil
}

// List returns all announcements annotated with owner display names.
func (s *announcementService) List(ctx context.Context) ([]AnnouncementWithOwner, error) {
	announcements, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	// Resolve each owner once, not once per announcement.
	names := make(map[uuid.UUID]string)
	result := make([]AnnouncementWithOwner, 0, len(announcements))
	for _, a := range announcements {
		name, ok := names[a.OwnerID]
		if !ok {
			name = unknownOwnerName
			if owner, err := s.memberRepo.FindByID(ctx, a.OwnerID); err == nil {
				name = owner.Name
			}
			names[a.OwnerID] = name
		}
		result = append(result, AnnouncementWithOwner{Announcement: a, OwnerName: name})
	}

	return result, nil
}

func (s *announcementService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Announcement, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update applies a partial edit to title and/or description. Status is left
// unchanged; an edited announcement is not re-queued for review.
func (s *announcementService) Update(ctx context.Context, callerID, id uuid.UUID, update AnnouncementUpdate) (*model.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAnnouncementNotFound
		}
		return nil, err
	}

	if announcement.OwnerID != callerID {
		return nil, errors.ErrNotAnnouncementOwner
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, errors.ErrValidation
		}
		announcement.Title = title
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, errors.ErrValidation
		}
		announcement.Description = description
	}

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}

	return announcement, nil
}

// Delete removes an announcement after checking ownership. Deleting an
// already-deleted id reports not found.
func (s *announcementService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrAnnouncementNotFound
		}
		return err
	}

	if announcement.OwnerID != callerID {
		return errors.ErrNotAnnouncementOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}

	return nil
}
