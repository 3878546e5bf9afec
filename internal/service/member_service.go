package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"villageboard/internal/cache"
	"villageboard/internal/errors"
	"villageboard/internal/model"
	"villageboard/internal/repository"
	"villageboard/internal/upload"
)

const memberCacheTTL = 5 * time.Minute

// ProfileUpdate carries a partial profile update. Nil fields are left
// untouched; a supplied image replaces the stored reference (the prior
// binary is retained, not deleted).
type ProfileUpdate struct {
	Name  *string
	Email *string
	Image *ProfileImage
}

// MemberService exposes the member directory and profile mutation.
type MemberService interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
	GetMember(ctx context.Context, id uuid.UUID) (*model.Member, error)
	UpdateProfile(ctx context.Context, callerID, id uuid.UUID, update ProfileUpdate) (*model.Member, error)
}

type memberService struct {
	repo    repository.MemberRepository
	cache   *cache.Client
	uploads upload.Store
}

// NewMemberService builds a MemberService with repository, cache, and binary store.
func NewMemberService(repo repository.MemberRepository, cache *cache.Client, uploads upload.Store) MemberService {
	return &memberService{repo: repo, cache: cache, uploads: uploads}
}

func (s *memberService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("member:%s", id.String())
}

func (s *memberService) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.repo.List(ctx)
}

// GetMember retrieves a member by ID with caching.
func (s *memberService) GetMember(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Member
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrMemberNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(member); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, memberCacheTTL)
	}
	return member, nil
}

// UpdateProfile applies a partial update to the caller's own profile. Callers
// may only mutate the member record matching their authenticated identity.
func (s *memberService) UpdateProfile(ctx context.Context, callerID, id uuid.UUID, update ProfileUpdate) (*model.Member, error) {
	if callerID != id {
		return nil, errors.ErrNotProfileOwner
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrMemberNotFound
		}
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.ErrValidation
		}
		member.Name = name
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" {
			return nil, errors.ErrValidation
		}
		if email != member.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err == nil && existing != nil {
				return nil, errors.ErrEmailTaken
			}
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("check member existence: %w", err)
			}
			member.Email = email
		}
	}
	if update.Image != nil {
		ref, err := s.uploads.Save(ctx, update.Image.Filename, update.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("store profile image: %w", err)
		}
		member.ProfileImage = ref
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return member, nil
}
