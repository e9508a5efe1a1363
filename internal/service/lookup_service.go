package service

import (
	"context"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
)

// LookupService exposes the reference tables to the config screens.
type LookupService struct {
	repo *repository.LookupRepository
}

func NewLookupService(repo *repository.LookupRepository) *LookupService {
	return &LookupService{repo: repo}
}

func (s *LookupService) ListStatuses(ctx context.Context, statusType string) ([]entity.Status, error) {
	return s.repo.ListStatuses(ctx, statusType)
}

func (s *LookupService) EnsureStatus(ctx context.Context, statusType, name string) (*entity.Status, error) {
	id, err := s.repo.EnsureStatus(ctx, nil, statusType, name)
	if err != nil {
		return nil, storageErr("ensure status", err)
	}
	if id == nil {
		return nil, &ValidationError{Message: "status name is required"}
	}
	return s.repo.FindStatusByID(ctx, *id)
}

func (s *LookupService) ListSegments(ctx context.Context) ([]entity.Segment, error) {
	return s.repo.ListSegments(ctx)
}

func (s *LookupService) EnsureSegment(ctx context.Context, name string) (*string, error) {
	if name == "" {
		return nil, &ValidationError{Message: "segment name is required"}
	}
	return s.repo.EnsureSegment(ctx, nil, name)
}

func (s *LookupService) ListServiceLines(ctx context.Context) ([]entity.ServiceLine, error) {
	return s.repo.ListServiceLines(ctx)
}

func (s *LookupService) EnsureServiceLine(ctx context.Context, name string) (*string, error) {
	if name == "" {
		return nil, &ValidationError{Message: "service line name is required"}
	}
	return s.repo.EnsureServiceLine(ctx, nil, name)
}

func (s *LookupService) ListPartners(ctx context.Context) ([]entity.Partner, error) {
	return s.repo.ListPartners(ctx)
}

func (s *LookupService) EnsurePartner(ctx context.Context, name string) (*string, error) {
	if name == "" {
		return nil, &ValidationError{Message: "partner name is required"}
	}
	return s.repo.EnsurePartner(ctx, nil, name)
}
