package preset

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=preset
type Repository interface {
	FindMatch(ctx context.Context, rawName string) (string, error)
	CreatePreset(ctx context.Context, rawPattern, preferredName string) error
}

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{repo: repo, log: log}
}

// Suggest returns the preferred name for a raw charge name, or an empty
// string when no preset matches.
func (s *Service) Suggest(ctx context.Context, rawName string) (string, error) {
	return s.repo.FindMatch(ctx, strings.TrimSpace(rawName))
}

// Learn remembers a mapping between a raw pattern and a preferred name.
func (s *Service) Learn(ctx context.Context, rawPattern, preferredName string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	preferredName = strings.TrimSpace(preferredName)

	if rawPattern == "" || preferredName == "" {
		return fmt.Errorf("raw pattern and preferred name are required: %w", ErrInvalidPreset)
	}

	return s.repo.CreatePreset(ctx, rawPattern, preferredName)
}

// Canonical is Suggest with the raw name as fallback. Lookup failures are
// logged and never block a charge.
func (s *Service) Canonical(ctx context.Context, rawName string) string {
	preferred, err := s.Suggest(ctx, rawName)
	if err != nil {
		s.log.Warn("failed to look up charge preset", zap.String("name", rawName), zap.Error(err))
		return rawName
	}

	if preferred == "" {
		return rawName
	}

	return preferred
}
