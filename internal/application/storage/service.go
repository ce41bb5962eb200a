package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
	"github.com/andrescamacho/cityforge-go/internal/domain/storage"
	"github.com/andrescamacho/cityforge-go/pkg/utils"
)

// Service implements the storage collaborator: picking a building up pauses
// its construction and persists the snapshot on the stored item; placing it
// back resumes from that snapshot. The pause completes (snapshot taken,
// quests pulled from the board) before the item record exists, so a resumed
// project can never silently lose its snapshot.
type Service struct {
	registry *constructionapp.ProjectRegistry
	items    storage.Repository
	clock    shared.Clock
	logger   zerolog.Logger
}

// NewService creates a storage service. If clock is nil, uses RealClock.
func NewService(
	registry *constructionapp.ProjectRegistry,
	items storage.Repository,
	clock shared.Clock,
	logger zerolog.Logger,
) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Service{
		registry: registry,
		items:    items,
		clock:    clock,
		logger:   logger,
	}
}

// Store moves a placed building into inventory. When the building is under
// construction its project is paused and the snapshot rides along on the
// stored item; a building without construction data is stored with a nil
// snapshot, which stays distinguishable from "construction with zero
// remaining time".
func (s *Service) Store(ctx context.Context, buildingID string, pos shared.GridPosition) (*storage.StoredItem, error) {
	item := &storage.StoredItem{
		ID:         utils.GenerateItemID(buildingID),
		BuildingID: buildingID,
		StoredAt:   s.clock.Now(),
	}

	snapshot, err := s.registry.Pause(buildingID, pos)
	switch err.(type) {
	case nil:
		item.Construction = snapshot
	case *shared.NotFoundError:
		// Nothing under construction at this key; store the bare building
	default:
		return nil, fmt.Errorf("failed to pause construction for %s at %s: %w", buildingID, pos, err)
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to persist stored item: %w", err)
	}

	s.logger.Info().
		Str("item", item.ID).
		Str("building", buildingID).
		Bool("under_construction", item.Construction != nil).
		Msg("building moved to storage")
	return item, nil
}

// Place takes a stored item back out of inventory onto the grid at pos. A
// snapshot attached to the item is retargeted to the new position and resumed
// before the item record is deleted, so the presenter that binds afterwards
// always reads a fully reconstructed project.
func (s *Service) Place(ctx context.Context, itemID string, pos shared.GridPosition) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load stored item %s: %w", itemID, err)
	}

	if item.Construction != nil {
		// The building may come out of storage at a different cell than the
		// one it was picked up from; Retarget also rewrites the key suffix on
		// the snapshot's quest texts
		item.Construction.Retarget(pos)
		if _, err := s.registry.Resume(item.Construction); err != nil {
			return fmt.Errorf("failed to resume construction for item %s: %w", itemID, err)
		}
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete stored item %s: %w", itemID, err)
	}

	s.logger.Info().
		Str("item", itemID).
		Str("building", item.BuildingID).
		Str("position", pos.String()).
		Msg("building placed from storage")
	return nil
}

// Sell removes a placed building and its construction bookkeeping for good
func (s *Service) Sell(buildingID string, pos shared.GridPosition) {
	s.registry.Remove(buildingID, pos)
	s.logger.Info().
		Str("building", buildingID).
		Str("position", pos.String()).
		Msg("building sold")
}

// StoredAtFor reports when an item entered storage. Convenience for display.
func (s *Service) StoredAtFor(ctx context.Context, itemID string) (time.Time, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return time.Time{}, err
	}
	return item.StoredAt, nil
}
