package storage_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cityforge-go/internal/adapters/persistence"
	"github.com/andrescamacho/cityforge-go/internal/adapters/questboard"
	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	storageapp "github.com/andrescamacho/cityforge-go/internal/application/storage"
	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
	"github.com/andrescamacho/cityforge-go/test/helpers"
)

type serviceFixture struct {
	service  *storageapp.Service
	registry *constructionapp.ProjectRegistry
	board    *questboard.Board
	clock    *shared.MockClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	board := questboard.NewBoard()
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := constructionapp.NewProjectRegistry(
		board,
		domain.NewCatalogGenerator(1),
		constructionapp.NewProjectEventBus(),
		clock,
		zerolog.Nop(),
	)
	repo := persistence.NewGormStoredItemRepository(helpers.NewTestDB(t))
	service := storageapp.NewService(registry, repo, clock, zerolog.Nop())
	return &serviceFixture{service: service, registry: registry, board: board, clock: clock}
}

func TestService_StorePausesConstruction(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	pos := shared.NewGridPosition(3, 4)
	_, err := f.registry.Begin("Yoga Studio", pos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", pos)
	require.NoError(t, err)
	f.clock.Advance(200 * time.Second)

	// Act
	item, err := f.service.Store(context.Background(), "Yoga Studio", pos)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, item.Construction)
	assert.InDelta(t, 400.0, item.Construction.PausedRemainingSeconds, 0.001)
	assert.Equal(t, quests, item.Construction.ActiveQuestList)
	assert.False(t, f.board.Contains(quests[0]))
	_, found := f.registry.GetProject("Yoga Studio", pos)
	assert.False(t, found)
}

func TestService_StoreFinishedBuildingHasNoSnapshot(t *testing.T) {
	// Arrange - no project at this key
	f := newServiceFixture(t)

	// Act
	item, err := f.service.Store(context.Background(), "Bakery", shared.NewGridPosition(5, 5))

	// Assert
	require.NoError(t, err)
	assert.Nil(t, item.Construction)
	assert.Equal(t, f.clock.Now(), item.StoredAt)
}

func TestService_PlaceResumesAtNewPosition(t *testing.T) {
	// Arrange - store at (3,4), a week passes in inventory
	f := newServiceFixture(t)
	origin := shared.NewGridPosition(3, 4)
	_, err := f.registry.Begin("Yoga Studio", origin, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", origin)
	require.NoError(t, err)
	f.clock.Advance(200 * time.Second)
	item, err := f.service.Store(context.Background(), "Yoga Studio", origin)
	require.NoError(t, err)
	f.clock.Advance(7 * 24 * time.Hour)

	// Act - place at a different cell
	target := shared.NewGridPosition(8, 8)
	require.NoError(t, f.service.Place(context.Background(), item.ID, target))

	// Assert - resumed at the new key with the old remaining time
	_, found := f.registry.GetProject("Yoga Studio", origin)
	assert.False(t, found)
	project, found := f.registry.GetProject("Yoga Studio", target)
	require.True(t, found)
	assert.InDelta(t, 400.0, project.Remaining(f.clock.Now()).Seconds(), 0.001)
	for _, quest := range quests {
		assert.True(t, f.board.Contains(quest))
	}

	// The item record is consumed
	_, err = f.service.StoredAtFor(context.Background(), item.ID)
	assert.Error(t, err)
}

// fixedGenerator always draws the same catalog entries, forcing the text
// collision a real generator only produces on unlucky seeds
type fixedGenerator struct{ task string }

func (g *fixedGenerator) Generate(tier domain.QuestTier, key domain.ProjectKey, count int) []string {
	quests := make([]string, 0, count)
	for i := 0; i < count; i++ {
		quests = append(quests, fmt.Sprintf("%s %d (%s %s)", g.task, i+1, key.BuildingID, key.Position))
	}
	return quests
}

func TestService_PlaceRetagsQuestsSoTheVacatedCellCanRegenerate(t *testing.T) {
	// Arrange - a generator that deals identical catalog entries to every
	// project of the same building type
	board := questboard.NewBoard()
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := constructionapp.NewProjectRegistry(
		board,
		&fixedGenerator{task: "Walk the dog"},
		constructionapp.NewProjectEventBus(),
		clock,
		zerolog.Nop(),
	)
	repo := persistence.NewGormStoredItemRepository(helpers.NewTestDB(t))
	service := storageapp.NewService(registry, repo, clock, zerolog.Nop())
	ctx := context.Background()

	origin := shared.NewGridPosition(3, 4)
	_, err := registry.Begin("Yoga Studio", origin, 600*time.Second)
	require.NoError(t, err)
	originQuests, err := registry.GenerateSkipQuests("Yoga Studio", origin)
	require.NoError(t, err)
	require.Equal(t, []string{"Walk the dog 1 (Yoga Studio (3,4))"}, originQuests)

	item, err := service.Store(ctx, "Yoga Studio", origin)
	require.NoError(t, err)

	// Act - place at a new cell, then start the same building type at the
	// vacated one and let it draw the same catalog entry
	target := shared.NewGridPosition(8, 8)
	require.NoError(t, service.Place(ctx, item.ID, target))
	_, err = registry.Begin("Yoga Studio", origin, 600*time.Second)
	require.NoError(t, err)
	freshQuests, err := registry.GenerateSkipQuests("Yoga Studio", origin)
	require.NoError(t, err)

	// Assert - the moved project's quest was rewritten to its new key, so the
	// fresh project's identical draw stays a distinct board entry
	moved, found := registry.GetProject("Yoga Studio", target)
	require.True(t, found)
	assert.Equal(t, []string{"Walk the dog 1 (Yoga Studio (8,8))"}, moved.ActiveQuests())
	assert.Equal(t, originQuests, freshQuests)
	assert.Len(t, board.Tasks(), 2)

	// A board completion of the fresh project's text credits only it
	registry.OnBoardQuestCompleted(freshQuests[0])
	fresh, _ := registry.GetProject("Yoga Studio", origin)
	moved, _ = registry.GetProject("Yoga Studio", target)
	assert.Equal(t, 1, fresh.CompletedCount())
	assert.Equal(t, 0, moved.CompletedCount())
}

func TestService_PlaceIntoOccupiedCellFails(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	pos := shared.NewGridPosition(3, 4)
	_, err := f.registry.Begin("Yoga Studio", pos, 600*time.Second)
	require.NoError(t, err)
	item, err := f.service.Store(context.Background(), "Yoga Studio", pos)
	require.NoError(t, err)
	_, err = f.registry.Begin("Yoga Studio", pos, 300*time.Second)
	require.NoError(t, err)

	// Act
	err = f.service.Place(context.Background(), item.ID, pos)

	// Assert - item survives so the player can pick another cell
	require.Error(t, err)
	storedAt, err := f.service.StoredAtFor(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, storedAt.IsZero())
}

func TestService_PlaceUnknownItemFails(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)

	// Act
	err := f.service.Place(context.Background(), "missing", shared.NewGridPosition(1, 1))

	// Assert
	assert.Error(t, err)
}

func TestService_SellDiscardsConstruction(t *testing.T) {
	// Arrange
	f := newServiceFixture(t)
	pos := shared.NewGridPosition(3, 4)
	_, err := f.registry.Begin("Yoga Studio", pos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", pos)
	require.NoError(t, err)

	// Act
	f.service.Sell("Yoga Studio", pos)

	// Assert
	_, found := f.registry.GetProject("Yoga Studio", pos)
	assert.False(t, found)
	assert.False(t, f.board.Contains(quests[0]))
}
