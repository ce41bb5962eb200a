package construction_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	"github.com/andrescamacho/cityforge-go/internal/adapters/questboard"
	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

type registryFixture struct {
	registry *constructionapp.ProjectRegistry
	board    *questboard.Board
	bus      *constructionapp.ProjectEventBus
	clock    *shared.MockClock
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()
	board := questboard.NewBoard()
	bus := constructionapp.NewProjectEventBus()
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := constructionapp.NewProjectRegistry(
		board,
		domain.NewCatalogGenerator(1),
		bus,
		clock,
		zerolog.Nop(),
	)
	return &registryFixture{registry: registry, board: board, bus: bus, clock: clock}
}

var yogaPos = shared.NewGridPosition(3, 4)

func TestRegistry_BeginCreatesFreshProject(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)

	// Act
	project, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 600*time.Second, project.Remaining(f.clock.Now()))
	assert.False(t, project.IsPaused())
	assert.Empty(t, project.MasterQuests())
	assert.Empty(t, project.ActiveQuests())
}

func TestRegistry_BeginTwiceAtSameKeyFails(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	f.clock.Advance(100 * time.Second)

	// Act
	_, err = f.registry.Begin("Yoga Studio", yogaPos, 900*time.Second)

	// Assert - second call fails, first project unaffected
	var dup *shared.DuplicateProjectError
	require.ErrorAs(t, err, &dup)
	project, found := f.registry.GetProject("Yoga Studio", yogaPos)
	require.True(t, found)
	assert.Equal(t, 500*time.Second, project.Remaining(f.clock.Now()))
}

func TestRegistry_SameBuildingAtDifferentPositionsCoexist(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)

	// Act
	_, err1 := f.registry.Begin("Bakery", shared.NewGridPosition(1, 1), 300*time.Second)
	_, err2 := f.registry.Begin("Bakery", shared.NewGridPosition(2, 2), 300*time.Second)

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, 2, f.registry.ProjectCount())
}

func TestRegistry_GenerateSkipQuests_ShortBuild(t *testing.T) {
	// Arrange - 600s build means 10 remaining minutes
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)

	// Act
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)

	// Assert - ceil(10/36) = 1 quest, pushed to the board
	require.NoError(t, err)
	require.Len(t, quests, 1)
	project, _ := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.Len(t, project.MasterQuests(), 1)
	assert.Len(t, project.ActiveQuests(), 1)
	assert.True(t, f.board.Contains(quests[0]))
}

func TestRegistry_GenerateSkipQuests_LongBuildClampsToTen(t *testing.T) {
	// Arrange - 400 remaining minutes
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Cathedral", yogaPos, 400*time.Minute)
	require.NoError(t, err)

	// Act
	quests, err := f.registry.GenerateSkipQuests("Cathedral", yogaPos)

	// Assert
	require.NoError(t, err)
	assert.Len(t, quests, 10)
	assert.Len(t, f.board.Tasks(), 10)
}

func TestRegistry_GenerateSkipQuestsIsOneShot(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	first, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)

	// Act - a second generation is a no-op
	second, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, second)
	project, _ := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.Equal(t, first, project.MasterQuests())
}

func TestRegistry_GenerateSkipQuestsForMissingProject(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)

	// Act
	_, err := f.registry.GenerateSkipQuests("Ghost", yogaPos)

	// Assert
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRegistry_DeleteThenReplenish(t *testing.T) {
	// Arrange - one generated quest
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)
	require.Len(t, quests, 1)

	// Act - player deletes the quest from the board
	f.board.Remove(quests[0])
	f.registry.MarkQuestDeleted("Yoga Studio", yogaPos, quests[0])

	// Assert
	project, _ := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.Equal(t, 1, project.DeletedCount())
	assert.Empty(t, project.ActiveQuests())

	// Act - replenish brings it back
	restored, err := f.registry.ReplenishDeletedQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, quests, restored)
	project, _ = f.registry.GetProject("Yoga Studio", yogaPos)
	assert.Len(t, project.ActiveQuests(), 1)
	assert.Equal(t, 0, project.DeletedCount())
	assert.True(t, f.board.Contains(quests[0]))
}

func TestRegistry_ReplenishIsIdempotent(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 200*time.Minute)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)
	f.registry.MarkQuestDeleted("Yoga Studio", yogaPos, quests[0])

	// Act
	first, err := f.registry.ReplenishDeletedQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)
	second, err := f.registry.ReplenishDeletedQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)

	// Assert - the second call changes nothing
	assert.Len(t, first, 1)
	assert.Empty(t, second)
}

func TestRegistry_MarkQuestCompletedPublishesEvent(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)

	key := domain.NewProjectKey("Yoga Studio", yogaPos)
	events := f.bus.SubscribeQuestCompleted(key)
	defer f.bus.UnsubscribeQuestCompleted(key, events)

	// Act
	f.registry.MarkQuestCompleted("Yoga Studio", yogaPos, quests[0])

	// Assert
	select {
	case event := <-events:
		assert.Equal(t, quests[0], event.Quest)
		assert.Equal(t, 1, event.CompletedCount)
		assert.Equal(t, 1, event.TotalQuests)
	case <-time.After(time.Second):
		t.Fatal("expected a QuestCompleted event")
	}

	project, _ := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.Equal(t, 1, project.CompletedCount())
	assert.Empty(t, project.ActiveQuests())
}

func TestRegistry_MarkQuestCompletedOnStaleQuestIsNoop(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)

	// Act - board reports a quest the registry never generated
	f.registry.MarkQuestCompleted("Yoga Studio", yogaPos, "stale quest")

	// Assert
	project, _ := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.Equal(t, 0, project.CompletedCount())
}

func TestRegistry_PauseSnapshotsAndClearsBoard(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)
	f.clock.Advance(200 * time.Second)

	// Act
	snapshot, err := f.registry.Pause("Yoga Studio", yogaPos)

	// Assert - snapshot carries remaining time and the active list verbatim
	require.NoError(t, err)
	assert.InDelta(t, 400.0, snapshot.PausedRemainingSeconds, 0.001)
	assert.Equal(t, quests, snapshot.ActiveQuestList)
	assert.False(t, f.board.Contains(quests[0]))

	// The key is vacated: another building can be placed there
	_, found := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.False(t, found)
}

func TestRegistry_PauseMissingProject(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)

	// Act
	_, err := f.registry.Pause("Ghost", yogaPos)

	// Assert
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRegistry_PauseResumeRoundTrip(t *testing.T) {
	// Arrange - pause at elapsed 200s of 600s
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)
	f.clock.Advance(200 * time.Second)

	snapshot, err := f.registry.Pause("Yoga Studio", yogaPos)
	require.NoError(t, err)

	// Act - a week in storage must not count against the player
	f.clock.Advance(7 * 24 * time.Hour)
	project, err := f.registry.Resume(snapshot)

	// Assert - remaining is 400s (not 600, not 200), quests back on the board
	require.NoError(t, err)
	assert.InDelta(t, 400.0, project.Remaining(f.clock.Now()).Seconds(), 0.001)
	assert.ElementsMatch(t, quests, project.ActiveQuests())
	for _, quest := range quests {
		assert.True(t, f.board.Contains(quest))
	}
}

func TestRegistry_ResumeIntoOccupiedKeyFails(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	snapshot, err := f.registry.Pause("Yoga Studio", yogaPos)
	require.NoError(t, err)

	// A different build now occupies the same cell
	_, err = f.registry.Begin("Yoga Studio", yogaPos, 300*time.Second)
	require.NoError(t, err)

	// Act
	_, err = f.registry.Resume(snapshot)

	// Assert
	var dup *shared.DuplicateProjectError
	assert.ErrorAs(t, err, &dup)
}

func TestRegistry_RemoveIsIdempotentAndClearsBoard(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)
	quests, err := f.registry.GenerateSkipQuests("Yoga Studio", yogaPos)
	require.NoError(t, err)

	// Act
	f.registry.Remove("Yoga Studio", yogaPos)
	f.registry.Remove("Yoga Studio", yogaPos)

	// Assert
	_, found := f.registry.GetProject("Yoga Studio", yogaPos)
	assert.False(t, found)
	assert.False(t, f.board.Contains(quests[0]))
}

func TestRegistry_CompletePublishesExactlyOnce(t *testing.T) {
	// Arrange
	f := newRegistryFixture(t)
	_, err := f.registry.Begin("Yoga Studio", yogaPos, 600*time.Second)
	require.NoError(t, err)

	key := domain.NewProjectKey("Yoga Studio", yogaPos)
	events := f.bus.SubscribeConstructionCompleted(key)
	defer f.bus.UnsubscribeConstructionCompleted(key, events)

	// Act
	require.NoError(t, f.registry.Complete("Yoga Studio", yogaPos))
	require.NoError(t, f.registry.Complete("Yoga Studio", yogaPos))

	// Assert - one event, key still queryable as completed
	select {
	case event := <-events:
		assert.Equal(t, key, event.Key)
	case <-time.After(time.Second):
		t.Fatal("expected a ConstructionCompleted event")
	}
	select {
	case <-events:
		t.Fatal("Complete must publish exactly once")
	case <-time.After(50 * time.Millisecond):
	}

	project, found := f.registry.GetProject("Yoga Studio", yogaPos)
	require.True(t, found)
	assert.True(t, project.IsCompleted(f.clock.Now()))
}

func TestRegistry_BoardEventRouting(t *testing.T) {
	// Arrange - two projects with quest sets on the shared board
	f := newRegistryFixture(t)
	posA := shared.NewGridPosition(1, 1)
	posB := shared.NewGridPosition(9, 9)
	_, err := f.registry.Begin("Bakery", posA, 200*time.Minute)
	require.NoError(t, err)
	_, err = f.registry.Begin("Library", posB, 200*time.Minute)
	require.NoError(t, err)
	bakeryQuests, err := f.registry.GenerateSkipQuests("Bakery", posA)
	require.NoError(t, err)
	_, err = f.registry.GenerateSkipQuests("Library", posB)
	require.NoError(t, err)

	// Act - a board completion for a bakery quest
	f.registry.OnBoardQuestCompleted(bakeryQuests[0])

	// Assert - only the bakery is credited
	bakery, _ := f.registry.GetProject("Bakery", posA)
	library, _ := f.registry.GetProject("Library", posB)
	assert.Equal(t, 1, bakery.CompletedCount())
	assert.Equal(t, 0, library.CompletedCount())
}
