package questboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cityforge-go/internal/adapters/questboard"
	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
)

func TestBoard_AddKeepsOrderAndDeduplicates(t *testing.T) {
	// Arrange
	board := questboard.NewBoard()

	// Act
	board.Add("Water the plants")
	board.Add("Walk the dog")
	board.Add("Water the plants")

	// Assert
	assert.Equal(t, []string{"Water the plants", "Walk the dog"}, board.Tasks())
	assert.True(t, board.Contains("Walk the dog"))
	assert.False(t, board.Contains("Feed the cat"))
}

func TestBoard_RemoveIsSilent(t *testing.T) {
	// Arrange - Remove models the system reclaiming a task, not a player action
	board := questboard.NewBoard()
	board.Add("Walk the dog")
	events := board.Subscribe()
	defer board.Unsubscribe(events)

	// Act
	board.Remove("Walk the dog")
	board.Remove("never existed")

	// Assert
	assert.False(t, board.Contains("Walk the dog"))
	select {
	case event := <-events:
		t.Fatalf("Remove must not publish, got %v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBoard_CompletePublishesAndRemoves(t *testing.T) {
	// Arrange
	board := questboard.NewBoard()
	board.Add("Walk the dog")
	events := board.Subscribe()
	defer board.Unsubscribe(events)

	// Act
	board.Complete("Walk the dog")

	// Assert
	select {
	case event := <-events:
		assert.Equal(t, domain.BoardQuestCompleted, event.Kind)
		assert.Equal(t, "Walk the dog", event.Quest)
	case <-time.After(time.Second):
		t.Fatal("expected a completion event")
	}
	assert.False(t, board.Contains("Walk the dog"))
}

func TestBoard_CompleteUnknownTaskIsNoop(t *testing.T) {
	// Arrange
	board := questboard.NewBoard()
	events := board.Subscribe()
	defer board.Unsubscribe(events)

	// Act
	board.Complete("never existed")

	// Assert
	select {
	case event := <-events:
		t.Fatalf("no event expected, got %v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBoard_DeletePublishesDeletion(t *testing.T) {
	// Arrange
	board := questboard.NewBoard()
	board.Add("Walk the dog")
	events := board.Subscribe()
	defer board.Unsubscribe(events)

	// Act
	board.Delete("Walk the dog")

	// Assert
	select {
	case event := <-events:
		assert.Equal(t, domain.BoardQuestDeleted, event.Kind)
		assert.Equal(t, "Walk the dog", event.Quest)
	case <-time.After(time.Second):
		t.Fatal("expected a deletion event")
	}
	assert.False(t, board.Contains("Walk the dog"))
}

func TestBoard_UnsubscribeClosesFeed(t *testing.T) {
	// Arrange
	board := questboard.NewBoard()
	events := board.Subscribe()

	// Act
	board.Unsubscribe(events)

	// Assert
	_, open := <-events
	require.False(t, open)
}
