package questboard

import (
	"sync"

	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
)

// Board is an in-memory implementation of the player's shared to-do list. It
// holds an ordered set of task texts: skip quests pushed by the registry live
// next to whatever unrelated to-dos the player keeps. Player-side completion
// and deletion are reported through the event feed; the construction core
// reacts to the feed instead of polling.
type Board struct {
	mu          sync.RWMutex
	tasks       []string
	subscribers []chan domain.BoardEvent
}

// Compile-time interface checks
var (
	_ domain.QuestBoard = (*Board)(nil)
	_ domain.BoardFeed  = (*Board)(nil)
)

// NewBoard creates an empty to-do board
func NewBoard() *Board {
	return &Board{}
}

// Contains reports whether the task is on the board
func (b *Board) Contains(task string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.indexOf(task) >= 0
}

// Add appends the task, keeping entries unique
func (b *Board) Add(task string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(task) >= 0 {
		return
	}
	b.tasks = append(b.tasks, task)
}

// Remove deletes the task without raising a deletion event. Used by the
// construction core when pulling quests on pause; player deletions go through
// Delete instead.
func (b *Board) Remove(task string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(task)
}

// Tasks returns a copy of the board's contents in order
func (b *Board) Tasks() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.tasks...)
}

// Complete is the player checking a task off. Removes it and notifies the feed.
func (b *Board) Complete(task string) {
	b.mu.Lock()
	removed := b.removeLocked(task)
	b.mu.Unlock()
	if removed {
		b.publish(domain.BoardEvent{Kind: domain.BoardQuestCompleted, Quest: task})
	}
}

// Delete is the player discarding a task without completing it. Removes it
// and notifies the feed.
func (b *Board) Delete(task string) {
	b.mu.Lock()
	removed := b.removeLocked(task)
	b.mu.Unlock()
	if removed {
		b.publish(domain.BoardEvent{Kind: domain.BoardQuestDeleted, Quest: task})
	}
}

// Subscribe returns a channel receiving board events. Caller must Unsubscribe
// when done.
func (b *Board) Subscribe() <-chan domain.BoardEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Buffered so one slow consumer cannot stall the player's UI thread
	ch := make(chan domain.BoardEvent, 16)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription. Closes the channel.
func (b *Board) Unsubscribe(ch <-chan domain.BoardEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, c := range b.subscribers {
		if c == ch {
			close(c)
			b.subscribers[i] = b.subscribers[len(b.subscribers)-1]
			b.subscribers = b.subscribers[:len(b.subscribers)-1]
			return
		}
	}
}

func (b *Board) publish(event domain.BoardEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (b *Board) indexOf(task string) int {
	for i, t := range b.tasks {
		if t == task {
			return i
		}
	}
	return -1
}

func (b *Board) removeLocked(task string) bool {
	i := b.indexOf(task)
	if i < 0 {
		return false
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	return true
}
