package construction

import (
	"sync"

	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
)

// ProjectEventBus provides pub/sub for construction project events.
// Implements both EventPublisher and EventSubscriber from domain ports.
// Subscriptions are keyed by ProjectKey directly, so a presenter only ever
// receives events for its own project and never has to filter a shared
// broadcast stream. Thread-safe, supports multiple subscribers per key.
// Uses buffered channels to prevent blocking publishers.
type ProjectEventBus struct {
	mu sync.RWMutex

	questCompletedSubscribers map[domain.ProjectKey][]chan domain.QuestCompletedEvent
	questDeletedSubscribers   map[domain.ProjectKey][]chan domain.QuestDeletedEvent
	completedSubscribers      map[domain.ProjectKey][]chan domain.ConstructionCompletedEvent
}

// Compile-time interface checks
var (
	_ domain.EventPublisher  = (*ProjectEventBus)(nil)
	_ domain.EventSubscriber = (*ProjectEventBus)(nil)
)

// NewProjectEventBus creates a new event bus for construction project events
func NewProjectEventBus() *ProjectEventBus {
	return &ProjectEventBus{
		questCompletedSubscribers: make(map[domain.ProjectKey][]chan domain.QuestCompletedEvent),
		questDeletedSubscribers:   make(map[domain.ProjectKey][]chan domain.QuestDeletedEvent),
		completedSubscribers:      make(map[domain.ProjectKey][]chan domain.ConstructionCompletedEvent),
	}
}

// PublishQuestCompleted publishes a quest completion to the project's subscribers
func (b *ProjectEventBus) PublishQuestCompleted(event domain.QuestCompletedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.questCompletedSubscribers[event.Key] {
		// Non-blocking send - skip if channel buffer is full
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscribeQuestCompleted subscribes to quest completions for one project.
// Returns a channel that receives events. Caller must UnsubscribeQuestCompleted when done.
func (b *ProjectEventBus) SubscribeQuestCompleted(key domain.ProjectKey) <-chan domain.QuestCompletedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Buffered channel (size 1 prevents blocking on publish)
	ch := make(chan domain.QuestCompletedEvent, 1)
	b.questCompletedSubscribers[key] = append(b.questCompletedSubscribers[key], ch)
	return ch
}

// UnsubscribeQuestCompleted removes a subscription. Closes the channel.
func (b *ProjectEventBus) UnsubscribeQuestCompleted(key domain.ProjectKey, ch <-chan domain.QuestCompletedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.questCompletedSubscribers[key]
	for i, c := range channels {
		if c == ch {
			close(c)
			// Remove from slice (order doesn't matter, so swap with last)
			channels[i] = channels[len(channels)-1]
			b.questCompletedSubscribers[key] = channels[:len(channels)-1]
			break
		}
	}
	if len(b.questCompletedSubscribers[key]) == 0 {
		delete(b.questCompletedSubscribers, key)
	}
}

// PublishQuestDeleted publishes a quest deletion to the project's subscribers
func (b *ProjectEventBus) PublishQuestDeleted(event domain.QuestDeletedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.questDeletedSubscribers[event.Key] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscribeQuestDeleted subscribes to quest deletions for one project
func (b *ProjectEventBus) SubscribeQuestDeleted(key domain.ProjectKey) <-chan domain.QuestDeletedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.QuestDeletedEvent, 1)
	b.questDeletedSubscribers[key] = append(b.questDeletedSubscribers[key], ch)
	return ch
}

// UnsubscribeQuestDeleted removes a subscription. Closes the channel.
func (b *ProjectEventBus) UnsubscribeQuestDeleted(key domain.ProjectKey, ch <-chan domain.QuestDeletedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.questDeletedSubscribers[key]
	for i, c := range channels {
		if c == ch {
			close(c)
			channels[i] = channels[len(channels)-1]
			b.questDeletedSubscribers[key] = channels[:len(channels)-1]
			break
		}
	}
	if len(b.questDeletedSubscribers[key]) == 0 {
		delete(b.questDeletedSubscribers, key)
	}
}

// PublishConstructionCompleted publishes construction completion to the project's subscribers
func (b *ProjectEventBus) PublishConstructionCompleted(event domain.ConstructionCompletedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.completedSubscribers[event.Key] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscribeConstructionCompleted subscribes to completion events for one project
func (b *ProjectEventBus) SubscribeConstructionCompleted(key domain.ProjectKey) <-chan domain.ConstructionCompletedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.ConstructionCompletedEvent, 1)
	b.completedSubscribers[key] = append(b.completedSubscribers[key], ch)
	return ch
}

// UnsubscribeConstructionCompleted removes a subscription. Closes the channel.
func (b *ProjectEventBus) UnsubscribeConstructionCompleted(key domain.ProjectKey, ch <-chan domain.ConstructionCompletedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.completedSubscribers[key]
	for i, c := range channels {
		if c == ch {
			close(c)
			channels[i] = channels[len(channels)-1]
			b.completedSubscribers[key] = channels[:len(channels)-1]
			break
		}
	}
	if len(b.completedSubscribers[key]) == 0 {
		delete(b.completedSubscribers, key)
	}
}

// SubscriberCount returns the total number of subscriptions for a key.
// Useful for testing and monitoring.
func (b *ProjectEventBus) SubscriberCount(key domain.ProjectKey) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.questCompletedSubscribers[key]) +
		len(b.questDeletedSubscribers[key]) +
		len(b.completedSubscribers[key])
}
