package construction

// QuestBoard is the external to-do list collaborator. The core only observes
// membership and pushes or pulls quest texts; completion and deletion arrive
// through the board's event feed.
type QuestBoard interface {
	Contains(quest string) bool
	Add(quest string)
	Remove(quest string)
}

// BoardEventKind distinguishes the two board-originated notifications
type BoardEventKind string

const (
	BoardQuestCompleted BoardEventKind = "COMPLETED"
	BoardQuestDeleted   BoardEventKind = "DELETED"
)

// BoardEvent is a board-originated notification about one quest text
type BoardEvent struct {
	Kind  BoardEventKind
	Quest string
}

// BoardFeed exposes the board's event stream. Subscribe returns a channel of
// events; callers must Unsubscribe when done.
type BoardFeed interface {
	Subscribe() <-chan BoardEvent
	Unsubscribe(<-chan BoardEvent)
}

// EventPublisher publishes project events onto the keyed event channel.
// Implemented by the application event bus.
type EventPublisher interface {
	PublishQuestCompleted(event QuestCompletedEvent)
	PublishQuestDeleted(event QuestDeletedEvent)
	PublishConstructionCompleted(event ConstructionCompletedEvent)
}

// EventSubscriber provides per-key subscriptions to project events, so
// subscribers never see events for other projects. Callers must unsubscribe
// with the same key and channel when done.
type EventSubscriber interface {
	SubscribeQuestCompleted(key ProjectKey) <-chan QuestCompletedEvent
	UnsubscribeQuestCompleted(key ProjectKey, ch <-chan QuestCompletedEvent)
	SubscribeQuestDeleted(key ProjectKey) <-chan QuestDeletedEvent
	UnsubscribeQuestDeleted(key ProjectKey, ch <-chan QuestDeletedEvent)
	SubscribeConstructionCompleted(key ProjectKey) <-chan ConstructionCompletedEvent
	UnsubscribeConstructionCompleted(key ProjectKey, ch <-chan ConstructionCompletedEvent)
}
