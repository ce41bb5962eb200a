package construction

// QuestCompletedEvent is raised when an active skip quest is completed on the
// to-do board
type QuestCompletedEvent struct {
	Key            ProjectKey
	Quest          string
	CompletedCount int
	TotalQuests    int
}

// QuestDeletedEvent is raised when an active skip quest is deleted from the
// to-do board without being completed
type QuestDeletedEvent struct {
	Key          ProjectKey
	Quest        string
	DeletedCount int
}

// ConstructionCompletedEvent is raised exactly once when a project's
// construction timer runs out
type ConstructionCompletedEvent struct {
	Key ProjectKey
}
