package construction

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// ProjectRegistry is the single source of truth for all live construction
// projects in a running session, and implements the skip-quest economy. It
// owns the canonical Project records; every read returns a clone. Pausing a
// project hands its authority over to the returned snapshot and vacates the
// grid key, so a different building can be placed there while the original
// sits in storage.
//
// The registry is constructed at the composition root and injected, never a
// process-wide singleton. A single mutex serializes all mutations: the two
// effective actors (presenter poll loops and board-originated quest events)
// both funnel through here, operations are O(master list size) <= 10, so
// contention is negligible.
type ProjectRegistry struct {
	mu       sync.Mutex
	projects map[domain.ProjectKey]*domain.Project

	board     domain.QuestBoard
	generator domain.QuestGenerator
	publisher domain.EventPublisher
	clock     shared.Clock
	logger    zerolog.Logger
}

// NewProjectRegistry creates a registry backed by the given quest board,
// quest generator and event publisher. If clock is nil, uses RealClock.
func NewProjectRegistry(
	board domain.QuestBoard,
	generator domain.QuestGenerator,
	publisher domain.EventPublisher,
	clock shared.Clock,
	logger zerolog.Logger,
) *ProjectRegistry {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ProjectRegistry{
		projects:  make(map[domain.ProjectKey]*domain.Project),
		board:     board,
		generator: generator,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Begin creates a fresh project for a newly placed building. Fails with
// DuplicateProjectError if a project already exists at that key; the existing
// project is left untouched.
func (r *ProjectRegistry) Begin(buildingID string, pos shared.GridPosition, duration time.Duration) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NewProjectKey(buildingID, pos)
	if _, exists := r.projects[key]; exists {
		// Programmer error in the UI flow: log loudly, leave state untouched
		r.logger.Error().Str("project", key.String()).Msg("Begin called for an occupied project key")
		return nil, shared.NewDuplicateProjectError(buildingID, pos)
	}

	project := domain.NewProject(key, duration, r.clock.Now())
	r.projects[key] = project

	r.logger.Info().
		Str("project", key.String()).
		Dur("duration", duration).
		Msg("construction started")
	return project.Clone(), nil
}

// GetProject returns a display copy of the project at the key, or false if
// absent
func (r *ProjectRegistry) GetProject(buildingID string, pos shared.GridPosition) (*domain.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[domain.NewProjectKey(buildingID, pos)]
	if !ok {
		return nil, false
	}
	return project.Clone(), true
}

// GenerateSkipQuests converts the project's remaining construction time into
// a bounded, difficulty-tiered set of quests and pushes them onto the board.
// Only valid on the first skip request, while the master list is empty; a
// repeated call is a no-op because the catalogue is generated exactly once.
func (r *ProjectRegistry) GenerateSkipQuests(buildingID string, pos shared.GridPosition) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NewProjectKey(buildingID, pos)
	project, ok := r.projects[key]
	if !ok {
		return nil, shared.NewNotFoundError(buildingID, pos)
	}
	if project.HasQuests() {
		r.logger.Debug().Str("project", key.String()).Msg("skip quests already generated, ignoring")
		return nil, nil
	}

	remaining := project.Remaining(r.clock.Now())
	tier := domain.TierFor(remaining)
	quests := r.generator.Generate(tier, key, domain.QuestsNeeded(remaining))

	if err := project.PopulateQuests(quests); err != nil {
		return nil, err
	}
	for _, quest := range project.ActiveQuests() {
		r.board.Add(quest)
	}

	r.logger.Info().
		Str("project", key.String()).
		Str("tier", string(tier)).
		Int("quests", len(quests)).
		Msg("skip quests generated")
	return quests, nil
}

// ReplenishDeletedQuests re-adds every master entry the player deleted from
// the board without completing, and resets the deletion counter. No-op when
// every master entry is already active or completed.
func (r *ProjectRegistry) ReplenishDeletedQuests(buildingID string, pos shared.GridPosition) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NewProjectKey(buildingID, pos)
	project, ok := r.projects[key]
	if !ok {
		return nil, shared.NewNotFoundError(buildingID, pos)
	}

	restored := project.Replenish()
	for _, quest := range restored {
		r.board.Add(quest)
	}

	if len(restored) > 0 {
		r.logger.Info().
			Str("project", key.String()).
			Int("restored", len(restored)).
			Msg("deleted skip quests replenished")
	}
	return restored, nil
}

// MarkQuestCompleted records a quest completion reported by the board.
// Silently no-ops on quests not in the active list: the board is an external,
// possibly-stale source of truth, so staleness is not an error.
func (r *ProjectRegistry) MarkQuestCompleted(buildingID string, pos shared.GridPosition, quest string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markQuestCompletedLocked(domain.NewProjectKey(buildingID, pos), quest)
}

func (r *ProjectRegistry) markQuestCompletedLocked(key domain.ProjectKey, quest string) {
	project, ok := r.projects[key]
	if !ok || !project.CompleteQuest(quest) {
		return
	}

	r.publisher.PublishQuestCompleted(domain.QuestCompletedEvent{
		Key:            key,
		Quest:          quest,
		CompletedCount: project.CompletedCount(),
		TotalQuests:    len(project.MasterQuests()),
	})
}

// MarkQuestDeleted records a quest the player deleted from the board without
// completing it. The quest stays in the master list for replenishment.
func (r *ProjectRegistry) MarkQuestDeleted(buildingID string, pos shared.GridPosition, quest string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markQuestDeletedLocked(domain.NewProjectKey(buildingID, pos), quest)
}

func (r *ProjectRegistry) markQuestDeletedLocked(key domain.ProjectKey, quest string) {
	project, ok := r.projects[key]
	if !ok || !project.DeleteQuest(quest) {
		return
	}

	r.publisher.PublishQuestDeleted(domain.QuestDeletedEvent{
		Key:          key,
		Quest:        quest,
		DeletedCount: project.DeletedCount(),
	})
}

// OnBoardQuestCompleted routes a board completion notification to whichever
// project currently holds the quest active. Unknown quest texts are ignored.
func (r *ProjectRegistry) OnBoardQuestCompleted(quest string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, project := range r.projects {
		if containsQuest(project.ActiveQuests(), quest) {
			r.markQuestCompletedLocked(key, quest)
			return
		}
	}
}

// OnBoardQuestDeleted routes a board deletion notification to whichever
// project currently holds the quest active
func (r *ProjectRegistry) OnBoardQuestDeleted(quest string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, project := range r.projects {
		if containsQuest(project.ActiveQuests(), quest) {
			r.markQuestDeletedLocked(key, quest)
			return
		}
	}
}

// Pause freezes the project's timer for storage and pulls its active quests
// off the board. The project keeps remembering which quests were active so
// Resume can restore them verbatim. Returns the portable snapshot the caller
// attaches to the stored item.
func (r *ProjectRegistry) Pause(buildingID string, pos shared.GridPosition) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NewProjectKey(buildingID, pos)
	project, ok := r.projects[key]
	if !ok {
		return nil, shared.NewNotFoundError(buildingID, pos)
	}
	if err := project.Pause(r.clock.Now()); err != nil {
		return nil, err
	}
	for _, quest := range project.ActiveQuests() {
		r.board.Remove(quest)
	}
	delete(r.projects, key)

	r.logger.Info().
		Str("project", key.String()).
		Dur("remaining", project.PausedRemaining()).
		Msg("construction paused for storage")
	return project.Snapshot(), nil
}

// Resume re-creates a project from a storage snapshot, preserving elapsed
// progress so time spent paused does not count against the player, and pushes
// the remembered active quests back onto the board. Fails with
// DuplicateProjectError if a live project already occupies the key.
func (r *ProjectRegistry) Resume(snapshot *domain.Snapshot) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := snapshot.Key()
	if _, exists := r.projects[key]; exists {
		r.logger.Error().Str("project", key.String()).Msg("Resume called for an occupied project key")
		return nil, shared.NewDuplicateProjectError(key.BuildingID, key.Position)
	}

	project := domain.RestoreProject(snapshot, r.clock.Now())
	r.projects[key] = project
	for _, quest := range project.ActiveQuests() {
		r.board.Add(quest)
	}

	r.logger.Info().
		Str("project", key.String()).
		Dur("remaining", project.Remaining(r.clock.Now())).
		Msg("construction resumed from storage")
	return project.Clone(), nil
}

// Remove unconditionally deletes the project at the key (used on sale).
// Idempotent. Any of its quests still on the board are pulled as well.
func (r *ProjectRegistry) Remove(buildingID string, pos shared.GridPosition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NewProjectKey(buildingID, pos)
	project, ok := r.projects[key]
	if !ok {
		return
	}

	for _, quest := range project.ActiveQuests() {
		r.board.Remove(quest)
	}
	delete(r.projects, key)
	r.logger.Info().Str("project", key.String()).Msg("construction project removed")
}

// Complete permanently marks the project completed and raises the completion
// event exactly once. The key stays queryable as completed until explicitly
// removed.
func (r *ProjectRegistry) Complete(buildingID string, pos shared.GridPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NewProjectKey(buildingID, pos)
	project, ok := r.projects[key]
	if !ok {
		return shared.NewNotFoundError(buildingID, pos)
	}
	if !project.MarkCompleted() {
		return nil
	}

	r.publisher.PublishConstructionCompleted(domain.ConstructionCompletedEvent{Key: key})
	r.logger.Info().Str("project", key.String()).Msg("construction completed")
	return nil
}

// ProjectCount returns the number of live projects. Useful for monitoring.
func (r *ProjectRegistry) ProjectCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.projects)
}

func containsQuest(quests []string, quest string) bool {
	for _, q := range quests {
		if q == quest {
			return true
		}
	}
	return false
}
