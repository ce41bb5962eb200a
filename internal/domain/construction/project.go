package construction

import (
	"fmt"
	"time"

	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// ProjectKey identifies one construction in progress. Building ids are not
// globally unique on their own: two buildings of the same type can be under
// construction at different grid positions at the same time.
type ProjectKey struct {
	BuildingID string
	Position   shared.GridPosition
}

// NewProjectKey creates a project key
func NewProjectKey(buildingID string, pos shared.GridPosition) ProjectKey {
	return ProjectKey{BuildingID: buildingID, Position: pos}
}

func (k ProjectKey) String() string {
	return fmt.Sprintf("%s@%s", k.BuildingID, k.Position)
}

// Project is the record for one build-in-progress or paused build.
//
// The ProjectRegistry exclusively owns the canonical Project. Presenters and
// storage snapshots only ever see copies; all mutation goes through registry
// commands so the authoritative record and any UI cache cannot diverge.
//
// Invariants:
// - activeQuests ⊆ masterQuests (both duplicate-free)
// - len(completedQuests) + deletedCount + len(activeQuests) <= len(masterQuests)
// - the master list never shrinks once populated
type Project struct {
	key       ProjectKey
	startTime time.Time
	duration  time.Duration

	masterQuests    []string
	activeQuests    []string
	completedQuests []string
	deletedCount    int

	paused          bool
	pausedRemaining time.Duration

	completed bool
}

// NewProject creates a fresh unpaused project with empty quest lists,
// starting its construction timer at startTime.
func NewProject(key ProjectKey, duration time.Duration, startTime time.Time) *Project {
	return &Project{
		key:       key,
		startTime: startTime,
		duration:  duration,
	}
}

// Identity and timer queries

func (p *Project) Key() ProjectKey                { return p.key }
func (p *Project) BuildingID() string             { return p.key.BuildingID }
func (p *Project) Position() shared.GridPosition  { return p.key.Position }
func (p *Project) Duration() time.Duration        { return p.duration }
func (p *Project) StartTime() time.Time           { return p.startTime }
func (p *Project) IsPaused() bool                 { return p.paused }
func (p *Project) PausedRemaining() time.Duration { return p.pausedRemaining }

// Elapsed returns how much construction time has accumulated by now.
// While paused the value is frozen at the moment Pause was taken.
func (p *Project) Elapsed(now time.Time) time.Duration {
	if p.paused {
		return p.duration - p.pausedRemaining
	}
	elapsed := now.Sub(p.startTime)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Remaining returns how much construction time is left, never negative.
// Once the project is marked completed it stays at zero.
func (p *Project) Remaining(now time.Time) time.Duration {
	if p.completed {
		return 0
	}
	if p.paused {
		return p.pausedRemaining
	}
	remaining := p.duration - p.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress returns the completion fraction in [0, 1]
func (p *Project) Progress(now time.Time) float64 {
	if p.duration <= 0 {
		return 1
	}
	frac := float64(p.Elapsed(now)) / float64(p.duration)
	if frac > 1 {
		return 1
	}
	if frac < 0 {
		return 0
	}
	return frac
}

// IsCompleted reports whether construction has finished.
// Completion is monotonic: once true it never reverts.
func (p *Project) IsCompleted(now time.Time) bool {
	return p.completed || p.Remaining(now) <= 0
}

// MarkCompleted permanently marks the project as completed. Returns false if
// it was already marked, so completion events fire exactly once.
func (p *Project) MarkCompleted() bool {
	if p.completed {
		return false
	}
	p.completed = true
	return true
}

// Clone returns a deep copy for display use. Presenters and other read-side
// callers receive clones so the registry's canonical record cannot be mutated
// behind its back.
func (p *Project) Clone() *Project {
	clone := *p
	clone.masterQuests = append([]string(nil), p.masterQuests...)
	clone.activeQuests = append([]string(nil), p.activeQuests...)
	clone.completedQuests = append([]string(nil), p.completedQuests...)
	return &clone
}

// Quest list queries

// MasterQuests returns a copy of the fixed quest catalogue for this project
func (p *Project) MasterQuests() []string {
	return append([]string(nil), p.masterQuests...)
}

// ActiveQuests returns a copy of the quests currently on the to-do board
func (p *Project) ActiveQuests() []string {
	return append([]string(nil), p.activeQuests...)
}

// HasQuests reports whether skip quests were ever generated for this project
func (p *Project) HasQuests() bool {
	return len(p.masterQuests) > 0
}

// CompletedCount returns how many skip quests the player has completed
func (p *Project) CompletedCount() int {
	return len(p.completedQuests)
}

// DeletedCount returns how many active quests the player deleted without
// completing since the last replenish
func (p *Project) DeletedCount() int {
	return p.deletedCount
}

// MissingQuests returns the master entries that are neither active nor
// completed: the quests the player deleted from the board and that a
// replenish would bring back.
func (p *Project) MissingQuests() []string {
	var missing []string
	for _, quest := range p.masterQuests {
		if !containsQuest(p.activeQuests, quest) && !containsQuest(p.completedQuests, quest) {
			missing = append(missing, quest)
		}
	}
	return missing
}

// Quest list mutations (registry-driven)

// PopulateQuests installs the once-generated master quest catalogue and
// activates every entry. Only valid while the master list is empty.
func (p *Project) PopulateQuests(quests []string) error {
	if len(p.masterQuests) > 0 {
		return shared.NewDomainError(fmt.Sprintf("skip quests already generated for %s", p.key))
	}
	for _, quest := range quests {
		if containsQuest(p.masterQuests, quest) {
			continue // master list entries are unique
		}
		p.masterQuests = append(p.masterQuests, quest)
		p.activeQuests = append(p.activeQuests, quest)
	}
	return nil
}

// CompleteQuest removes the quest from the active list and records the
// completion. Returns false if the quest is not currently active; the board
// is an external, possibly-stale source, so this is not an error.
func (p *Project) CompleteQuest(quest string) bool {
	if !removeQuest(&p.activeQuests, quest) {
		return false
	}
	p.completedQuests = append(p.completedQuests, quest)
	return true
}

// DeleteQuest removes the quest from the active list and counts the deletion.
// The quest stays in the master list and is eligible for replenishment.
// Returns false if the quest is not currently active.
func (p *Project) DeleteQuest(quest string) bool {
	if containsQuest(p.completedQuests, quest) {
		return false
	}
	if !removeQuest(&p.activeQuests, quest) {
		return false
	}
	p.deletedCount++
	return true
}

// Replenish re-activates every missing-but-not-completed master entry and
// resets the deletion counter. Returns the re-activated quests, empty when
// every master entry is already active or completed.
func (p *Project) Replenish() []string {
	missing := p.MissingQuests()
	p.activeQuests = append(p.activeQuests, missing...)
	p.deletedCount = 0
	return missing
}

// Pause/resume

// Pause freezes the construction timer, snapshotting the remaining time so
// wall-clock time spent in storage does not count against the player. The
// active quest list is kept verbatim so the same quests can be restored on
// resume. Pausing an already-paused project fails with AlreadyPausedError.
func (p *Project) Pause(now time.Time) error {
	if p.paused {
		return shared.NewAlreadyPausedError(p.key.BuildingID, p.key.Position)
	}
	p.pausedRemaining = p.Remaining(now)
	p.paused = true
	return nil
}

func containsQuest(quests []string, quest string) bool {
	for _, q := range quests {
		if q == quest {
			return true
		}
	}
	return false
}

func removeQuest(quests *[]string, quest string) bool {
	for i, q := range *quests {
		if q == quest {
			*quests = append((*quests)[:i], (*quests)[i+1:]...)
			return true
		}
	}
	return false
}
