package construction

import (
	"strings"
	"time"

	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// Snapshot is the portable, serializable copy of a paused project that travels
// with a stored building item. A nil snapshot means "no active construction",
// which is distinct from a snapshot whose remaining time is zero.
type Snapshot struct {
	BuildingID             string              `json:"buildingId"`
	GridPosition           shared.GridPosition `json:"gridPosition"`
	DurationSeconds        float64             `json:"durationSeconds"`
	PausedRemainingSeconds float64             `json:"pausedRemainingSeconds"`
	MasterQuestList        []string            `json:"masterQuestList"`
	ActiveQuestList        []string            `json:"activeQuestList"`
	CompletedQuests        []string            `json:"completedQuests"`
	CompletedCount         int                 `json:"completedCount"`
	DeletedCount           int                 `json:"deletedCount"`
}

// Key returns the project key the snapshot belongs to
func (s *Snapshot) Key() ProjectKey {
	return NewProjectKey(s.BuildingID, s.GridPosition)
}

// Retarget moves the snapshot to a new grid position. Quest texts carry the
// owning key as a suffix to stay unique on the shared board, so every quest
// list is rewritten to the new key; otherwise a fresh project at the vacated
// cell could generate the identical text and board completions would be
// routed to an arbitrary one of the two.
func (s *Snapshot) Retarget(pos shared.GridPosition) {
	oldSuffix := questSuffix(s.Key())
	s.GridPosition = pos
	newSuffix := questSuffix(s.Key())

	retag := func(quests []string) {
		for i, quest := range quests {
			if strings.HasSuffix(quest, oldSuffix) {
				quests[i] = strings.TrimSuffix(quest, oldSuffix) + newSuffix
			}
		}
	}
	retag(s.MasterQuestList)
	retag(s.ActiveQuestList)
	retag(s.CompletedQuests)
}

// Snapshot produces the portable copy of the project for the storage
// collaborator. Callers take it after Pause; it carries everything needed to
// reconstruct the project later.
func (p *Project) Snapshot() *Snapshot {
	return &Snapshot{
		BuildingID:             p.key.BuildingID,
		GridPosition:           p.key.Position,
		DurationSeconds:        p.duration.Seconds(),
		PausedRemainingSeconds: p.pausedRemaining.Seconds(),
		MasterQuestList:        p.MasterQuests(),
		ActiveQuestList:        p.ActiveQuests(),
		CompletedQuests:        append([]string(nil), p.completedQuests...),
		CompletedCount:         len(p.completedQuests),
		DeletedCount:           p.deletedCount,
	}
}

// RestoreProject rebuilds an unpaused project from a snapshot, adjusting the
// start time so that elapsed progress is preserved: the rebuilt project has
// remaining == pausedRemaining as of now.
func RestoreProject(s *Snapshot, now time.Time) *Project {
	duration := secondsToDuration(s.DurationSeconds)
	remaining := secondsToDuration(s.PausedRemainingSeconds)
	return &Project{
		key:             s.Key(),
		startTime:       now.Add(-(duration - remaining)),
		duration:        duration,
		masterQuests:    append([]string(nil), s.MasterQuestList...),
		activeQuests:    append([]string(nil), s.ActiveQuestList...),
		completedQuests: append([]string(nil), s.CompletedQuests...),
		deletedCount:    s.DeletedCount,
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
