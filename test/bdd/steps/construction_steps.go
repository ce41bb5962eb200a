package steps

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/cityforge-go/internal/adapters/questboard"
	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// constructionContext holds state for construction lifecycle and skip quest
// scenarios
type constructionContext struct {
	clock    *shared.MockClock
	board    *questboard.Board
	registry *constructionapp.ProjectRegistry

	err       error
	quests    []string
	generated []string
	snapshot  *domain.Snapshot
}

func (cc *constructionContext) reset() {
	cc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cc.board = questboard.NewBoard()
	cc.registry = constructionapp.NewProjectRegistry(
		cc.board,
		domain.NewCatalogGenerator(1),
		constructionapp.NewProjectEventBus(),
		cc.clock,
		zerolog.Nop(),
	)
	cc.err = nil
	cc.quests = nil
	cc.generated = nil
	cc.snapshot = nil
}

func (cc *constructionContext) project(buildingID string, x, y int) (*domain.Project, error) {
	project, found := cc.registry.GetProject(buildingID, shared.NewGridPosition(x, y))
	if !found {
		return nil, fmt.Errorf("no project at %s (%d,%d)", buildingID, x, y)
	}
	return project, nil
}

func (cc *constructionContext) generatedQuest(ordinal string) (string, error) {
	index := map[string]int{"first": 0, "second": 1, "third": 2}[ordinal]
	if index >= len(cc.generated) {
		return "", fmt.Errorf("no %s generated quest, only %d generated", ordinal, len(cc.generated))
	}
	return cc.generated[index], nil
}

// ============================================================================
// Lifecycle steps
// ============================================================================

func (cc *constructionContext) constructionBegins(buildingID string, x, y, amount int, unit string) error {
	duration := time.Duration(amount) * time.Second
	if unit == "minutes" {
		duration = time.Duration(amount) * time.Minute
	}
	_, cc.err = cc.registry.Begin(buildingID, shared.NewGridPosition(x, y), duration)
	return nil
}

func (cc *constructionContext) constructionBegan(buildingID string, x, y, amount int, unit string) error {
	if err := cc.constructionBegins(buildingID, x, y, amount, unit); err != nil {
		return err
	}
	return cc.err
}

func (cc *constructionContext) secondsPass(seconds int) error {
	cc.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (cc *constructionContext) daysPass(days int) error {
	cc.clock.Advance(time.Duration(days) * 24 * time.Hour)
	return nil
}

func (cc *constructionContext) projectHasSecondsRemaining(buildingID string, x, y, seconds int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	remaining := project.Remaining(cc.clock.Now())
	if math.Abs(remaining.Seconds()-float64(seconds)) > 0.001 {
		return fmt.Errorf("expected %d seconds remaining, got %s", seconds, remaining)
	}
	return nil
}

func (cc *constructionContext) projectIsCompleted(buildingID string, x, y int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	if !project.IsCompleted(cc.clock.Now()) {
		return fmt.Errorf("project %s (%d,%d) is not completed", buildingID, x, y)
	}
	return nil
}

func (cc *constructionContext) projectIsNotCompleted(buildingID string, x, y int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	if project.IsCompleted(cc.clock.Now()) {
		return fmt.Errorf("project %s (%d,%d) is unexpectedly completed", buildingID, x, y)
	}
	return nil
}

func (cc *constructionContext) operationFailsWithDuplicateError() error {
	if cc.err == nil {
		return fmt.Errorf("expected a duplicate project error, got none")
	}
	if _, ok := cc.err.(*shared.DuplicateProjectError); !ok {
		return fmt.Errorf("expected a duplicate project error, got %v", cc.err)
	}
	return nil
}

func (cc *constructionContext) projectsAreRegistered(count int) error {
	if cc.registry.ProjectCount() != count {
		return fmt.Errorf("expected %d projects, got %d", count, cc.registry.ProjectCount())
	}
	return nil
}

func (cc *constructionContext) constructionIsFinalized(buildingID string, x, y int) error {
	return cc.registry.Complete(buildingID, shared.NewGridPosition(x, y))
}

func (cc *constructionContext) buildingIsPickedUp(buildingID string, x, y int) error {
	cc.snapshot, cc.err = cc.registry.Pause(buildingID, shared.NewGridPosition(x, y))
	return cc.err
}

func (cc *constructionContext) pocketedBuildingIsPlacedBack() error {
	if cc.snapshot == nil {
		return fmt.Errorf("nothing in the pocket")
	}
	_, cc.err = cc.registry.Resume(cc.snapshot)
	return nil
}

func (cc *constructionContext) noProjectExistsAt(buildingID string, x, y int) error {
	if _, found := cc.registry.GetProject(buildingID, shared.NewGridPosition(x, y)); found {
		return fmt.Errorf("unexpected project at %s (%d,%d)", buildingID, x, y)
	}
	return nil
}

func (cc *constructionContext) pocketedSnapshotHoldsSecondsRemaining(seconds int) error {
	if cc.snapshot == nil {
		return fmt.Errorf("nothing in the pocket")
	}
	if math.Abs(cc.snapshot.PausedRemainingSeconds-float64(seconds)) > 0.001 {
		return fmt.Errorf("expected %d seconds in the snapshot, got %f", seconds, cc.snapshot.PausedRemainingSeconds)
	}
	return nil
}

func (cc *constructionContext) buildingIsSold(buildingID string, x, y int) error {
	cc.registry.Remove(buildingID, shared.NewGridPosition(x, y))
	return nil
}

// ============================================================================
// Skip quest steps
// ============================================================================

func (cc *constructionContext) skipQuestsAreRequested(buildingID string, x, y int) error {
	cc.quests, cc.err = cc.registry.GenerateSkipQuests(buildingID, shared.NewGridPosition(x, y))
	if cc.err != nil {
		return cc.err
	}
	if cc.quests != nil {
		cc.generated = cc.quests
	}
	return nil
}

func (cc *constructionContext) questsAreGenerated(count int) error {
	if len(cc.quests) != count {
		return fmt.Errorf("expected %d quests, got %d", count, len(cc.quests))
	}
	return nil
}

func (cc *constructionContext) allGeneratedQuestsAreOnTheBoard() error {
	for _, quest := range cc.generated {
		if !cc.board.Contains(quest) {
			return fmt.Errorf("quest %q is missing from the board", quest)
		}
	}
	return nil
}

func (cc *constructionContext) noGeneratedQuestIsOnTheBoard() error {
	for _, quest := range cc.generated {
		if cc.board.Contains(quest) {
			return fmt.Errorf("quest %q is still on the board", quest)
		}
	}
	return nil
}

func (cc *constructionContext) projectStillHasMasterQuests(buildingID string, x, y, count int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	if len(project.MasterQuests()) != count {
		return fmt.Errorf("expected %d master quests, got %d", count, len(project.MasterQuests()))
	}
	return nil
}

func (cc *constructionContext) generatedQuestIsCompletedOnTheBoard(ordinal string) error {
	quest, err := cc.generatedQuest(ordinal)
	if err != nil {
		return err
	}
	cc.board.Complete(quest)
	cc.registry.OnBoardQuestCompleted(quest)
	return nil
}

func (cc *constructionContext) generatedQuestIsDeletedOnTheBoard(ordinal string) error {
	quest, err := cc.generatedQuest(ordinal)
	if err != nil {
		return err
	}
	cc.board.Delete(quest)
	cc.registry.OnBoardQuestDeleted(quest)
	return nil
}

func (cc *constructionContext) projectHasCompletedQuests(buildingID string, x, y, count int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	if project.CompletedCount() != count {
		return fmt.Errorf("expected %d completed quests, got %d", count, project.CompletedCount())
	}
	return nil
}

func (cc *constructionContext) projectHasActiveQuests(buildingID string, x, y, count int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	if len(project.ActiveQuests()) != count {
		return fmt.Errorf("expected %d active quests, got %d", count, len(project.ActiveQuests()))
	}
	return nil
}

func (cc *constructionContext) projectHasDeletedQuests(buildingID string, x, y, count int) error {
	project, err := cc.project(buildingID, x, y)
	if err != nil {
		return err
	}
	if project.DeletedCount() != count {
		return fmt.Errorf("expected %d deleted quests, got %d", count, project.DeletedCount())
	}
	return nil
}

func (cc *constructionContext) deletedQuestsAreReplenished(buildingID string, x, y int) error {
	_, cc.err = cc.registry.ReplenishDeletedQuests(buildingID, shared.NewGridPosition(x, y))
	return cc.err
}

func (cc *constructionContext) boardHoldsUnrelatedTask(task string) error {
	cc.board.Add(task)
	return nil
}

func (cc *constructionContext) taskIsCompletedOnTheBoard(task string) error {
	cc.board.Complete(task)
	cc.registry.OnBoardQuestCompleted(task)
	return nil
}

// InitializeConstructionScenario registers construction lifecycle and skip
// quest step definitions
func InitializeConstructionScenario(ctx *godog.ScenarioContext) {
	cc := &constructionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	// Lifecycle steps
	ctx.Step(`^construction begins for "([^"]*)" at \((\d+),(\d+)\) taking (\d+) (seconds|minutes)$`, cc.constructionBegins)
	ctx.Step(`^construction began for "([^"]*)" at \((\d+),(\d+)\) taking (\d+) (seconds|minutes)$`, cc.constructionBegan)
	ctx.Step(`^(\d+) seconds? pass$`, cc.secondsPass)
	ctx.Step(`^(\d+) days? pass$`, cc.daysPass)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) has (\d+) seconds remaining$`, cc.projectHasSecondsRemaining)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) is completed$`, cc.projectIsCompleted)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) is not completed$`, cc.projectIsNotCompleted)
	ctx.Step(`^the operation fails with a duplicate project error$`, cc.operationFailsWithDuplicateError)
	ctx.Step(`^(\d+) projects are registered$`, cc.projectsAreRegistered)
	ctx.Step(`^the construction at "([^"]*)" \((\d+),(\d+)\) is finalized$`, cc.constructionIsFinalized)
	ctx.Step(`^the building at "([^"]*)" \((\d+),(\d+)\) is picked up$`, cc.buildingIsPickedUp)
	ctx.Step(`^the pocketed building is placed back$`, cc.pocketedBuildingIsPlacedBack)
	ctx.Step(`^no project exists at "([^"]*)" \((\d+),(\d+)\)$`, cc.noProjectExistsAt)
	ctx.Step(`^the pocketed snapshot holds (\d+) seconds remaining$`, cc.pocketedSnapshotHoldsSecondsRemaining)
	ctx.Step(`^the building at "([^"]*)" \((\d+),(\d+)\) is sold$`, cc.buildingIsSold)

	// Skip quest steps
	ctx.Step(`^skip quests are requested for "([^"]*)" \((\d+),(\d+)\)$`, cc.skipQuestsAreRequested)
	ctx.Step(`^(\d+) quests are generated$`, cc.questsAreGenerated)
	ctx.Step(`^all generated quests are on the board$`, cc.allGeneratedQuestsAreOnTheBoard)
	ctx.Step(`^no generated quest is on the board$`, cc.noGeneratedQuestIsOnTheBoard)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) still has (\d+) quests in its master list$`, cc.projectStillHasMasterQuests)
	ctx.Step(`^the (first|second|third) generated quest is completed on the board$`, cc.generatedQuestIsCompletedOnTheBoard)
	ctx.Step(`^the (first|second|third) generated quest is deleted on the board$`, cc.generatedQuestIsDeletedOnTheBoard)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) has (\d+) completed quests?$`, cc.projectHasCompletedQuests)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) has (\d+) active quests?$`, cc.projectHasActiveQuests)
	ctx.Step(`^the project at "([^"]*)" \((\d+),(\d+)\) has (\d+) deleted quests?$`, cc.projectHasDeletedQuests)
	ctx.Step(`^deleted quests are replenished for "([^"]*)" \((\d+),(\d+)\)$`, cc.deletedQuestsAreReplenished)
	ctx.Step(`^the board holds an unrelated task "([^"]*)"$`, cc.boardHoldsUnrelatedTask)
	ctx.Step(`^the task "([^"]*)" is completed on the board$`, cc.taskIsCompletedOnTheBoard)
}
