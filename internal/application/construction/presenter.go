package construction

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// ProgressDisplay is the rendering port a presenter drives. Implementations
// belong to the UI layer; the core never talks to rendering directly.
type ProgressDisplay interface {
	// ShowProgress reports the completion fraction in [0,1] and the remaining time
	ShowProgress(fraction float64, remaining time.Duration)

	// ShowQuestTotal reports the size of the master quest list. The total is
	// stable so the player always sees the same target number, regardless of
	// how many quests are currently active.
	ShowQuestTotal(total int)

	// ShowQuestProgress reports completed quests against the stable total
	ShowQuestProgress(completed, total int)

	// ShowCompleted switches the display to its finished state
	ShowCompleted()
}

// Presenter binds to exactly one project key, assigned at construction time
// and immutable thereafter. It polls the registry on a fixed interval to
// update the display, forwards skip-button clicks, and consumes the three
// per-key project events. It holds no authoritative state: every tick
// re-fetches the project so arbitrary wall-clock jumps while the scene was
// hidden are harmless.
type Presenter struct {
	key      domain.ProjectKey
	registry *ProjectRegistry
	events   domain.EventSubscriber
	display  ProgressDisplay
	clock    shared.Clock
	logger   zerolog.Logger

	pollInterval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool

	questCompletedCh <-chan domain.QuestCompletedEvent
	questDeletedCh   <-chan domain.QuestDeletedEvent
	completedCh      <-chan domain.ConstructionCompletedEvent
}

// NewPresenter creates a presenter for one project key. If clock is nil, uses
// RealClock.
func NewPresenter(
	key domain.ProjectKey,
	registry *ProjectRegistry,
	events domain.EventSubscriber,
	display ProgressDisplay,
	pollInterval time.Duration,
	clock shared.Clock,
	logger zerolog.Logger,
) *Presenter {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Presenter{
		key:          key,
		registry:     registry,
		events:       events,
		display:      display,
		clock:        clock,
		logger:       logger,
		pollInterval: pollInterval,
	}
}

// Key returns the project key this presenter is bound to
func (p *Presenter) Key() domain.ProjectKey {
	return p.key
}

// Start subscribes to the project's events and launches the poll loop.
// Idempotent while running.
func (p *Presenter) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	p.questCompletedCh = p.events.SubscribeQuestCompleted(p.key)
	p.questDeletedCh = p.events.SubscribeQuestDeleted(p.key)
	p.completedCh = p.events.SubscribeConstructionCompleted(p.key)

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(loopCtx)
}

// Stop cancels the poll loop, waits for it to exit and drops the event
// subscriptions. Must be called when the owning building is sold or its UI
// object is destroyed; a detached subscription is a resource leak even though
// events are key-filtered.
func (p *Presenter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false

	p.cancel()
	<-p.done

	p.events.UnsubscribeQuestCompleted(p.key, p.questCompletedCh)
	p.events.UnsubscribeQuestDeleted(p.key, p.questDeletedCh)
	p.events.UnsubscribeConstructionCompleted(p.key, p.completedCh)
}

// Resync re-fetches the authoritative project and refreshes the display
// immediately. Call on scene reactivation: cached display state cannot be
// trusted after the presenter was hidden, because wall-clock time advanced
// arbitrarily in between.
func (p *Presenter) Resync() {
	p.refresh()
}

// SkipClicked implements the three-state skip-button protocol:
// no quests yet -> generate; gaps in the active list -> replenish;
// fully active or completed -> no-op, the display just reports the total.
func (p *Presenter) SkipClicked() {
	project, ok := p.registry.GetProject(p.key.BuildingID, p.key.Position)
	if !ok {
		p.logger.Warn().Str("project", p.key.String()).Msg("skip clicked but project is gone")
		return
	}

	switch {
	case !project.HasQuests():
		if _, err := p.registry.GenerateSkipQuests(p.key.BuildingID, p.key.Position); err != nil {
			p.logger.Warn().Err(err).Str("project", p.key.String()).Msg("failed to generate skip quests")
			return
		}
	case len(project.MissingQuests()) > 0:
		if _, err := p.registry.ReplenishDeletedQuests(p.key.BuildingID, p.key.Position); err != nil {
			p.logger.Warn().Err(err).Str("project", p.key.String()).Msg("failed to replenish skip quests")
			return
		}
	default:
		// Every master entry is active or completed, nothing to push
	}

	if project, ok := p.registry.GetProject(p.key.BuildingID, p.key.Position); ok {
		p.display.ShowQuestTotal(len(project.MasterQuests()))
	}
}

// run is the presenter's single goroutine: it multiplexes the poll ticker and
// the three event channels so display updates never race each other.
func (p *Presenter) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.refresh()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			completed, gone := p.tick()
			if gone {
				return
			}
			if completed {
				// Completion was handed to the registry; keep draining events
				// so the final completed emission still reaches the display.
				ticker.Stop()
			}

		case event, ok := <-p.questCompletedCh:
			if !ok {
				return
			}
			p.display.ShowQuestProgress(event.CompletedCount, event.TotalQuests)

		case event, ok := <-p.questDeletedCh:
			if !ok {
				return
			}
			p.logger.Debug().
				Str("project", p.key.String()).
				Str("quest", event.Quest).
				Int("deleted", event.DeletedCount).
				Msg("skip quest deleted from board")

		case _, ok := <-p.completedCh:
			if !ok {
				return
			}
			p.display.ShowCompleted()
			return
		}
	}
}

// tick performs one poll: fetch, update display, and hand completion to the
// registry when the timer has run out
func (p *Presenter) tick() (completed, gone bool) {
	project, ok := p.registry.GetProject(p.key.BuildingID, p.key.Position)
	if !ok {
		// Recoverable: the project was removed underneath us
		p.logger.Warn().Str("project", p.key.String()).Msg("project vanished, stopping poll")
		return false, true
	}

	now := p.clock.Now()
	remaining := project.Remaining(now)
	p.display.ShowProgress(project.Progress(now), remaining)

	if remaining <= 0 {
		if err := p.registry.Complete(p.key.BuildingID, p.key.Position); err != nil {
			p.logger.Warn().Err(err).Str("project", p.key.String()).Msg("failed to complete construction")
		}
		return true, false
	}
	return false, false
}

func (p *Presenter) refresh() {
	project, ok := p.registry.GetProject(p.key.BuildingID, p.key.Position)
	if !ok {
		return
	}
	now := p.clock.Now()
	p.display.ShowProgress(project.Progress(now), project.Remaining(now))
	if project.HasQuests() {
		p.display.ShowQuestTotal(len(project.MasterQuests()))
		p.display.ShowQuestProgress(project.CompletedCount(), len(project.MasterQuests()))
	}
}
