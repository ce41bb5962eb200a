package construction

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
)

// BoardListener consumes the quest board's event feed and translates
// board-originated completions and deletions into registry commands. The core
// never polls the board; this is its only inbound path. Events for quest
// texts no project holds active are dropped silently, because the board also
// carries the player's unrelated to-dos.
type BoardListener struct {
	feed     domain.BoardFeed
	registry *ProjectRegistry
	logger   zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	events <-chan domain.BoardEvent
}

// NewBoardListener creates a listener wiring the board feed to the registry
func NewBoardListener(feed domain.BoardFeed, registry *ProjectRegistry, logger zerolog.Logger) *BoardListener {
	return &BoardListener{
		feed:     feed,
		registry: registry,
		logger:   logger,
	}
}

// Start subscribes to the board feed and begins routing events
func (l *BoardListener) Start(ctx context.Context) {
	l.events = l.feed.Subscribe()
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		for {
			select {
			case <-loopCtx.Done():
				return
			case event, ok := <-l.events:
				if !ok {
					return
				}
				l.handle(event)
			}
		}
	}()
}

// Stop detaches from the board feed
func (l *BoardListener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
	l.feed.Unsubscribe(l.events)
	l.cancel = nil
}

func (l *BoardListener) handle(event domain.BoardEvent) {
	switch event.Kind {
	case domain.BoardQuestCompleted:
		l.registry.OnBoardQuestCompleted(event.Quest)
	case domain.BoardQuestDeleted:
		l.registry.OnBoardQuestDeleted(event.Quest)
	default:
		l.logger.Warn().Str("kind", string(event.Kind)).Msg("unknown board event kind")
	}
}
