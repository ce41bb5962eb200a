package commands

import (
	"context"
	"fmt"
	"time"

	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	"github.com/andrescamacho/cityforge-go/internal/application/common"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// BeginConstructionCommand starts the construction timer for a newly placed
// building
type BeginConstructionCommand struct {
	BuildingID      string
	X               int
	Y               int
	DurationSeconds float64
}

// BeginConstructionResponse reports the created project
type BeginConstructionResponse struct {
	ProjectKey       string
	RemainingSeconds float64
}

// BeginConstructionHandler handles BeginConstructionCommand
type BeginConstructionHandler struct {
	registry *constructionapp.ProjectRegistry
	clock    shared.Clock
}

// NewBeginConstructionHandler creates the handler
func NewBeginConstructionHandler(registry *constructionapp.ProjectRegistry, clock shared.Clock) *BeginConstructionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &BeginConstructionHandler{registry: registry, clock: clock}
}

// Handle executes the command
func (h *BeginConstructionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*BeginConstructionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if cmd.DurationSeconds <= 0 {
		return nil, shared.NewValidationError("durationSeconds", "must be positive")
	}

	pos := shared.NewGridPosition(cmd.X, cmd.Y)
	duration := time.Duration(cmd.DurationSeconds * float64(time.Second))

	project, err := h.registry.Begin(cmd.BuildingID, pos, duration)
	if err != nil {
		return nil, err
	}

	return &BeginConstructionResponse{
		ProjectKey:       project.Key().String(),
		RemainingSeconds: project.Remaining(h.clock.Now()).Seconds(),
	}, nil
}
