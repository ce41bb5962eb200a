package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cityforge-go/internal/application/common"
	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// GetConstructionStatusQuery reads the display state for one project key
type GetConstructionStatusQuery struct {
	BuildingID string
	X          int
	Y          int
}

// ConstructionStatus is the read model the UI renders from. Exists=false
// means the building has no construction data, which callers treat as "not
// under construction" rather than an error.
type ConstructionStatus struct {
	Exists           bool
	Completed        bool
	RemainingSeconds float64
	Progress         float64
	QuestTotal       int
	QuestsCompleted  int
	QuestsActive     int
}

// GetConstructionStatusHandler handles GetConstructionStatusQuery
type GetConstructionStatusHandler struct {
	registry *constructionapp.ProjectRegistry
	clock    shared.Clock
}

// NewGetConstructionStatusHandler creates the handler
func NewGetConstructionStatusHandler(registry *constructionapp.ProjectRegistry, clock shared.Clock) *GetConstructionStatusHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GetConstructionStatusHandler{registry: registry, clock: clock}
}

// Handle executes the query
func (h *GetConstructionStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetConstructionStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	project, found := h.registry.GetProject(query.BuildingID, shared.NewGridPosition(query.X, query.Y))
	if !found {
		return &ConstructionStatus{Exists: false}, nil
	}

	now := h.clock.Now()
	return &ConstructionStatus{
		Exists:           true,
		Completed:        project.IsCompleted(now),
		RemainingSeconds: project.Remaining(now).Seconds(),
		Progress:         project.Progress(now),
		QuestTotal:       len(project.MasterQuests()),
		QuestsCompleted:  project.CompletedCount(),
		QuestsActive:     len(project.ActiveQuests()),
	}, nil
}
