package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cityforge-go/internal/application/common"
	storageapp "github.com/andrescamacho/cityforge-go/internal/application/storage"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// PlaceBuildingCommand places a stored item back onto the grid, resuming any
// paused construction at the new position
type PlaceBuildingCommand struct {
	ItemID string
	X      int
	Y      int
}

// PlaceBuildingResponse acknowledges the placement
type PlaceBuildingResponse struct {
	ItemID string
	Placed bool
}

// PlaceBuildingHandler handles PlaceBuildingCommand
type PlaceBuildingHandler struct {
	storage *storageapp.Service
}

// NewPlaceBuildingHandler creates the handler
func NewPlaceBuildingHandler(storage *storageapp.Service) *PlaceBuildingHandler {
	return &PlaceBuildingHandler{storage: storage}
}

// Handle executes the command
func (h *PlaceBuildingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PlaceBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.storage.Place(ctx, cmd.ItemID, shared.NewGridPosition(cmd.X, cmd.Y)); err != nil {
		return nil, err
	}

	return &PlaceBuildingResponse{ItemID: cmd.ItemID, Placed: true}, nil
}
