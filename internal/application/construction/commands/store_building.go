package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cityforge-go/internal/application/common"
	storageapp "github.com/andrescamacho/cityforge-go/internal/application/storage"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// StoreBuildingCommand picks a placed building up into inventory, pausing any
// in-progress construction
type StoreBuildingCommand struct {
	BuildingID string
	X          int
	Y          int
}

// StoreBuildingResponse reports the stored item
type StoreBuildingResponse struct {
	ItemID            string
	UnderConstruction bool
	RemainingSeconds  float64
}

// StoreBuildingHandler handles StoreBuildingCommand
type StoreBuildingHandler struct {
	storage *storageapp.Service
}

// NewStoreBuildingHandler creates the handler
func NewStoreBuildingHandler(storage *storageapp.Service) *StoreBuildingHandler {
	return &StoreBuildingHandler{storage: storage}
}

// Handle executes the command
func (h *StoreBuildingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StoreBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	item, err := h.storage.Store(ctx, cmd.BuildingID, shared.NewGridPosition(cmd.X, cmd.Y))
	if err != nil {
		return nil, err
	}

	response := &StoreBuildingResponse{
		ItemID:            item.ID,
		UnderConstruction: item.Construction != nil,
	}
	if item.Construction != nil {
		response.RemainingSeconds = item.Construction.PausedRemainingSeconds
	}
	return response, nil
}
