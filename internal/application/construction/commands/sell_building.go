package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cityforge-go/internal/application/common"
	storageapp "github.com/andrescamacho/cityforge-go/internal/application/storage"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
)

// SellBuildingCommand removes a placed building and its construction
// bookkeeping. The caller is responsible for stopping the building's
// presenter; the registry removal makes the next poll tick observe a missing
// project and stop on its own either way.
type SellBuildingCommand struct {
	BuildingID string
	X          int
	Y          int
}

// SellBuildingResponse acknowledges the sale
type SellBuildingResponse struct {
	Sold bool
}

// SellBuildingHandler handles SellBuildingCommand
type SellBuildingHandler struct {
	storage *storageapp.Service
}

// NewSellBuildingHandler creates the handler
func NewSellBuildingHandler(storage *storageapp.Service) *SellBuildingHandler {
	return &SellBuildingHandler{storage: storage}
}

// Handle executes the command
func (h *SellBuildingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SellBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	h.storage.Sell(cmd.BuildingID, shared.NewGridPosition(cmd.X, cmd.Y))
	return &SellBuildingResponse{Sold: true}, nil
}
