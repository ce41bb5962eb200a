package storage

import (
	"context"
	"time"

	"github.com/andrescamacho/cityforge-go/internal/domain/construction"
)

// StoredItem is one building sitting in the player's inventory. When the
// building was under construction at pickup time, Construction carries the
// paused project snapshot; nil means the building has no construction data
// attached (which is different from a snapshot with zero remaining time).
type StoredItem struct {
	ID           string
	BuildingID   string
	StoredAt     time.Time
	Construction *construction.Snapshot
	Metadata     map[string]interface{}
}

// Repository persists stored building items alongside their construction
// snapshots
type Repository interface {
	Save(ctx context.Context, item *StoredItem) error
	FindByID(ctx context.Context, id string) (*StoredItem, error)
	ListAll(ctx context.Context) ([]*StoredItem, error)
	Delete(ctx context.Context, id string) error
}
