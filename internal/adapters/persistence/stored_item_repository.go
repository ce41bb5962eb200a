package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/storage"
)

// GormStoredItemRepository implements storage.Repository using GORM
type GormStoredItemRepository struct {
	db *gorm.DB
}

// Compile-time interface check
var _ storage.Repository = (*GormStoredItemRepository)(nil)

// NewGormStoredItemRepository creates a new GORM stored item repository
func NewGormStoredItemRepository(db *gorm.DB) *GormStoredItemRepository {
	return &GormStoredItemRepository{db: db}
}

// Save persists a stored item (upsert)
func (r *GormStoredItemRepository) Save(ctx context.Context, item *storage.StoredItem) error {
	model, err := r.itemToModel(item)
	if err != nil {
		return fmt.Errorf("failed to convert stored item to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save stored item: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a stored item by id
func (r *GormStoredItemRepository) FindByID(ctx context.Context, id string) (*storage.StoredItem, error) {
	var model StoredItemModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("stored item not found: %s", id)
		}
		return nil, fmt.Errorf("failed to find stored item: %w", result.Error)
	}

	return r.modelToItem(&model)
}

// ListAll retrieves every stored item
func (r *GormStoredItemRepository) ListAll(ctx context.Context) ([]*storage.StoredItem, error) {
	var models []StoredItemModel
	result := r.db.WithContext(ctx).Order("stored_at").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list stored items: %w", result.Error)
	}

	items := make([]*storage.StoredItem, 0, len(models))
	for i := range models {
		item, err := r.modelToItem(&models[i])
		if err != nil {
			continue // Skip rows with corrupt snapshots
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes a stored item. Idempotent.
func (r *GormStoredItemRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&StoredItemModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stored item: %w", result.Error)
	}
	return nil
}

// modelToItem converts database model to domain record
func (r *GormStoredItemRepository) modelToItem(model *StoredItemModel) (*storage.StoredItem, error) {
	item := &storage.StoredItem{
		ID:         model.ID,
		BuildingID: model.BuildingID,
		StoredAt:   model.StoredAt,
	}

	if model.Construction != "" {
		var snapshot construction.Snapshot
		if err := json.Unmarshal([]byte(model.Construction), &snapshot); err != nil {
			return nil, fmt.Errorf("invalid construction snapshot for item %s: %w", model.ID, err)
		}
		item.Construction = &snapshot
	}

	if model.Metadata != "" {
		var metadata map[string]interface{}
		if err := json.Unmarshal([]byte(model.Metadata), &metadata); err == nil {
			item.Metadata = metadata
		}
	}

	return item, nil
}

// itemToModel converts domain record to database model
func (r *GormStoredItemRepository) itemToModel(item *storage.StoredItem) (*StoredItemModel, error) {
	model := &StoredItemModel{
		ID:         item.ID,
		BuildingID: item.BuildingID,
		StoredAt:   item.StoredAt,
	}

	if item.Construction != nil {
		bytes, err := json.Marshal(item.Construction)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal construction snapshot: %w", err)
		}
		model.Construction = string(bytes)
	}

	if item.Metadata != nil {
		bytes, err := json.Marshal(item.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		model.Metadata = string(bytes)
	}

	return model, nil
}
