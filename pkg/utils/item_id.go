package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateItemID creates a standardized, human-readable stored-item ID.
// Format: {buildingSlug}-{8charHexUUID}
//
// Example:
//   - Input: buildingID="Yoga Studio"
//   - Output: "yoga-studio-a3f8e2b1"
//
// The slug keeps database rows and log lines readable while the UUID suffix
// guarantees uniqueness across repeated store/place cycles of the same
// building.
func GenerateItemID(buildingID string) string {
	return buildingSlug(buildingID) + "-" + generateShortUUID()
}

// buildingSlug lowercases the building id and collapses whitespace to hyphens
func buildingSlug(buildingID string) string {
	slug := strings.ToLower(strings.TrimSpace(buildingID))
	return strings.Join(strings.Fields(slug), "-")
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}
