package construction

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/andrescamacho/cityforge-go/pkg/utils"
)

// QuestTier is the difficulty tier of a generated skip quest
type QuestTier string

const (
	TierEasy   QuestTier = "EASY"
	TierMedium QuestTier = "MEDIUM"
	TierHard   QuestTier = "HARD"
	TierExpert QuestTier = "EXPERT"
)

// Skip economy constants. A long construction wait is converted into a
// bounded, difficulty-scaled set of externally-verifiable tasks: one quest
// per 36 remaining minutes, capped at 10 regardless of remaining duration.
const (
	MinutesPerQuest = 36
	MinSkipQuests   = 1
	MaxSkipQuests   = 10
)

// Tier thresholds on remaining construction minutes
const (
	expertThreshold = 270 * time.Minute
	hardThreshold   = 180 * time.Minute
	mediumThreshold = 90 * time.Minute
)

// TierFor maps remaining construction time to a quest difficulty tier
func TierFor(remaining time.Duration) QuestTier {
	switch {
	case remaining >= expertThreshold:
		return TierExpert
	case remaining >= hardThreshold:
		return TierHard
	case remaining >= mediumThreshold:
		return TierMedium
	default:
		return TierEasy
	}
}

// QuestsNeeded returns how many skip quests a project with the given
// remaining time earns: clamp(ceil(remainingMinutes / 36), 1, 10)
func QuestsNeeded(remaining time.Duration) int {
	needed := int(math.Ceil(remaining.Minutes() / MinutesPerQuest))
	return utils.Clamp(needed, MinSkipQuests, MaxSkipQuests)
}

// QuestGenerator produces quest texts for a project's skip-quest catalogue.
// Generated texts must be unique across all projects on the shared board.
type QuestGenerator interface {
	Generate(tier QuestTier, key ProjectKey, count int) []string
}

// CatalogGenerator samples tasks without replacement from per-tier catalogues.
// Each text is suffixed with the owning project key so quests for two
// buildings never collide on the shared to-do board.
type CatalogGenerator struct {
	rnd *rand.Rand
}

// NewCatalogGenerator creates a generator seeded for reproducible output in
// tests; use a time-derived seed in production.
func NewCatalogGenerator(seed int64) *CatalogGenerator {
	return &CatalogGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns count unique quest texts for the tier.
// count is capped at the catalogue size, which is at least MaxSkipQuests.
func (g *CatalogGenerator) Generate(tier QuestTier, key ProjectKey, count int) []string {
	catalog := questCatalog[tier]
	if count > len(catalog) {
		count = len(catalog)
	}

	picks := g.rnd.Perm(len(catalog))[:count]
	quests := make([]string, 0, count)
	for _, i := range picks {
		quests = append(quests, catalog[i]+questSuffix(key))
	}
	return quests
}

// questSuffix is the owning-key marker appended to every generated quest
// text. Snapshot.Retarget rewrites it when a project moves to a new cell, so
// the two must stay in sync.
func questSuffix(key ProjectKey) string {
	return fmt.Sprintf(" (%s %s)", key.BuildingID, key.Position)
}

// questCatalog holds the per-tier task pools. Each pool has more entries than
// MaxSkipQuests so sampling without replacement always succeeds.
var questCatalog = map[QuestTier][]string{
	TierEasy: {
		"Take a 10 minute walk",
		"Drink a glass of water",
		"Write down one thing you are grateful for",
		"Do 10 jumping jacks",
		"Tidy your desk for 5 minutes",
		"Read 5 pages of a book",
		"Stretch for 5 minutes",
		"Send a nice message to a friend",
		"Water a plant",
		"Take 10 deep breaths",
		"Step outside for fresh air",
		"Listen to one full song without distractions",
	},
	TierMedium: {
		"Take a 30 minute walk",
		"Cook a meal from scratch",
		"Read 20 pages of a book",
		"Do a 15 minute workout",
		"Clean one room of your home",
		"Journal for 15 minutes",
		"Practice a hobby for 30 minutes",
		"Call a family member",
		"Plan your meals for tomorrow",
		"Do a 10 minute meditation",
		"Organize one drawer or shelf",
		"Go 2 hours without your phone",
	},
	TierHard: {
		"Go for a 5 km walk or run",
		"Study a new skill for 1 hour",
		"Deep clean your kitchen",
		"Do a 45 minute workout",
		"Prepare meals for the next two days",
		"Read 50 pages of a book",
		"Spend 1 hour on a personal project",
		"Declutter your wardrobe",
		"Write a letter to someone you appreciate",
		"Spend half a day without social media",
		"Learn 20 words in a new language",
		"Fix something you have been putting off",
	},
	TierExpert: {
		"Run or hike for at least 1 hour",
		"Study a new skill for 2 hours",
		"Complete a full home workout program session",
		"Volunteer or help someone for an afternoon",
		"Deep clean your entire home",
		"Finish a book you started",
		"Spend a full day without social media",
		"Cook a three-course meal",
		"Plan your goals for the next month",
		"Spend 3 hours on a personal project",
		"Take a day trip somewhere you have never been",
		"Teach someone something you are good at",
	},
}
