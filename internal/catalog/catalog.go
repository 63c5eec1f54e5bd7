// Package catalog holds the static quest, achievement, and shop
// definitions. Catalogs are loaded once at process start and never
// mutated at runtime — editing them is a deployment-time change.
package catalog

import (
	"fmt"

	"github.com/codexa-learn/codexa/internal/domain"
)

// Catalogs bundles every static definition set the engine reads.
type Catalogs struct {
	Quests       *QuestCatalog
	Achievements *AchievementCatalog
	Shop         *ShopCatalog
}

// Load builds the built-in catalogs and validates them.
// A validation failure is a configuration bug and should abort startup.
func Load() (*Catalogs, error) {
	c := &Catalogs{
		Quests:       NewQuestCatalog(),
		Achievements: NewAchievementCatalog(),
		Shop:         NewShopCatalog(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every catalog for duplicate ids and malformed entries.
func (c *Catalogs) Validate() error {
	if err := c.Quests.validate(); err != nil {
		return fmt.Errorf("quest catalog: %w", err)
	}
	if err := c.Achievements.validate(); err != nil {
		return fmt.Errorf("achievement catalog: %w", err)
	}
	if err := c.Shop.validate(); err != nil {
		return fmt.Errorf("shop catalog: %w", err)
	}
	return nil
}

func checkUnique(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id", domain.ErrCatalogInvalid)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrCatalogInvalid, id)
		}
		seen[id] = true
	}
	return nil
}
