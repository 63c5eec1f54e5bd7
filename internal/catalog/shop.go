package catalog

import (
	"fmt"

	"github.com/codexa-learn/codexa/internal/domain"
)

// ShopCatalog is a read-only lookup over purchasable items.
type ShopCatalog struct {
	items []domain.ShopItem
	byID  map[string]domain.ShopItem
}

// NewShopCatalog returns the built-in coin shop: doodle avatars and
// credit packs.
func NewShopCatalog() *ShopCatalog {
	return newShopCatalog(builtinShop())
}

func newShopCatalog(items []domain.ShopItem) *ShopCatalog {
	byID := make(map[string]domain.ShopItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &ShopCatalog{items: items, byID: byID}
}

// Items returns every shop entry in catalog order.
func (c *ShopCatalog) Items() []domain.ShopItem {
	return c.items
}

// ByID looks up a shop item.
func (c *ShopCatalog) ByID(id string) (domain.ShopItem, error) {
	it, ok := c.byID[id]
	if !ok {
		return domain.ShopItem{}, fmt.Errorf("%w: shop item %q", domain.ErrUnknownCatalogID, id)
	}
	return it, nil
}

func (c *ShopCatalog) validate() error {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
		if it.CostCoins <= 0 {
			return fmt.Errorf("%w: item %q cost %d", domain.ErrCatalogInvalid, it.ID, it.CostCoins)
		}
		switch it.Kind {
		case domain.ShopAvatar:
			if it.Avatar == "" {
				return fmt.Errorf("%w: avatar item %q has no avatar", domain.ErrCatalogInvalid, it.ID)
			}
		case domain.ShopCreditPack:
			if it.Credits <= 0 {
				return fmt.Errorf("%w: credit pack %q grants %d credits",
					domain.ErrCatalogInvalid, it.ID, it.Credits)
			}
		default:
			return fmt.Errorf("%w: item %q kind %q", domain.ErrCatalogInvalid, it.ID, it.Kind)
		}
	}
	return checkUnique(ids)
}

func builtinShop() []domain.ShopItem {
	return []domain.ShopItem{
		{ID: "avatar_owl", Name: "Avatar: 🦉", Kind: domain.ShopAvatar, CostCoins: 20, Avatar: "🦉"},
		{ID: "avatar_fox", Name: "Avatar: 🦊", Kind: domain.ShopAvatar, CostCoins: 25, Avatar: "🦊"},
		{ID: "avatar_dragon", Name: "Avatar: 🐉", Kind: domain.ShopAvatar, CostCoins: 40, Avatar: "🐉"},
		{ID: "avatar_unicorn", Name: "Avatar: 🦄", Kind: domain.ShopAvatar, CostCoins: 60, Avatar: "🦄"},
		{ID: "credit_pack_small", Name: "Credit Pack (+3)", Kind: domain.ShopCreditPack, CostCoins: 15, Credits: 3},
		{ID: "credit_pack_large", Name: "Credit Pack (+10)", Kind: domain.ShopCreditPack, CostCoins: 45, Credits: 10},
	}
}
