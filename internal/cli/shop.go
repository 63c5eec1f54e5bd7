package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/codexa-learn/codexa/internal/daemon"
	"github.com/codexa-learn/codexa/internal/domain"
)

func init() {
	shopCmd.AddCommand(shopBuyCmd)
	rootCmd.AddCommand(shopCmd)
}

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "List the coin shop catalog",
	RunE:  runShop,
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <learner> <item-id>",
	Short: "Buy a shop item with coins",
	Args:  cobra.ExactArgs(2),
	RunE:  runShopBuy,
}

func runShop(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tCOST\tGRANTS")
	for _, item := range d.Catalogs.Shop.Items() {
		grants := item.Avatar
		if item.Kind == domain.ShopCreditPack {
			grants = fmt.Sprintf("%d credits", item.Credits)
		}
		fmt.Fprintf(w, "%s\t%s\t%d coins\t%s\n", item.ID, item.Name, item.CostCoins, grants)
	}
	return w.Flush()
}

func runShopBuy(cmd *cobra.Command, args []string) error {
	learnerID, itemID := args[0], args[1]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	item, err := d.Catalogs.Shop.ByID(itemID)
	if err != nil {
		return err
	}

	var ev domain.Event
	switch item.Kind {
	case domain.ShopAvatar:
		ev = domain.AvatarPurchased{
			AvatarID:   item.ID,
			Cost:       item.CostCoins,
			OccurredAt: time.Now(),
		}
	case domain.ShopCreditPack:
		ev = domain.CreditPackPurchased{
			PackID:         item.ID,
			CreditsGranted: item.Credits,
			CoinsSpent:     item.CostCoins,
			OccurredAt:     time.Now(),
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownCatalogID, itemID)
	}

	p, res, err := applyEvent(d, learnerID, ev)
	if err != nil {
		return err
	}
	fmt.Printf("Bought %s for %d coins.\n", item.Name, item.CostCoins)
	printResult(res)
	fmt.Printf("Balance: %d coins, %d credits\n", p.Coins, p.Credits)
	return nil
}
