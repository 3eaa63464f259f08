package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/adapter/notify"
	"github.com/rl1809/bata-cart/internal/adapter/render"
	"github.com/rl1809/bata-cart/internal/core/domain"
	"github.com/rl1809/bata-cart/internal/core/service"
)

type cartOptions struct {
	*RootOptions
	Profile string
}

func NewCartCommand(root *RootOptions) *cobra.Command {
	opts := &cartOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect or clear persisted carts",
	}
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "storage profile (session id)")
	_ = cmd.MarkPersistentFlagRequired("profile")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print a persisted cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd.Context(), opts, func(store *service.CartStore) error {
				return printCart(cmd.OutOrStdout(), opts.Format, store.Cart().View())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove a persisted cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd.Context(), opts, func(store *service.CartStore) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared cart for %s\n", opts.Profile)
				return nil
			})
		},
	})

	return cmd
}

func withCart(ctx context.Context, opts *cartOptions, fn func(*service.CartStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	store, closeStorage, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	carts := service.NewCarts(store, logger, cfg.CheckoutPath)
	return carts.Do(ctx, opts.Profile, render.Nop{}, notify.Log{Logger: logger}, fn)
}

func printCart(w io.Writer, format string, view domain.CartView) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	if view.Empty {
		fmt.Fprintln(w, "Your cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tPRICE\tQTY\tLINE TOTAL")
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			item.Index, item.ID, item.Name, domain.FormatPrice(item.Price), item.Quantity, item.LineTotal)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "count: %d\ntotal: %s\n", view.Count, view.Total)
	return nil
}
