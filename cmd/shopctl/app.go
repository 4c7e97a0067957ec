// cmd/shopctl/app.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	usecase "shopcart/internal/application/usecase"
	customerdom "shopcart/internal/domain/customer"
	"shopcart/internal/infra/config"
	"shopcart/internal/infra/logging"
	"shopcart/internal/platform/di"
)

// exit code for a rejected purchase
const exitInsufficient = 2

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "shopctl",
		Usage: "operate the shop catalog and carts from the command line",
		// main decides the exit code
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "product store: memory|postgres|sqlite|firestore (overrides STORE_BACKEND)",
				Sources: cli.EnvVars("STORE_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "sqlite-path",
				Usage:   "sqlite database file (overrides SQLITE_PATH)",
				Sources: cli.EnvVars("SQLITE_PATH"),
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "import this catalog (file or gs://) before running the command",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "import a catalog JSON array of {name,count}",
				ArgsUsage: "<file|gs://bucket/object>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					uri := strings.TrimSpace(cmd.Args().First())
					if uri == "" {
						return errors.New("seed: catalog uri is required")
					}
					return withContainer(ctx, cmd, func(c *di.Container) error {
						n, err := c.SeedCatalog(ctx, uri)
						if err != nil {
							return err
						}
						_, _ = fmt.Fprintf(out, "imported %d products from %s\n", n, uri)
						return nil
					})
				},
			},
			{
				Name:      "products",
				Usage:     "list products, or show one by name",
				ArgsUsage: "[name]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name := strings.TrimSpace(cmd.Args().First())
					return withContainer(ctx, cmd, func(c *di.Container) error {
						if name != "" {
							p, err := c.ShoppingUC.GetProductByName(ctx, name)
							if err != nil {
								return err
							}
							return printJSON(out, p)
						}
						ps, err := c.ShoppingUC.GetAllProducts(ctx)
						if err != nil {
							return err
						}
						return printJSON(out, ps)
					})
				},
			},
			{
				Name:  "buy",
				Usage: "fill a cart with --item name=qty and buy it",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "customer",
						Usage: "customer id",
						Value: 1,
					},
					&cli.StringSliceFlag{
						Name:     "item",
						Usage:    "name=qty (repeatable)",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					items, err := parseItems(cmd.StringSlice("item"))
					if err != nil {
						return err
					}
					cust, err := customerdom.New(int64(cmd.Int("customer")), "")
					if err != nil {
						return err
					}

					return withContainer(ctx, cmd, func(c *di.Container) error {
						for _, it := range items {
							if _, err := c.ShoppingUC.AddToCart(ctx, cust, it.name, it.qty); err != nil {
								return fmt.Errorf("add %s: %w", it.name, err)
							}
						}

						ok, err := c.ShoppingUC.Checkout(ctx, cust)
						var be *usecase.BuyError
						if errors.As(err, &be) {
							return cli.Exit(be.Error(), exitInsufficient)
						}
						if err != nil {
							return err
						}
						return printJSON(out, map[string]bool{"purchased": ok})
					})
				},
			},
		},
	}
}

// withContainer loads config from the environment, applies root flag overrides
// and runs fn against a fresh container.
func withContainer(ctx context.Context, cmd *cli.Command, fn func(*di.Container) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("[shopctl] close", zap.Error(err))
		}
	}()

	if uri := strings.TrimSpace(cmd.String("catalog")); uri != "" {
		if _, err := c.SeedCatalog(ctx, uri); err != nil {
			return err
		}
	}
	return fn(c)
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if b := strings.TrimSpace(cmd.String("backend")); b != "" {
		cfg.StoreBackend = strings.ToLower(b)
	}
	if p := strings.TrimSpace(cmd.String("sqlite-path")); p != "" {
		cfg.SQLitePath = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type item struct {
	name string
	qty  int
}

func parseItems(raw []string) ([]item, error) {
	out := make([]item, 0, len(raw))
	for _, r := range raw {
		name, q, ok := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("item %q: want name=qty", r)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil || qty < 1 {
			return nil, fmt.Errorf("item %q: qty must be a positive integer", r)
		}
		out = append(out, item{name: name, qty: qty})
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
