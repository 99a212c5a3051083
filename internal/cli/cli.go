// Package cli implements storefront-cli, a terminal shopper for the
// storefront API. The cart session id persists in a local file between runs.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

const (
	exitOK    = 0
	exitErr   = 1
	exitUsage = 2
)

const usage = `usage: storefront-cli [-addr URL] [-session FILE] <command> [args]

commands:
  categories                       list categories
  products [-category ID] [-search TEXT] [-sort KEY]
  featured [-limit N]
  show <slug>                      product detail with customization options
  cart                             show the current cart
  add [-qty N] [-opt type=value]... <productId>
  qty <itemId> <quantity>
  rm <itemId>
  clear                            empty the cart
  subscribe <email>
  testimonials [-limit N]
`

var errUsage = errors.New("usage")

type command func(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error

var commands = map[string]command{
	"categories":   runCategories,
	"products":     runProducts,
	"featured":     runFeatured,
	"show":         runShow,
	"cart":         runCart,
	"add":          runAdd,
	"qty":          runQty,
	"rm":           runRemove,
	"clear":        runClear,
	"subscribe":    runSubscribe,
	"testimonials": runTestimonials,
}

// DefaultSessionFile is the session file under the user's config directory.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront", "session.json")
}

func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := flag.NewFlagSet("storefront-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", envOr("STOREFRONT_ADDR", "http://localhost:8080"), "storefront API base URL")
	sessionFile := fs.String("session", DefaultSessionFile(), "file holding the cart session id")

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprint(outw, usage)
			return exitOK
		}
		_, _ = fmt.Fprintf(stderr, "%v\n%s", err, usage)
		return exitUsage
	}
	if fs.NArg() == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return exitUsage
	}

	name, args := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n%s", name, usage)
		return exitUsage
	}

	base, err := clients.NewClient("storefront", *addr, clients.NewTracedHTTPClient(nil))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}
	sc := clients.NewStorefrontClient(base, session.NewFileStorage(*sessionFile))

	if err := cmd(ctx, sc, args, outw); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(stderr, "%v\n%s", err, usage)
			return exitUsage
		}
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitErr
	}
	return exitOK
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usageErr("%s: %v", fs.Name(), err)
	}
	return nil
}

func parseID(name, v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErr("%s must be a positive integer, got %q", name, v)
	}
	return id, nil
}

// selectionFlag collects repeated -opt type=value pairs.
type selectionFlag pricing.Selections

func (s selectionFlag) String() string { return pricing.Describe(pricing.Selections(s)) }

func (s selectionFlag) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("want type=value, got %q", v)
	}
	s[catalog.OptionType(strings.TrimSpace(k))] = val
	return nil
}

func runCategories(ctx context.Context, sc *clients.StorefrontClient, _ []string, out io.Writer) error {
	cats, err := sc.Categories(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME")
	for _, c := range cats {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Slug, c.Name)
	}
	return tw.Flush()
}

func runProducts(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.Int64("category", 0, "category id")
	search := fs.String("search", "", "search text")
	sortBy := fs.String("sort", "", "price_asc, price_desc, rating, newest or popular")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	q := clients.ProductQuery{Search: *search, SortBy: *sortBy}
	if *category > 0 {
		q.CategoryID = category
	}
	ps, err := sc.Products(ctx, q)
	if err != nil {
		return err
	}
	return writeProducts(out, ps)
}

func runFeatured(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("featured", flag.ContinueOnError)
	limit := fs.Int("limit", catalog.DefaultFeaturedLimit, "number of products")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ps, err := sc.Featured(ctx, *limit)
	if err != nil {
		return err
	}
	return writeProducts(out, ps)
}

func writeProducts(out io.Writer, ps []dto.Product) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tPRICE\tRATING\tCUSTOM")
	for _, p := range ps {
		custom := ""
		if p.IsCustomizable {
			custom = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t$%s\t%s\t%s\n", p.ID, p.Slug, p.Price, p.Rating, custom)
	}
	return tw.Flush()
}

func runShow(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usageErr("show takes exactly one slug")
	}
	p, err := sc.Product(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (#%d)  $%s\n%s\n", p.Name, p.ID, p.Price, p.Description)
	for _, o := range p.CustomizationOptions {
		line := fmt.Sprintf("  %s  %s", o.Type, o.Name)
		if len(o.Values) > 0 {
			line += ": " + strings.Join(o.Values, " | ")
		}
		if o.PriceModifier != "0.00" {
			line += "  +$" + o.PriceModifier
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runCart(ctx context.Context, sc *clients.StorefrontClient, _ []string, out io.Writer) error {
	c, err := sc.Cart(ctx)
	if err != nil {
		return err
	}
	if len(c.Items) == 0 {
		_, err := fmt.Fprintln(out, "cart is empty")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tQTY\tUNIT\tTOTAL\tCUSTOMIZATION")
	for _, l := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t$%s\t$%s\t%s\n",
			l.ID, l.Product.Name, l.Quantity, l.UnitPrice, l.LineTotal, describe(l.Customization))
	}
	fmt.Fprintf(tw, "\t%d items\t\t\t$%s\t\n", c.ItemCount, c.Subtotal)
	return tw.Flush()
}

func describe(customization *string) string {
	if customization == nil {
		return ""
	}
	sel, err := pricing.ParseSelections(*customization)
	if err != nil {
		return *customization
	}
	return pricing.Describe(sel)
}

func runAdd(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	qty := fs.Int("qty", 1, "quantity")
	sel := selectionFlag{}
	fs.Var(sel, "opt", "customization as type=value, repeatable")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErr("add takes exactly one product id")
	}
	id, err := parseID("product id", fs.Arg(0))
	if err != nil {
		return err
	}

	item, err := sc.AddToCart(ctx, id, *qty, pricing.Selections(sel))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "added item %d (product %d x%d)\n", item.ID, item.ProductID, item.Quantity)
	return err
}

func runQty(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	if len(args) != 2 {
		return usageErr("qty takes an item id and a quantity")
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return usageErr("quantity must be an integer, got %q", args[1])
	}

	item, err := sc.UpdateQuantity(ctx, id, n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "item %d quantity %d\n", item.ID, item.Quantity)
	return err
}

func runRemove(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usageErr("rm takes exactly one item id")
	}
	id, err := parseID("item id", args[0])
	if err != nil {
		return err
	}
	if err := sc.RemoveItem(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "removed item %d\n", id)
	return err
}

func runClear(ctx context.Context, sc *clients.StorefrontClient, _ []string, out io.Writer) error {
	if err := sc.ClearCart(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "cart cleared")
	return err
}

func runSubscribe(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usageErr("subscribe takes exactly one email")
	}
	resp, err := sc.Subscribe(ctx, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s (%s)\n", resp.Message, resp.Subscription.Email)
	return err
}

func runTestimonials(ctx context.Context, sc *clients.StorefrontClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("testimonials", flag.ContinueOnError)
	limit := fs.Int("limit", testimonial.DefaultLimit, "number of testimonials, 0 for all")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ts, err := sc.Testimonials(ctx, *limit)
	if err != nil {
		return err
	}
	for _, t := range ts {
		fmt.Fprintf(out, "%s %s\n  %s\n", strings.Repeat("*", t.Rating), t.Name, t.Content)
	}
	return nil
}
