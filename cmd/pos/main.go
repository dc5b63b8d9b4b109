// Command pos is the terminal CLI for the café point of sale. It talks to
// the server through pkg/posclient and keeps session state under the
// configured state dir.
//
// Usage:
//
//	pos -config config.yaml login <username> <password>
//	pos -config config.yaml orders
//	pos -config config.yaml order <id>
//	pos -config config.yaml status <id> <status>
//	pos -config config.yaml watch
//	pos -config config.yaml storename
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/baancha/pos/pkg/format"
	"github.com/baancha/pos/pkg/posclient"
	"github.com/baancha/pos/pkg/theme"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to terminal config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := posclient.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	client, err := posclient.New(cfg)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, client, args); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func run(ctx context.Context, cfg *posclient.Config, client *posclient.Client, args []string) error {
	switch cmd := args[0]; cmd {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: pos login <username> <password>")
		}
		return runLogin(ctx, client, args[1], args[2])
	case "orders":
		return runOrders(ctx, client)
	case "order":
		if len(args) != 2 {
			return fmt.Errorf("usage: pos order <id>")
		}
		return runOrder(ctx, client, args[1])
	case "status":
		if len(args) != 3 {
			return fmt.Errorf("usage: pos status <id> <status>")
		}
		return runStatus(ctx, client, args[1], args[2])
	case "watch":
		return runWatch(ctx, cfg, client)
	case "storename":
		return runStoreName(ctx, client)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runLogin(ctx context.Context, client *posclient.Client, username, password string) error {
	user, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.FullName, user.Role)
	return nil
}

func runOrders(ctx context.Context, client *posclient.Client) error {
	orders, err := client.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders.")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("%-10s %-10s %10s  %s\n", o.OrderNumber, o.Status, bahtString(o.TotalAmount), format.DateTime(o.CreatedAt))
	}
	return nil
}

func runOrder(ctx context.Context, client *posclient.Client, id string) error {
	order, err := client.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s  %s\n", order.OrderNumber, order.Status, format.DateTime(order.CreatedAt))
	if order.Notes != nil && *order.Notes != "" {
		fmt.Printf("Notes: %s\n", *order.Notes)
	}
	for _, item := range order.Items {
		fmt.Printf("  %dx %-24s %10s\n", item.Quantity, item.ProductName, bahtString(item.LineTotal))
	}
	fmt.Printf("Total: %s\n", bahtString(order.TotalAmount))
	return nil
}

func runStatus(ctx context.Context, client *posclient.Client, id, status string) error {
	order, err := client.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", order.OrderNumber, order.Status)
	return nil
}

// runWatch tails theme broadcasts and prints each applied change. Kitchen
// and counter displays run this alongside the order views.
func runWatch(ctx context.Context, cfg *posclient.Config, client *posclient.Client) error {
	state := theme.NewState()
	watcher := posclient.NewThemeWatcher(cfg.ServerURL, client.Token(), state)

	log.Printf("watching theme updates for %s", cfg.TerminalName)
	err := watcher.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runStoreName(ctx context.Context, client *posclient.Client) error {
	name, err := client.StoreName(ctx)
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

// bahtString renders a server decimal string as display baht, falling back
// to the raw value if it doesn't parse.
func bahtString(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return format.BahtDecimal(d)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pos [-config file] <login|orders|order|status|watch|storename> [args]")
}
