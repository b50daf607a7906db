package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/signalline/futures-trader/internal/api"
	"github.com/signalline/futures-trader/internal/config"
	"github.com/signalline/futures-trader/internal/monitor"
	"github.com/signalline/futures-trader/internal/order"
	"github.com/signalline/futures-trader/internal/trader"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "trader",
		Usage:   "Binance USDT-M futures testnet order entry",
		Version: fmt.Sprintf("%s (build: %s, commit: %s)", Version, BuildTime, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "trade",
				Usage:  "start the interactive order-entry session",
				Action: cmdTrade,
			},
			{
				Name:  "order",
				Usage: "place a single order from flags",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "trading pair (defaults to trading.default_symbol)",
					},
					&cli.StringFlag{
						Name:    "side",
						Aliases: []string{"d"},
						Value:   "BUY",
						Usage:   "order side (BUY/SELL)",
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Value:   "market",
						Usage:   "order type (market/limit/stop)",
					},
					&cli.StringFlag{
						Name:    "quantity",
						Aliases: []string{"q"},
						Usage:   "base asset quantity (required)",
					},
					&cli.StringFlag{
						Name:  "price",
						Usage: "limit price (required for limit/stop)",
					},
					&cli.StringFlag{
						Name:  "stop-price",
						Usage: "trigger price (required for stop)",
					},
					&cli.StringFlag{
						Name:  "tif",
						Usage: "time in force (GTC/IOC/FOK, default GTC)",
					},
				},
				Action: cmdOrder,
			},
			{
				Name:   "ping",
				Usage:  "check exchange connectivity",
				Action: cmdPing,
			},
			{
				Name:   "balance",
				Usage:  "show futures account balances",
				Action: cmdBalance,
			},
			{
				Name:  "price",
				Usage: "show the last price for a symbol",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "trading pair (defaults to trading.default_symbol)",
					},
				},
				Action: cmdPrice,
			},
		},
		Before: func(c *cli.Context) error {
			// .env is optional; real env vars win either way
			_ = godotenv.Load()

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if c.String("log-level") != "" {
				cfg.Log.Level = c.String("log-level")
			}

			c.App.Metadata["config"] = cfg
			c.App.Metadata["logger"] = monitor.NewLogger(cfg.Log.Level, cfg.Log.Output)

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func appConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func appLogger(c *cli.Context) *monitor.Logger {
	return c.App.Metadata["logger"].(*monitor.Logger)
}

// getClient collects credentials if needed and connects to the exchange.
// A failed connectivity probe surfaces as an error, which ends the process
// with exit code 1.
func getClient(c *cli.Context) (*api.Client, error) {
	cfg := appConfig(c)
	log := appLogger(c)

	if err := ensureCredentials(cfg, log); err != nil {
		return nil, err
	}
	return api.Connect(cfg, log)
}

// ensureCredentials fills in API credentials from interactive prompts when
// the environment and config file provided none. The secret is read without
// echo when stdin is a terminal.
func ensureCredentials(cfg *config.Config, log *monitor.Logger) error {
	reader := bufio.NewReader(os.Stdin)

	if cfg.Binance.APIKey == "" {
		fmt.Print("Enter your API key: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.Binance.APIKey = strings.TrimSpace(line)
	} else {
		log.Info("Using API key from environment/config.")
	}

	if cfg.Binance.APISecret == "" {
		fmt.Print("Enter your API secret: ")
		if term.IsTerminal(int(os.Stdin.Fd())) {
			secret, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read API secret: %w", err)
			}
			cfg.Binance.APISecret = strings.TrimSpace(string(secret))
		} else {
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read API secret: %w", err)
			}
			cfg.Binance.APISecret = strings.TrimSpace(line)
		}
	} else {
		log.Info("Using API secret from environment/config.")
	}

	if cfg.Binance.APIKey == "" || cfg.Binance.APISecret == "" {
		return fmt.Errorf("API key and secret cannot be empty")
	}
	return nil
}

func requiredDecimal(c *cli.Context, flag string) (decimal.Decimal, error) {
	v := c.String(flag)
	if v == "" {
		return decimal.Decimal{}, fmt.Errorf("%s is required", flag)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", flag, err)
	}
	return d, nil
}

func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(jsonData))
}

func cmdTrade(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return err
	}

	session := trader.NewSession(client, appLogger(c), os.Stdin, os.Stdout)
	return session.Run()
}

func cmdOrder(c *cli.Context) error {
	cfg := appConfig(c)
	log := appLogger(c)

	symbol := c.String("symbol")
	if symbol == "" {
		symbol = cfg.Trading.DefaultSymbol
	}

	side, err := order.ParseSide(c.String("side"))
	if err != nil {
		return err
	}

	if c.String("quantity") == "" {
		return fmt.Errorf("quantity is required")
	}
	quantity, err := decimal.NewFromString(c.String("quantity"))
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}

	tifInput := c.String("tif")
	if tifInput == "" {
		tifInput = cfg.Trading.DefaultTimeInForce
	}
	tif, ok := order.ParseTimeInForce(tifInput)
	if !ok {
		log.Warn("Invalid TimeInForce. Using GTC.")
	}

	var req *order.Request
	switch c.String("type") {
	case "market":
		req, err = order.Market(symbol, side, quantity)
	case "limit":
		price, perr := requiredDecimal(c, "price")
		if perr != nil {
			return perr
		}
		req, err = order.Limit(symbol, side, quantity, price, tif)
	case "stop":
		price, perr := requiredDecimal(c, "price")
		if perr != nil {
			return perr
		}
		stopPrice, perr := requiredDecimal(c, "stop-price")
		if perr != nil {
			return perr
		}
		req, err = order.Stop(symbol, side, quantity, price, stopPrice, tif)
	default:
		return fmt.Errorf("invalid order type: %s (must be market, limit or stop)", c.String("type"))
	}
	if err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return err
	}

	ack, placeErr := client.PlaceOrder(req)
	if placeErr != nil {
		diagnosis := trader.Classify(placeErr)
		log.WithField("category", diagnosis.Category).Errorf("Order placement failed: %v", placeErr)
		if diagnosis.Hint != "" {
			log.Errorf("Action required: %s", diagnosis.Hint)
		}
		return fmt.Errorf("order placement failed")
	}

	fmt.Println("\nOrder placed:")
	printJSON(ack)
	return nil
}

func cmdPing(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.Ping(); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Println("Exchange reachable.")
	return nil
}

func cmdBalance(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return err
	}

	balances, err := client.Balances()
	if err != nil {
		return fmt.Errorf("failed to get balances: %w", err)
	}

	fmt.Println("\nAccount balances:")
	printJSON(balances)
	return nil
}

func cmdPrice(c *cli.Context) error {
	cfg := appConfig(c)
	client, err := getClient(c)
	if err != nil {
		return err
	}

	symbol := c.String("symbol")
	if symbol == "" {
		symbol = cfg.Trading.DefaultSymbol
	}

	ticker, err := client.TickerPrice(symbol)
	if err != nil {
		return fmt.Errorf("failed to get ticker: %w", err)
	}

	printJSON(ticker)
	return nil
}
