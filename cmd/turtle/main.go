package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/executor"
	"github.com/zhuoyikang/finance/feed"
	"github.com/zhuoyikang/finance/logger"
	"github.com/zhuoyikang/finance/metrics"
	"github.com/zhuoyikang/finance/risk"
	"github.com/zhuoyikang/finance/strategy"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "turtle",
		Usage: "replay bars through the turtle position manager",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "replay a CSV of bars against a paper account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "YAML strategy config", EnvVars: []string{"TURTLE_CONFIG"}},
					&cli.StringFlag{Name: "data", Usage: "CSV of timestamp,open,high,low,close[,volume]", Required: true, EnvVars: []string{"TURTLE_DATA"}},
					&cli.StringFlag{Name: "strategy", Value: "channel", Usage: "signal generator: channel, trend or hull"},
					&cli.Float64Flag{Name: "cash", Value: 10000, Usage: "starting quote balance"},
					&cli.Float64Flag{Name: "commission", Value: 0.002, Usage: "fee rate charged on every fill"},
					&cli.IntFlag{Name: "hull-bars", Value: 30, Usage: "history fed to the hull generator"},
					&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"TURTLE_LOG_LEVEL"}},
				},
				Action: run,
			},
			{
				Name:  "band",
				Usage: "print the take-profit and stop levels around a price",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "price", Required: true},
					&cli.Float64Flag{Name: "rate", Value: 0.04},
				},
				Action: band,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	log, err := logger.NewZapLogger(c.String("log-level"))
	if err != nil {
		return errors.Wrap(err, "logger")
	}

	bars, err := feed.LoadCSV(c.String("data"))
	if err != nil {
		return err
	}
	replay, err := feed.NewReplay(cfg.Frequency)
	if err != nil {
		return errors.Wrap(err, "replay")
	}
	replay.Add(cfg.Symbol, bars)

	paper := executor.NewPaperExecutor(c.Float64("cash"), c.Float64("commission"), replay)

	var gen strategy.SignalGenerator
	switch c.String("strategy") {
	case "channel":
	case "trend":
		gen = strategy.NewTrendFollow(cfg, strategy.DefaultExitDepths)
	case "hull":
		gen = strategy.NewHullCrossover(cfg, c.Int("hull-bars"), log)
	default:
		return errors.Errorf("unknown strategy %q", c.String("strategy"))
	}
	var opts []strategy.Option
	if gen != nil {
		opts = append(opts, strategy.WithSignalGenerator(gen))
	}

	tu, err := strategy.NewTurtle(cfg, replay, paper, paper, log, opts...)
	if err != nil {
		return err
	}
	log.Info("replay_start",
		logger.String("symbol", cfg.Symbol),
		logger.String("strategy", tu.Name()),
		logger.Int("bars", len(bars)),
	)
	for replay.Next() {
		tu.ProcessBar()
		metrics.EquityGauge.Set(paper.Snapshot(cfg.Symbol).NetValue)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "side", "qty", "price", "fee"})
	for _, f := range paper.Fills() {
		table.Append([]string{
			f.ID[:8],
			string(f.Side),
			strconv.FormatFloat(f.Qty, 'f', 4, 64),
			strconv.FormatFloat(f.Price, 'f', 2, 64),
			strconv.FormatFloat(f.Fee, 'f', 4, 64),
		})
	}
	table.Render()

	snap := paper.Snapshot(cfg.Symbol)
	fmt.Printf("cash %.2f  asset %.4f  net %.2f  position %s\n",
		snap.Cash, snap.Asset, snap.NetValue, tu.Position().Phase)
	return nil
}

func band(c *cli.Context) error {
	price := c.Float64("price")
	if price <= 0 {
		return errors.New("price must be positive")
	}
	up, down := risk.PriceBand(price, c.Float64("rate"))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"price", "up", "down"})
	table.Append([]string{
		strconv.FormatFloat(price, 'f', 4, 64),
		strconv.FormatFloat(up, 'f', 4, 64),
		strconv.FormatFloat(down, 'f', 4, 64),
	})
	table.Render()
	return nil
}
