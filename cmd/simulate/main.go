package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"toes-server/internal/simulator"
	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

type CLI struct {
	Matches int     `default:"1000" help:"Number of matches to simulate"`
	Players int     `default:"4" help:"Players per table"`
	Ante    int     `default:"10" help:"Ante per player per round"`
	Workers int     `default:"4" help:"Matches played in parallel"`
	Seed    uint32  `default:"0" help:"Decision RNG seed (0 for random)"`
	InRate  float64 `default:"0.6" help:"Probability that a player goes in"`
	Hasher  string  `default:"sha256" enum:"sha256,sha3-256,blake2b-256" help:"Commitment hash"`
	JSON    bool    `help:"Print the report as JSON"`
	Verbose bool    `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Description("Simulate toes matches with players who go in at random."))

	if cli.Seed == 0 {
		cli.Seed = uint32(time.Now().UnixNano())
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cli.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	hasher, err := shuffle.HasherByName(cli.Hasher)
	ctx.FatalIfErrorf(err)

	shuffler, err := shuffle.New(hasher)
	ctx.FatalIfErrorf(err)

	sim := simulator.New(toes.NewEngine(logger, shuffler), logger)
	start := time.Now()
	report, err := sim.Run(context.Background(), simulator.Options{
		Matches: cli.Matches,
		Players: cli.Players,
		Ante:    cli.Ante,
		Workers: cli.Workers,
		Seed:    cli.Seed,
		InRate:  cli.InRate,
	})
	ctx.FatalIfErrorf(err)

	logger.WithFields(logrus.Fields{
		"seed":    cli.Seed,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("simulation complete")

	if cli.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		ctx.FatalIfErrorf(enc.Encode(report))
		ctx.Exit(0)
	}

	printReport(report)
	ctx.Exit(0)
}

func printReport(r simulator.Report) {
	fmt.Printf("Matches: %d, players: %d\n", r.Matches, r.Players)
	fmt.Printf("Rounds: %d total, %.2f average, %d longest\n", r.TotalRounds, r.AverageRounds(), r.LongestMatch)
	fmt.Printf("Reshuffles: %d, largest pot: %d\n", r.Reshuffles, r.LargestPot)
	fmt.Println()

	for _, id := range r.Seats() {
		wins := r.Wins[id]
		fmt.Printf("%-4s %6d  %5.1f%%\n", id, wins, 100*float64(wins)/float64(r.Matches))
	}
}
