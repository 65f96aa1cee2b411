// Command oriondb-query is an interactive CQL REPL over an existing
// OrionDB archive/sidecar pair, grounded on the readline-driven client
// loop pattern used for interactive debugging tools in the example
// pack.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	oriondb "github.com/GhassanAlhamoud/oriondb-chess-engine"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/logx"
)

func main() {
	var (
		archivePath = flag.String("archive", "./data/games.oriondb", "Path to the archive file")
		sidecarPath = flag.String("sidecar", "./data/games.oriondb.idx", "Path to the index sidecar")
	)
	flag.Parse()

	logger := logx.NewLogger()

	db, err := oriondb.Open(*archivePath, *sidecarPath, config.DefaultFlags(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("close database")
		}
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "oriondb> ",
		HistoryFile:     ".oriondb_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	stats := db.Stats()
	fmt.Printf("OrionDB query console — %d games indexed\n", stats.GameCount)
	fmt.Println("Type a CQL expression, 'stats', or 'exit'.")

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return
		case line == "stats":
			printStats(db)
			continue
		}

		runQuery(db, line)
	}
}

func runQuery(db *oriondb.Database, line string) {
	q, err := db.CQL(line)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	games, err := q.Execute()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("%d game(s)\n", len(games))
	for i, g := range games {
		if i >= 20 {
			fmt.Printf("... and %d more\n", len(games)-20)
			break
		}
		fmt.Printf("  [%d] %s vs %s, %s, %s %s\n", g.ID, g.White(), g.Black(), g.Result(), g.Event(), g.Date())
	}
}

func printStats(db *oriondb.Database) {
	s := db.Stats()
	fmt.Printf("games:   %d\n", s.GameCount)
	fmt.Printf("players: %d\n", s.PlayerCount)
	fmt.Printf("events:  %d\n", s.EventCount)
	fmt.Printf("ECOs:    %d\n", s.ECOCount)
	fmt.Printf("elo:     %d - %d\n", s.MinElo, s.MaxElo)
	fmt.Printf("date:    %s - %s\n", s.MinDate, s.MaxDate)
}
