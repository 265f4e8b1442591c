// Chessline - a terminal chess game against an attack-line search engine
package main

import (
	"flag"
	"log"

	tm "github.com/buger/goterm"

	"github.com/hailam/chessline/internal/storage"
	"github.com/hailam/chessline/internal/ui"
)

var (
	depth = flag.Int("depth", 0, "search depth in plies (0 uses the stored difficulty)")
	color = flag.String("color", "", "color you play: white or black")
	fen   = flag.String("fen", "", "starting position in FEN")
	dbDir = flag.String("db", "", "database directory (default: platform data dir, \"none\" disables)")
	human = flag.Bool("hvh", false, "two human players, no engine moves")
	plain = flag.Bool("plain", false, "plain text output without screen redraws")
)

func main() {
	flag.Parse()

	store := openStorage()
	if store != nil {
		defer store.Close()
	}

	opts := ui.Options{
		FEN:         *fen,
		Depth:       *depth,
		PlayerColor: *color,
		Storage:     store,
		Terminal:    !*plain && tm.Width() > 0,
	}
	if *human {
		mode := ui.ModeHumanVsHuman
		opts.Mode = &mode
	}

	game, err := ui.NewGame(opts)
	if err != nil {
		log.Fatal(err)
	}
	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}

// openStorage opens the preference and statistics store. The game runs
// without it if the database cannot be opened.
func openStorage() *storage.Storage {
	var (
		store *storage.Storage
		err   error
	)
	switch *dbDir {
	case "none":
		return nil
	case "":
		store, err = storage.NewStorage()
	default:
		store, err = storage.Open(*dbDir)
	}
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
		return nil
	}
	return store
}
