package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chessline/internal/engine"
	"github.com/hailam/chessline/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", 0, "default search depth for \"go\" without a depth")
	quiescence = flag.Int("qdepth", -1, "maximum quiescence depth (-1 keeps the default)")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg := engine.DefaultConfig()
	if *depth > 0 {
		cfg.Depth = *depth
	}
	if *quiescence >= 0 {
		cfg.MaxQuiescenceDepth = *quiescence
	}

	protocol := uci.New(engine.NewEngine(cfg))
	protocol.Run()
}
