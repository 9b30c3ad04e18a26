// Emerald is a UCI chess engine. Run with no arguments for UCI mode, or
// "emerald annotate <input>" to produce training-data annotations.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/annotate"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/engine"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/eval"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/storage"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/uci"
)

var (
	cpuProfile = flag.Bool("profile", false, "write a CPU profile")
	workers    = flag.Int("workers", runtime.NumCPU(), "annotation worker count")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *cpuProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	store, err := storage.Open()
	if err != nil {
		log.Warn().Err(err).Msg("persistent storage unavailable")
		store = nil
	} else {
		defer store.Close()
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "annotate":
			if len(args) != 2 {
				fmt.Fprintf(os.Stderr, "usage: %s annotate <input-file>\n", os.Args[0])
				os.Exit(1)
			}
			if err := annotate.Run(args[1], store, *workers, log); err != nil {
				log.Fatal().Err(err).Msg("annotation failed")
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "unrecognized mode: %s\n", args[0])
			os.Exit(1)
		}
	}

	opts := storage.DefaultOptions()
	if store != nil {
		if loaded, err := store.LoadOptions(); err == nil {
			opts = loaded
		} else {
			log.Warn().Err(err).Msg("load options")
		}
	}

	fmt.Printf("Emerald Chess Engine by UndefinedCpp, version %s\n", uci.Version)

	eng := engine.NewEngine(opts.HashMB, eval.New())
	uci.New(eng, store, os.Stdout, log).Run(os.Stdin)
}
