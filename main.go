package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"goodsync/internal/di"
	"goodsync/internal/structures"
)

func parseFlags(args []string) (*structures.CliFlags, error) {
	flags := &structures.CliFlags{}

	fs := pflag.NewFlagSet(structures.AppName, pflag.ContinueOnError)
	fs.StringVarP(&flags.ConfigPath, "config", "c", "", "path to the YAML config file")
	fs.BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug logging")
	fs.BoolVar(&flags.Once, "once", false, "run a single sync cycle and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [uid]\n", structures.AppName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		flags.UID = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one uid, got %d arguments", fs.NArg())
	}
	return flags, nil
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	app, err := di.InitApp(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	if err := app.Run(); err != nil {
		app.Fatalf("Couldn't complete the sync cycle. Debugging info follows:\n%v", err)
	}
	app.Close()
}
