package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"goodsync/internal/lookup"
	"goodsync/internal/storage"
)

const storeURL = "https://raw.githubusercontent.com/EnkaNetwork/API-docs/master/store/"

// loc.json carries every language, so it gets more room than a profile.
var maxStoreSize int64 = 4 * storage.MaxDecodedSize

type options struct {
	loc        string
	characters string
	lang       string
	out        string
}

func parseOptions(args []string) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("tablegen", pflag.ContinueOnError)
	fs.StringVar(&o.loc, "loc", storeURL+"loc.json", "path or URL of the Enka loc.json store")
	fs.StringVar(&o.characters, "characters", storeURL+"characters.json", "path or URL of the Enka characters.json store")
	fs.StringVar(&o.lang, "lang", "en", "language of the display names")
	fs.StringVarP(&o.out, "out", "o", "tables.json.zst", "bundle to write, compressed when it ends in .zst")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

// readSource reads a local file, or downloads it when src is an http(s) URL.
func readSource(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", src, resp.StatusCode)
	}
	return storage.ReadLimited(resp.Body, maxStoreSize)
}

func generate(ctx context.Context, o *options) (*lookup.Bundle, error) {
	locData, err := readSource(ctx, o.loc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.loc, err)
	}
	var loc map[string]map[string]string
	if err := json.Unmarshal(locData, &loc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", o.loc, err)
	}

	charData, err := readSource(ctx, o.characters)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.characters, err)
	}
	var characters map[string]lookup.UpstreamCharacter
	if err := json.Unmarshal(charData, &characters); err != nil {
		return nil, fmt.Errorf("parse %s: %w", o.characters, err)
	}

	return lookup.Build(loc, characters, o.lang)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	o, err := parseOptions(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bundle, err := generate(ctx, o)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build lookup tables")
	}

	compressor, err := storage.NewZstdCompressor()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create compressor")
	}
	defer compressor.Close()

	if err := lookup.WriteBundle(o.out, bundle, compressor); err != nil {
		log.Fatal().Err(err).Str("out", o.out).Msg("Failed to write lookup tables")
	}
	log.Info().
		Str("out", o.out).
		Int("names", len(bundle.Names)).
		Int("characters", len(bundle.Characters)).
		Msg("Lookup tables written")
}
