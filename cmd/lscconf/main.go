// Command lscconf loads the layered LSC configuration the way a connector
// deployment would and dumps the merged namespace, reporting every override
// picked up from the configuration directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/aakarshsingh/lsc/config"
	"github.com/aakarshsingh/lsc/store"
)

func main() {
	var (
		prefix  = flag.String("prefix", "", "restrict the dump to the keys under this dotted prefix, shown stripped")
		verbose = flag.Bool("v", false, "log source resolution and merge steps")
	)
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	st, err := store.New(store.SetLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("can't build configuration store")
	}
	conf := config.NewLayered(st, config.SetLogger(logger))

	ctx := context.Background()
	ns, err := conf.Namespace(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration load failed")
	}

	if records := conf.Conflicts(); len(records) > 0 {
		fmt.Fprintf(os.Stderr, "%d override(s) during merge:\n", len(records))
		for _, r := range records {
			fmt.Fprintf(os.Stderr, "  %s\n", r)
		}
	}

	if len(*prefix) > 0 {
		dumpView(logger, ns.Subset(*prefix))
		return
	}
	dumpAll(logger, ns)
}

// dumpAll prints every merged key with the source that last set it.
func dumpAll(logger zerolog.Logger, ns *config.Namespace) {
	for _, k := range ns.Keys() {
		v, _, err := ns.Lookup(k)
		if err != nil {
			logger.Fatal().Err(err).Msg("corrupted configuration value")
		}
		src, _ := ns.SourceOf(k)
		fmt.Printf("%s=%s # %s\n", k, v, src)
	}
}

// dumpView prints the prefix-stripped keys visible through a view.
func dumpView(logger zerolog.Logger, view *config.PrefixView) {
	for _, k := range view.Keys() {
		v, _, err := view.Lookup(k)
		if err != nil {
			logger.Fatal().Err(err).Msg("corrupted configuration value")
		}
		fmt.Printf("%s=%s\n", k, v)
	}
}
