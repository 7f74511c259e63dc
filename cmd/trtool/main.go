// trtool is a CLI utility for inspecting Tomb Raider level files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/trlevel/internal/config"
	"github.com/Faultbox/trlevel/internal/loader"
	"github.com/Faultbox/trlevel/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "rooms":
		err = cmdRooms(args)
	case "items":
		err = cmdItems(args)
	case "flyby":
		err = cmdFlyby(args)
	case "triggers":
		err = cmdTriggers(args)
	case "floordata", "fd":
		err = cmdFloorData(args)
	case "hash":
		err = cmdHash(args)
	case "drm":
		err = cmdDRM(args)
	case "batch":
		err = cmdBatch(args)
	case "watch":
		err = cmdWatch(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`trtool - Tomb Raider level file utility

Usage:
  trtool <command> [options] <file...>

Commands:
  info <level>                   Show format, counts and name
  rooms <level>                  List rooms
  items <level>                  List items and AI objects
  flyby <level>                  List flyby sequences with path lengths
  triggers <level>               List triggers and their commands
  floordata <level> <room> <x> <z>
                                 Decode one sector's floordata
  hash <file...>                 Print content hashes
  drm <file.drm>                 Show LAU container sections and textures
  batch <level...>               Decode many levels concurrently
  watch <level...>               Re-decode levels when they change
  config [show | init [path]]    Print the effective config or save it

Common options:
  -config <path>     Config file (default ./trtool.yaml or user config dir)
  -log-level <lvl>   debug, info, warn, error
  -log-file <path>   Also log to a rotating file
  -remastered        Decode remastered layouts
  -tr1-demo          Treat TR1 files as demo levels
  -platform <p>      Level platform: pc or psx
  -version <game>    Force the game, tr1..tr5 (needed for PSX TR4/TR5)
  -workers <n>       Concurrent decodes for batch
  -cache-size <n>    Decoded level cache size

Examples:
  trtool info LEVEL1.PHD
  trtool info -log-level debug karnak.tr4
  trtool floordata LEVEL2.PHD 5 3 4
  trtool batch -workers 8 data/*.TR2
  trtool info -platform psx -version tr4 ANGKOR1.PSX
  trtool config init ./trtool.yaml`)
}

// env is the state shared by every level command.
type env struct {
	cfg    *config.Config
	loader *loader.Manager
	log    *zap.Logger
}

// newFlagSet returns a flag set carrying the shared config overrides.
func newFlagSet(name string) (*flag.FlagSet, *config.Flags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs, config.AddFlags(fs)
}

// setup loads the config, starts logging and builds the loader.
func setup(f *config.Flags, hashes string) (*env, error) {
	cfg, err := config.Load(f)
	if err != nil {
		return nil, err
	}

	fileCfg := logger.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		return nil, errors.Wrap(err, "initializing logger")
	}

	opts, err := loader.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger.Named("loader")
	if hashes != "" {
		if opts.Names, err = loader.LoadNameLookup(hashes); err != nil {
			return nil, err
		}
	}

	m, err := loader.NewManager(opts)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, loader: m, log: logger.Log}, nil
}
