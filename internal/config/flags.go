package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	Config     string
	LogLevel   string
	LogFile    string
	Remastered bool
	TR1Demo    bool
	Platform   string
	Version    string
	Workers    int
	CacheSize  int
}

// AddFlags registers the shared override flags on fs.
func AddFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&f.Remastered, "remastered", false, "Decode remastered level layouts")
	fs.BoolVar(&f.TR1Demo, "tr1-demo", false, "Treat TR1 files as demo levels")
	fs.StringVar(&f.Platform, "platform", "", "Level platform (pc, psx)")
	fs.StringVar(&f.Version, "version", "", "Force the game (tr1..tr5)")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent decode workers")
	fs.IntVar(&f.CacheSize, "cache-size", 0, "Decoded level cache size (0 keeps config value)")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Logging.File = f.LogFile
	}
	if f.Remastered {
		cfg.Decode.Remastered = true
	}
	if f.TR1Demo {
		cfg.Decode.TR1Demo = true
	}
	if f.Platform != "" {
		cfg.Decode.Platform = f.Platform
	}
	if f.Version != "" {
		cfg.Decode.Version = f.Version
	}
	if f.Workers > 0 {
		cfg.Batch.Workers = f.Workers
	}
	if f.CacheSize > 0 {
		cfg.Cache.Size = f.CacheSize
	}
}
