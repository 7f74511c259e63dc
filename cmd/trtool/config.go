package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/trlevel/internal/config"
)

// cmdConfig prints the effective config or writes it out. "init" with no
// path saves to the user config directory.
func cmdConfig(args []string) error {
	fs, f := newFlagSet("config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(f)
	if err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "", "show":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "encoding config")
		}
		fmt.Print(string(data))
		return nil
	case "init":
		if path := fs.Arg(1); path != "" {
			if err := cfg.SaveTo(path); err != nil {
				return errors.Wrapf(err, "writing %s", path)
			}
			fmt.Println("wrote", path)
			return nil
		}
		if err := cfg.Save(); err != nil {
			return errors.Wrap(err, "writing user config")
		}
		fmt.Println("wrote", filepath.Join(config.ConfigDir(), "config.yaml"))
		return nil
	default:
		return fmt.Errorf("unknown config action %q (want show or init)", fs.Arg(0))
	}
}
