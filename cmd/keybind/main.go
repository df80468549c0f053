// Package main is the entry point for the keybind command, which inspects
// and edits player binding profiles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dshills/keybind/internal/config"
	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/logging"
	"github.com/dshills/keybind/internal/manager"
	"github.com/dshills/keybind/internal/notify"
	"github.com/dshills/keybind/internal/preset"
	"github.com/dshills/keybind/internal/store"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks errors caused by bad command-line arguments.
var errUsage = errors.New("usage")

type options struct {
	configPath string
	presetDir  string
	storePath  string
	playerID   string
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keybind", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var showVersion bool
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.presetDir, "presets", "", "Preset directory (overrides preset_dir)")
	fs.StringVar(&opts.storePath, "store", "", "Profile store: a directory, or a .db file for SQLite")
	fs.StringVar(&opts.playerID, "player", "local", "Player ID")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "keybind - player input binding profiles\n\n")
		fmt.Fprintf(stderr, "Usage: keybind [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  show                                   Show effective bindings\n")
		fmt.Fprintf(stderr, "  bind-action NAME CHORD [-slot N] [-any-group]\n")
		fmt.Fprintf(stderr, "  bind-axis NAME KEY SCALE [-slot N] [-any-group]\n")
		fmt.Fprintf(stderr, "  unbind-action NAME [-slot N]\n")
		fmt.Fprintf(stderr, "  key-group TAG                          Set the active key group\n")
		fmt.Fprintf(stderr, "  preset TAG                             Switch base preset\n")
		fmt.Fprintf(stderr, "  presets                                List presets\n")
		fmt.Fprintf(stderr, "  players                                List stored players\n")
		fmt.Fprintf(stderr, "  dump                                   Dump overrides and effective bindings\n")
		fmt.Fprintf(stderr, "  watch                                  Reload presets on change until interrupted\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "keybind %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	if err := execute(opts, fs.Arg(0), fs.Args()[1:], stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func execute(opts options, cmd string, args []string, stdout, stderr io.Writer) error {
	log := logging.New(logging.Config{Level: logging.LevelWarn, Output: stderr, Prefix: "keybind"})

	cfg, err := config.Load(opts.configPath, config.WithLogger(log))
	if err != nil {
		return err
	}

	levelName := cfg.LogLevel
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	level, ok := logging.ParseLevel(levelName)
	if !ok {
		return fmt.Errorf("%w: invalid log level %q (must be debug, info, warn, or error)", errUsage, levelName)
	}
	log.SetLevel(level)
	cfg.SetLogger(log)

	presetDir := cfg.PresetDir
	if opts.presetDir != "" {
		presetDir = opts.presetDir
	}
	catalog := preset.NewCatalog(preset.WithLogger(log))
	if presetDir != "" {
		if _, err := catalog.LoadDir(cfg, presetDir); err != nil {
			return err
		}
	}

	if cmd == "presets" {
		return listPresets(stdout, cfg, catalog)
	}

	st, err := store.Open(opts.storePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if cmd == "players" {
		ids, err := st.List(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(stdout, id)
		}
		return nil
	}

	mgr := manager.New(cfg, catalog, manager.WithStore(st), manager.WithLogger(log))
	defer mgr.Close()

	id, err := mgr.Register(ctx, opts.playerID)
	if err != nil {
		return err
	}

	switch cmd {
	case "show":
		return show(stdout, mgr, id)

	case "dump":
		return mgr.Dump(stdout, id)

	case "bind-action", "unbind-action":
		sub := flag.NewFlagSet(cmd, flag.ContinueOnError)
		sub.SetOutput(stderr)
		slot := sub.Int("slot", 0, "Slot index")
		anyGroup := sub.Bool("any-group", false, "Replace the action in every key group")
		pos, err := parseInterspersed(sub, args)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}

		var b binding.ActionBinding
		if cmd == "unbind-action" {
			if len(pos) != 1 {
				return fmt.Errorf("%w: unbind-action NAME [-slot N]", errUsage)
			}
			b = binding.NewActionBinding(pos[0], key.Chord{})
		} else {
			if len(pos) != 2 {
				return fmt.Errorf("%w: bind-action NAME CHORD [-slot N] [-any-group]", errUsage)
			}
			chord, err := key.ParseChord(pos[1])
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			b = binding.NewActionBinding(pos[0], chord)
		}
		if err := mgr.RebindAction(ctx, id, b, *slot, *anyGroup); err != nil {
			return err
		}
		return show(stdout, mgr, id)

	case "bind-axis":
		sub := flag.NewFlagSet(cmd, flag.ContinueOnError)
		sub.SetOutput(stderr)
		slot := sub.Int("slot", 0, "Slot index")
		anyGroup := sub.Bool("any-group", false, "Replace the axis in every key group")
		pos, err := parseInterspersed(sub, args)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		if len(pos) != 3 {
			return fmt.Errorf("%w: bind-axis NAME KEY SCALE [-slot N] [-any-group]", errUsage)
		}
		scale, err := strconv.ParseFloat(pos[2], 32)
		if err != nil {
			return fmt.Errorf("%w: invalid scale %q", errUsage, pos[2])
		}
		b := binding.NewAxisBinding(pos[0], key.FromName(pos[1]), float32(scale))
		if err := mgr.RebindAxis(ctx, id, b, *slot, *anyGroup); err != nil {
			return err
		}
		return show(stdout, mgr, id)

	case "key-group":
		if len(args) != 1 {
			return fmt.Errorf("%w: key-group TAG", errUsage)
		}
		if err := mgr.SetKeyGroup(ctx, id, key.Group(args[0])); err != nil {
			return err
		}
		return show(stdout, mgr, id)

	case "preset":
		if len(args) != 1 {
			return fmt.Errorf("%w: preset TAG", errUsage)
		}
		if err := mgr.SetPreset(ctx, id, args[0]); err != nil {
			return err
		}
		return show(stdout, mgr, id)

	case "watch":
		if presetDir == "" {
			return fmt.Errorf("%w: watch needs a preset directory", errUsage)
		}
		return watch(stdout, mgr, id, presetDir, log)
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// show prints the effective bindings, one per line, by slot.
func show(w io.Writer, mgr *manager.Manager, id string) error {
	s, err := mgr.State(id)
	if err != nil {
		return err
	}
	effective, err := mgr.Effective(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "player %s, preset %s, key group %s\n", s.ID, s.PresetTag, s.KeyGroup)
	for i, slot := range effective.Slots {
		for _, a := range slot.Actions {
			if !a.Chord.IsNone() {
				fmt.Fprintf(w, "%d\taction\t%s\n", i, a.ActionBinding)
			}
		}
		for _, a := range slot.Axes {
			if !a.Key.IsNone() {
				fmt.Fprintf(w, "%d\taxis\t%s\n", i, a.AxisBinding)
			}
		}
	}
	return nil
}

func listPresets(w io.Writer, cfg *config.Config, catalog *preset.Catalog) error {
	for _, p := range catalog.Presets() {
		marker := " "
		if p.Tag == cfg.DefaultPreset {
			marker = "*"
		}
		title := p.Title
		if title == "" {
			title = p.Tag
		}
		fmt.Fprintf(w, "%s %s\t%s\t%d bindings\n", marker, p.Tag, title, p.Layout.Total())
	}
	return nil
}

// watch reloads presets as their files change and prints each change for
// the player until SIGINT or SIGTERM.
func watch(w io.Writer, mgr *manager.Manager, id, dir string, log *logging.Logger) error {
	sub := mgr.Subscribe(id, func(c notify.Change) {
		fmt.Fprintf(w, "%s: %s preset %s\n", c.Type, c.Player, c.Preset)
	})
	defer sub.Unsubscribe()

	watcher, err := preset.NewWatcher(mgr.Catalog(), mgr.Config(), dir,
		preset.WithReloadHandler(mgr.ReloadHandler()),
		preset.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	defer watcher.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	log.Info("watching %s", dir)
	<-signals
	return nil
}

// parseInterspersed parses fs flags appearing anywhere in args and returns
// the remaining positional arguments. Numeric arguments such as "-1" are
// positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for len(args) > 0 {
		if _, err := strconv.ParseFloat(args[0], 64); err == nil {
			positional = append(positional, args[0])
			args = args[1:]
			continue
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) > 0 {
			positional = append(positional, args[0])
			args = args[1:]
		}
	}
	return positional, nil
}
