// Command arenactl manages arenas offline, against the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/okian/arena/internal/adapters/repository"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/pkg/logger"
)

// globalOptions override the koanf configuration for one invocation.
type globalOptions struct {
	Config  string `short:"c" long:"config" env:"ARENA_CONFIG" description:"YAML configuration file"`
	Driver  string `short:"d" long:"driver" description:"store driver (memory, file, sqlite, postgres)"`
	Store   string `short:"s" long:"store" description:"store file for the file and sqlite drivers"`
	Verbose bool   `short:"v" long:"verbose" description:"log service activity to stderr"`
}

// cli carries what every command needs.
type cli struct {
	opts globalOptions
	out  io.Writer
	ctx  context.Context
	svc  *service.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout, ctx: ctx}
	if _, err := c.parser().Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func (c *cli) parser() *flags.Parser {
	p := flags.NewParser(&c.opts, flags.Default)
	p.CommandHandler = c.handle
	for _, cmd := range c.commands() {
		if _, err := p.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			panic(err)
		}
	}
	return p
}

// handle opens the store and service around a command. Commands that change
// state are flushed before the service stops.
func (c *cli) handle(cmd flags.Commander, args []string) error {
	if cmd == nil {
		return nil
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if err := logger.InitWithOptions(logger.FormatText, os.Stderr); err != nil {
		return err
	}
	level := "warn"
	if c.opts.Verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	store, err := repository.Open(c.ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()

	c.svc = service.New(
		service.WithStore(store),
		service.WithQueueSize(cfg.PersistQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithSeedDefaultArena(cfg.SeedDefaultArena),
	)
	if err := c.svc.Start(c.ctx); err != nil {
		return err
	}

	runErr := cmd.Execute(args)
	if runErr == nil {
		if m, ok := cmd.(mutator); ok && m.mutates() {
			runErr = c.svc.Flush(c.ctx)
		}
	}
	if err := c.svc.Stop(context.WithoutCancel(c.ctx)); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (c *cli) config() (*config.Config, error) {
	cfg, err := config.LoadFile(c.ctx, c.opts.Config)
	if err != nil {
		return nil, err
	}
	if c.opts.Driver != "" {
		cfg.StoreDriver = c.opts.Driver
	}
	if c.opts.Store != "" {
		cfg.StorePath = c.opts.Store
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
