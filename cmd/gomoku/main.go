package main

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/engine"
	"github.com/chenyukang/gomoku/shell"
)

var (
	GitVersion string
)

//go:embed gomoku.txt
var banner string

var errUsage = errors.New("usage: gomoku [flags] [shell | solve STATE [PLAYER] | batch FILE | shell command...]")

func setupLogging(cfg *config.Config) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := setupLogging(cfg)
	logger.Debug().Msg("Debug logging is on")

	if err := run(cfg, logger); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}
	defer writeMemProfile(cfg)

	args := cfg.Args()
	if len(args) > 0 && (args[0] == "solve" || args[0] == "batch") {
		ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if args[0] == "solve" {
			return runSolve(ctx, cfg, args[1:], os.Stdout)
		}
		return runBatch(ctx, cfg, args[1:], os.Stdout)
	}
	runShell(cfg, args)
	return nil
}

func writeMemProfile(cfg *config.Config) {
	path := cfg.GetString(config.ConfigMemProfile)
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Msg("could not create memory profile")
		return
	}
	defer f.Close()
	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Info().Uint64("heap-alloc", memstats.HeapAlloc).Uint32("num-gc", memstats.NumGC).Msg("memory-stats")
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Error().Err(err).Msg("could not write memory profile")
		return
	}
	log.Info().Msg("wrote memory profile")
}

// boardDims returns the board size given on the command line, or zeros so
// that square boards are inferred from the state.
func boardDims(cfg *config.Config) (int, int) {
	if cfg.FlagChanged(config.ConfigBoardWidth) || cfg.FlagChanged(config.ConfigBoardHeight) {
		return cfg.GetInt(config.ConfigBoardWidth), cfg.GetInt(config.ConfigBoardHeight)
	}
	return 0, 0
}

func runSolve(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	width, height := boardDims(cfg)
	req := engine.Request{State: args[0], Width: width, Height: height}
	if len(args) == 2 {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad player %q: %w", args[1], err)
		}
		req.Player = p
	}
	res, err := engine.New(cfg).Solve(ctx, req)
	if err != nil {
		return err
	}
	out, err := res.Marshal(cfg.GetString(config.ConfigOutputFormat))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func runBatch(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	width, height := boardDims(cfg)
	reqs, err := engine.ReadRequests(r, width, height)
	if err != nil {
		return err
	}
	results, err := engine.New(cfg).SolveBatch(ctx, reqs, cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return err
	}
	format := cfg.GetString(config.ConfigOutputFormat)
	bw := bufio.NewWriter(w)
	for i, res := range results {
		out, err := res.Marshal(format)
		if err != nil {
			return err
		}
		if format == "yaml" && i > 0 {
			bw.WriteString("---\n")
		}
		bw.Write(out)
		if format == "json" {
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// commandLine quotes args back into one line for the shell to split again.
func commandLine(args []string) string {
	return shellquote.Join(args...)
}

func runShell(cfg *config.Config, args []string) {
	fmt.Println(banner)
	fmt.Println(GitVersion)

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	if len(args) > 0 && args[0] == "shell" {
		args = args[1:]
	}
	sc := shell.NewShellController(cfg)
	if len(args) == 0 {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, commandLine(args))
		sig <- syscall.SIGINT
	}
	<-idleConnsClosed
	sc.Cleanup()
}
