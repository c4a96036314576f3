// Command exportctl exercises the object export boundary.
//
//	exportctl demo                 replay the reference client session
//	exportctl layout [-format f]   print the C layout of every aggregate
//	exportctl exports              list the export table
//	exportctl run -wasm file       run a wasm guest against the host module
//	exportctl -i                   interactive export browser
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/internal/config"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to config file")
		logLevel    = flag.String("log-level", "", "Log level (overrides config)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Usage = usage
	flag.Parse()

	if err := run(*configPath, *logLevel, *interactive, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: exportctl [-config file] [-log-level level] <command> [flags]")
	fmt.Fprintln(os.Stderr, "       exportctl -i  (interactive mode)")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  demo      replay the reference client session")
	fmt.Fprintln(os.Stderr, "  layout    print the C layout of every aggregate")
	fmt.Fprintln(os.Stderr, "  exports   list the export table")
	fmt.Fprintln(os.Stderr, "  run       run a wasm guest against the host module")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

func run(configPath, logLevel string, interactive bool, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	boundary.SetLogger(log)

	if interactive {
		return runInteractive(log)
	}

	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "demo":
		b := boundary.New(boundary.WithLogger(log))
		defer b.Close()
		return runDemo(os.Stdout, b)

	case "layout":
		fs := flag.NewFlagSet("layout", flag.ExitOnError)
		format := fs.String("format", cfg.Layout.Format, "Output format (yaml or text)")
		_ = fs.Parse(rest)
		return writeLayout(os.Stdout, *format)

	case "exports":
		return writeExports(os.Stdout)

	case "run":
		fs := flag.NewFlagSet("run", flag.ExitOnError)
		wasmFile := fs.String("wasm", "", "Path to guest wasm module")
		funcName := fs.String("func", "", "Function to call (default from config)")
		_ = fs.Parse(rest)
		if *wasmFile == "" {
			fs.Usage()
			return fmt.Errorf("run: -wasm is required")
		}
		log.Debug("running guest", zap.String("file", *wasmFile))
		return runGuest(context.Background(), cfg, log, *wasmFile, *funcName, os.Stdout)

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
