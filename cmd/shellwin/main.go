package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/shellwin/internal/app"
	"github.com/1broseidon/shellwin/internal/config"
	"github.com/1broseidon/shellwin/internal/ipc"
	"github.com/1broseidon/shellwin/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runShell(os.Args[2:]))
	case "drag":
		os.Exit(runDrag(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "clipboard":
		os.Exit(runClipboard(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: shellwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the shell window (foreground)")
	fmt.Fprintln(w, "  status              Show window status")
	fmt.Fprintln(w, "  drag                Start a window drag (needs a held pointer button)")
	fmt.Fprintln(w, "  open <url>          Open a URL with the desktop opener")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  clipboard read      Print the clipboard text")
	fmt.Fprintln(w, "  clipboard write     Replace the clipboard with stdin or an argument")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config init         Write the default configuration file")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'shellwin <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func runShell(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/shellwin/config.yaml)")
	display := fs.String("display", "", "X display to connect to (default: $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shellwin run [--config PATH] [--display NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the shell window, place it bottom-center and serve commands until it is closed.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Logging.NewLogger(os.Stderr)

	toolkit, err := platform.NewToolkit(*display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, toolkit, logger, app.Options{})
}

// serve runs the shell on a connected toolkit and disconnects it afterwards.
// Errors are logged and returned as exit code 1 so the disconnect still runs.
func serve(ctx context.Context, cfg *config.Config, toolkit platform.Toolkit, logger *slog.Logger, opts app.Options) int {
	defer toolkit.Disconnect()

	if err := app.New(cfg, toolkit, logger, opts).Run(ctx); err != nil {
		logger.Error("shellwin stopped", "err", err)
		return 1
	}
	return 0
}

const defaultRequestTimeout = 5 * time.Second

// newRequest returns a client and context that both give up after timeout.
func newRequest(timeout time.Duration) (*ipc.Client, context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	client := ipc.NewClient()
	client.SetTimeout(timeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return client, ctx, cancel
}

func runDrag(args []string) int {
	fs := flag.NewFlagSet("drag", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", defaultRequestTimeout, "How long to wait for the shell")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shellwin drag [--timeout DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running shell to start a window drag. Fails unless a pointer")
		fmt.Fprintln(os.Stderr, "button is held over the window.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "drag takes no arguments")
		fs.Usage()
		return 2
	}

	client, ctx, cancel := newRequest(*timeout)
	defer cancel()
	if err := client.StartDrag(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", defaultRequestTimeout, "How long to wait for the shell")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shellwin open [--timeout DURATION] <url>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open an http, https, mailto or file URL through the running shell.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	client, ctx, cancel := newRequest(*timeout)
	defer cancel()
	if err := client.OpenURL(ctx, fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runClipboard(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  shellwin clipboard read")
		fmt.Fprintln(os.Stderr, "  shellwin clipboard write [TEXT]   (reads stdin when TEXT is omitted)")
		return 2
	}

	client, ctx, cancel := newRequest(defaultRequestTimeout)
	defer cancel()

	switch args[0] {
	case "read":
		text, err := client.ClipboardRead(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(text)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Println()
		}
		return 0

	case "write":
		var text string
		switch len(args) {
		case 1:
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			text = string(data)
		case 2:
			text = args[1]
		default:
			fmt.Fprintln(os.Stderr, "clipboard write takes at most one argument")
			return 2
		}
		if err := client.ClipboardWrite(ctx, text); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown clipboard subcommand: %s\n", args[0])
		return 2
	}
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  shellwin config init [--path PATH] [--force]")
		fmt.Fprintln(os.Stderr, "  shellwin config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  shellwin config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  shellwin config path")
		return 2
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/shellwin/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		cfg, err := config.Init(*path, *force)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Wrote %s\n", cfg.Path())
		return 0

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/shellwin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/shellwin/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			cfg, err = loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if p := cfg.Path(); p != "" {
				fmt.Printf("# source: %s\n", p)
			}
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
