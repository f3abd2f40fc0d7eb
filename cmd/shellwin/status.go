package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/shellwin/internal/ipc"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON (default when stdout is not a terminal)")
	timeout := fs.Duration("timeout", defaultRequestTimeout, "How long to wait for the shell")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shellwin status [--json] [--timeout DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window status via IPC.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client, ctx, cancel := newRequest(*timeout)
	defer cancel()
	status, err := client.Status(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Print(renderStatus(status))
	return 0
}

// renderStatus formats status for a terminal.
func renderStatus(status *ipc.StatusData) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label+":")), value)
	}

	row("window", fmt.Sprintf("%s (0x%x)", status.Label, status.WindowID))
	if p := status.Placement; p != nil {
		row("placement", outcomeStyle(p.Outcome).Render(p.Outcome))
		row("position", fmt.Sprintf("%d,%d", p.X, p.Y))
		size := fmt.Sprintf("%dx%d", p.Width, p.Height)
		if p.UsedFallback {
			size += " (fallback)"
		}
		row("size", size)
		if p.Error != "" {
			row("error", errStyle.Render(p.Error))
		}
	} else {
		row("placement", labelStyle.Render("disabled"))
	}
	row("commands", strings.Join(status.Commands, ", "))
	row("uptime", fmt.Sprintf("%ds", status.UptimeSeconds))
	return b.String()
}

func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "placed":
		return okStyle
	case "move_failed":
		return errStyle
	default:
		return warnStyle
	}
}
