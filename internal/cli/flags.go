package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Flags holds parsed command-line flags.
type Flags struct {
	ShowHelp    bool
	ShowVersion bool
	ConfigPath  string
	Debug       bool

	// One-shot commands. At most one runs; the TUI starts when none is set.
	Kill        bool
	Launch      bool
	Block       bool
	Unblock     bool
	History     bool
	CheckUpdate bool
}

// Command returns the name of the one-shot command requested, or "".
func (f *Flags) Command() string {
	switch {
	case f.Kill:
		return "kill"
	case f.Launch:
		return "launch"
	case f.Block:
		return "block"
	case f.Unblock:
		return "unblock"
	case f.History:
		return "history"
	case f.CheckUpdate:
		return "check-update"
	}
	return ""
}

// ParseFlags parses command-line flags and returns the result. Help and
// version requests print and exit.
func ParseFlags(version string) *Flags {
	f, err := parseArgs(os.Args[1:], io.Discard)
	if err != nil {
		PrintHelp(version)
		os.Exit(2)
	}

	if f.ShowVersion {
		PrintVersion(version)
		os.Exit(0)
	}
	if f.ShowHelp {
		PrintHelp(version)
		os.Exit(0)
	}
	return f
}

func parseArgs(args []string, output io.Writer) (*Flags, error) {
	var f Flags

	fs := flag.NewFlagSet("gtatools", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.BoolVar(&f.ShowHelp, "help", false, "Show help and exit")
	fs.BoolVar(&f.ShowHelp, "h", false, "Show help and exit (shorthand)")
	fs.BoolVar(&f.ShowVersion, "version", false, "Show version and exit")
	fs.BoolVar(&f.ShowVersion, "v", false, "Show version and exit (shorthand)")
	fs.StringVar(&f.ConfigPath, "config", "", "Path to settings file")
	fs.StringVar(&f.ConfigPath, "c", "", "Path to settings file (shorthand)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Debug, "d", false, "Enable debug logging (shorthand)")
	fs.BoolVar(&f.Kill, "kill", false, "Kill the game and exit")
	fs.BoolVar(&f.Kill, "k", false, "Kill the game and exit (shorthand)")
	fs.BoolVar(&f.Launch, "launch", false, "Launch the game and exit")
	fs.BoolVar(&f.Launch, "L", false, "Launch the game and exit (shorthand)")
	fs.BoolVar(&f.Block, "block", false, "Block game network access and exit")
	fs.BoolVar(&f.Block, "b", false, "Block game network access and exit (shorthand)")
	fs.BoolVar(&f.Unblock, "unblock", false, "Unblock game network access and exit")
	fs.BoolVar(&f.Unblock, "u", false, "Unblock game network access and exit (shorthand)")
	fs.BoolVar(&f.History, "history", false, "Print the action journal and exit")
	fs.BoolVar(&f.History, "H", false, "Print the action journal and exit (shorthand)")
	fs.BoolVar(&f.CheckUpdate, "check-update", false, "Check for a newer release and exit")
	fs.BoolVar(&f.CheckUpdate, "U", false, "Check for a newer release and exit (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	n := 0
	for _, set := range []bool{f.Kill, f.Launch, f.Block, f.Unblock, f.History, f.CheckUpdate} {
		if set {
			n++
		}
	}
	if n > 1 {
		return nil, fmt.Errorf("only one command flag may be given")
	}

	return &f, nil
}
