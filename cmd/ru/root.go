package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/73ai/ru/internal/dispatch"
	"github.com/73ai/ru/internal/ftype"
	"github.com/73ai/ru/internal/pattern"
	"github.com/73ai/ru/internal/render"
	"github.com/73ai/ru/internal/ruconfig"
	"github.com/73ai/ru/internal/ruerr"
	"github.com/73ai/ru/internal/walker"
)

var (
	version = "dev"
	commit  = "unknown"
)

var cfg ruconfig.Config

var rootCmd = &cobra.Command{
	Use:     "ru PATTERN [PATH]",
	Short:   "a recursive regex source-code searcher",
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("missing required argument: PATTERN")
		}
		cfg.Pattern = args[0]
		if len(args) > 1 {
			cfg.Paths = args[1:]
		} else {
			cfg.Paths = []string{"."}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	ruconfig.Bind(rootCmd, &cfg)
}

// Execute runs the root command and returns the process exit code per
// spec.md 6: 0 if any file produced matches, 1 if none did, 2 on a fatal
// error.
func Execute() int {
	var exitCode int
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		code, err := runSearch(cmd, args)
		exitCode = code
		return err
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ru:", err)
		if exitCode == 0 {
			exitCode = 2
		}
	}
	return exitCode
}

// runSearch returns the resolved exit code alongside any fatal error.
// Configuration and pattern failures are wrapped with ruerr's fatal kinds
// and returned with exit code 2, per spec.md 7.
func runSearch(cmd *cobra.Command, args []string) (int, error) {
	if err := ruconfig.Load(&cfg); err != nil {
		return 2, ruerr.WrapConfig(err)
	}

	re, err := pattern.Compile(cfg.Pattern, cfg.CompileOptions())
	if err != nil {
		return 2, ruerr.WrapPattern(err)
	}

	mode := chooseMode(os.Stdout)
	scanOpts := cfg.ScanOptions()
	langMatcher := ftype.NewMatcher(cfg.LangInclude, cfg.LangExclude)

	anyMatch := false
	for _, root := range cfg.Paths {
		wcfg := cfg.WalkerConfig()
		wcfg.Types = langMatcher
		w := walker.New(wcfg)

		files, err := w.Walk(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ru: %s: %v\n", root, ruerr.WrapDir(root, err))
			continue
		}
		files = tapVerbose(files, cfg.Verbose)

		results := dispatch.Run(context.Background(), files, re, scanOpts, cfg.NumWorkers())
		for res := range results {
			if len(res.Matches) > 0 {
				anyMatch = true
			}
			mode.PrintResult(res)
		}

		if cfg.Verbose {
			printStatsSummary(root, w.Stats())
		}
	}

	if anyMatch {
		return 0, nil
	}
	return 1, nil
}

// tapVerbose logs walker errors to stderr as they pass through, when
// --verbose is set, without otherwise altering the stream the dispatcher
// consumes.
func tapVerbose(in <-chan walker.Result, verbose bool) <-chan walker.Result {
	if !verbose {
		return in
	}
	out := make(chan walker.Result)
	go func() {
		defer close(out)
		for r := range in {
			if r.Error != nil {
				fmt.Fprintf(os.Stderr, "ru: %s: %v\n", r.Path, ruerr.WrapFile(r.Path, r.Error))
				out <- r
				continue
			}
			if lang := ftype.NameOf(r.Path); lang != "" {
				fmt.Fprintf(os.Stderr, "ru: scanning %s [%s]\n", r.Display, lang)
			}
			out <- r
		}
	}()
	return out
}

// printStatsSummary reports the walker's traversal counters for root,
// per spec.md 6's --verbose contract.
func printStatsSummary(root string, s walker.Stats) {
	fmt.Fprintf(os.Stderr, "ru: %s: %d files found, %d filtered, %d dirs traversed, %d dirs ignored, %d errors (%s)\n",
		root, s.FilesFound, s.FilesFiltered, s.DirsTraversed, s.DirsIgnored, s.Errors, s.Duration)
}

func chooseMode(w io.Writer) render.Mode {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	colors := cfg.Colors(isTerminal, noColorEnv)

	switch {
	case cfg.AckMate:
		return render.NewAckMateMode(w)
	case cfg.VimGrep:
		return render.NewVimGrepMode(w)
	case cfg.Count:
		return render.NewCountMode(w, colors)
	case cfg.FilesWithMatches:
		return render.NewFilesOnlyMode(w, colors, true)
	case cfg.FilesWithoutMatches:
		return render.NewFilesOnlyMode(w, colors, false)
	default:
		return render.NewDefaultMode(w, colors, cfg.UseGrouping(isTerminal), cfg.UseHeading(isTerminal))
	}
}
