// Package ruconfig assembles the CLI flag set and sets up viper's
// .ru.yaml/environment lookup alongside it, generalizing the teacher's
// cmd/codegrep/root.go Config+viper wiring to spec.md 6's option set.
// Config fields are filled from command-line flags only.
package ruconfig

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/73ai/ru/internal/pattern"
	"github.com/73ai/ru/internal/render"
	"github.com/73ai/ru/internal/scanner"
	"github.com/73ai/ru/internal/walker"
)

// Config mirrors every flag group from spec.md 6, plus the ambient flags
// every pack CLI carries (--config, --verbose, --version).
type Config struct {
	Pattern string
	Paths   []string

	// File selection
	AllTypes     bool
	AllText      bool
	Unrestricted bool
	SearchBinary bool
	Hidden       bool
	Follow       bool
	NoFollow     bool
	Depth        int
	LangInclude  []string
	LangExclude  []string

	// Pattern
	Literal       bool
	FixedStrings  bool
	CaseSensitive bool
	SmartCase     bool
	IgnoreCase    bool
	InvertMatch   bool

	// Output selection
	FilesWithMatches    bool
	FilesWithoutMatches bool
	Count               bool
	AckMate             bool
	VimGrep             bool

	// Formatting
	Group         bool
	NoGroupFlag   bool
	Heading       bool
	NoHeadingFlag bool
	Break         bool
	NoBreakFlag   bool
	NoColor       bool
	ColorPath     string
	ColorLineno   string
	ColorMatch    string
	ColorPunct    string

	// Limits
	MaxCount int
	After    int
	Before   int
	Context  int

	// Execution
	Workers int

	// Ambient
	ConfigFile string
	Verbose    bool
}

// Bind registers every flag above on cmd and binds the flag set into
// viper. Nothing reads values back out of viper, so RU_-prefixed
// environment variables and .ru.yaml do not change any Config field.
func Bind(cmd *cobra.Command, cfg *Config) {
	f := cmd.Flags()

	f.BoolVarP(&cfg.AllTypes, "all-types", "a", false, "search all file types, including binary")
	f.BoolVarP(&cfg.AllText, "all-text", "t", false, "do not search binary files, overriding --all-types/--search-binary")
	f.BoolVarP(&cfg.Unrestricted, "unrestricted", "u", false, "ignore .gitignore rules")
	f.BoolVar(&cfg.SearchBinary, "search-binary", false, "search binary files")
	f.BoolVar(&cfg.Hidden, "hidden", false, "search hidden files and directories")
	f.BoolVarP(&cfg.Follow, "follow", "f", false, "follow symbolic links")
	f.BoolVar(&cfg.NoFollow, "nofollow", false, "do not follow symbolic links")
	f.IntVar(&cfg.Depth, "depth", walker.UnlimitedDepth, "maximum directory depth (0 = root only, unset = unlimited)")
	f.StringSliceVar(&cfg.LangInclude, "lang", nil, "search only files of the given language(s)")
	f.StringSliceVar(&cfg.LangExclude, "lang-not", nil, "exclude files of the given language(s)")

	f.BoolVarP(&cfg.Literal, "literal", "Q", false, "treat pattern as a literal string")
	f.BoolVarP(&cfg.FixedStrings, "fixed-strings", "F", false, "treat pattern as a literal string")
	f.BoolVarP(&cfg.CaseSensitive, "case-sensitive", "s", false, "force case-sensitive matching")
	f.BoolVarP(&cfg.SmartCase, "smart-case", "S", false, "case-insensitive unless pattern has an uppercase letter")
	f.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "case-insensitive matching")
	f.BoolVarP(&cfg.InvertMatch, "invert-match", "v", false, "select non-matching lines")

	f.BoolVarP(&cfg.FilesWithMatches, "files-with-matches", "l", false, "print only file names with matches")
	f.BoolVarP(&cfg.FilesWithoutMatches, "files-without-matches", "L", false, "print only file names without matches")
	f.BoolVarP(&cfg.Count, "count", "c", false, "print only a count of matches per file")
	f.BoolVar(&cfg.AckMate, "ackmate", false, "print results in AckMate format")
	f.BoolVar(&cfg.VimGrep, "vimgrep", false, "print results in vimgrep format")

	f.BoolVar(&cfg.Group, "group", false, "group matches by file with blank lines between")
	f.BoolVar(&cfg.NoGroupFlag, "nogroup", false, "do not group matches by file")
	f.BoolVarP(&cfg.Heading, "heading", "H", false, "print the file name once above its matches")
	f.BoolVar(&cfg.NoHeadingFlag, "noheading", false, "print the file name on every match line")
	f.BoolVar(&cfg.Break, "break", false, "print a blank line between files")
	f.BoolVar(&cfg.NoBreakFlag, "nobreak", false, "do not print a blank line between files")
	f.BoolVar(&cfg.NoColor, "nocolor", false, "disable colored output")
	f.StringVar(&cfg.ColorPath, "color-path", "35", "SGR code for file paths")
	f.StringVar(&cfg.ColorLineno, "color-line-number", "32", "SGR code for line numbers")
	f.StringVar(&cfg.ColorMatch, "color-match", "4", "SGR code for matched spans")
	f.StringVar(&cfg.ColorPunct, "color-punct", "36", "SGR code for separator punctuation")

	f.IntVarP(&cfg.MaxCount, "max-count", "m", 0, "stop after NUM matches per file")
	f.IntVarP(&cfg.After, "after", "A", 0, "print NUM lines of context after each match")
	f.IntVarP(&cfg.Before, "before", "B", 0, "print NUM lines of context before each match")
	f.IntVarP(&cfg.Context, "context", "C", 0, "print NUM lines of context before and after each match")

	f.IntVar(&cfg.Workers, "workers", 0, "number of worker goroutines (0 = auto)")

	f.StringVar(&cfg.ConfigFile, "config", "", "path to an explicit config file")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log non-fatal per-file/per-directory errors to stderr")

	viper.BindPFlags(f)
}

// Load points viper at the --config file (or .ru.yaml in cwd or $HOME)
// and at RU_-prefixed environment variables and reads the config file,
// following the teacher's cmd/codegrep/root.go initConfig pattern. A
// missing .ru.yaml is not an error; a config file that cannot be read or
// parsed is. The values viper loads are not copied into cfg.
func Load(cfg *Config) error {
	if cfg.ConfigFile != "" {
		viper.SetConfigFile(cfg.ConfigFile)
	} else {
		viper.SetConfigName(".ru")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("RU")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// CompileOptions derives internal/pattern's CompileOptions from the
// casing and literal-string flags. Precedence, most specific first:
// --ignore-case, then --smart-case, then plain case-sensitive default.
func (c *Config) CompileOptions() pattern.CompileOptions {
	opts := pattern.CompileOptions{Literal: c.Literal || c.FixedStrings}
	switch {
	case c.IgnoreCase:
		opts.Casing = pattern.CasingInsensitive
	case c.SmartCase:
		opts.Casing = pattern.CasingSmart
	default:
		opts.Casing = pattern.CasingDefault
	}
	return opts
}

// ScanOptions derives internal/scanner's Options.
func (c *Config) ScanOptions() scanner.Options {
	before, after := c.Before, c.After
	if c.Context > 0 {
		if before == 0 {
			before = c.Context
		}
		if after == 0 {
			after = c.Context
		}
	}
	return scanner.Options{
		InvertMatch: c.InvertMatch,
		DoBinaries:  (c.AllTypes || c.SearchBinary) && !c.AllText,
		MaxCount:    c.MaxCount,
		OnlyFiles:   c.FilesWithMatches || c.FilesWithoutMatches,
		Before:      before,
		After:       after,
	}
}

// WalkerConfig derives internal/walker's Config.
func (c *Config) WalkerConfig() *walker.Config {
	return &walker.Config{
		MaxDepth:     c.Depth,
		FollowLinks:  c.Follow && !c.NoFollow,
		DoHidden:     c.Hidden,
		CheckIgnores: !c.Unrestricted,
	}
}

// NumWorkers resolves the effective worker count: the explicit --workers
// value if set, otherwise spec.md 4.6's default of min(4, logical CPUs).
func (c *Config) NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return walker.NumWorkers()
}

// UseHeading resolves the --heading/--noheading pair. Per spec.md 6, TTY
// detection on stdout seeds the default (heading on for an interactive
// terminal), and --noheading always wins over --heading when both are
// passed.
func (c *Config) UseHeading(isTerminal bool) bool {
	heading := isTerminal
	if c.Heading {
		heading = true
	}
	if c.NoHeadingFlag {
		heading = false
	}
	return heading
}

// UseGrouping resolves the --group/--nogroup and --break/--nobreak pairs.
// Per spec.md 6, TTY detection on stdout seeds the default (grouping on
// for an interactive terminal), and either "no" form always wins over the
// corresponding "on" form when both are passed.
func (c *Config) UseGrouping(isTerminal bool) bool {
	grouping := isTerminal
	if c.Group || c.Break {
		grouping = true
	}
	if c.NoGroupFlag || c.NoBreakFlag {
		grouping = false
	}
	return grouping
}

// Colors builds internal/render's Colors from the --color-* flags,
// --nocolor, the NO_COLOR convention, and whether stdout is a terminal.
func (c *Config) Colors(isTerminal bool, noColorEnv bool) render.Colors {
	if c.NoColor || noColorEnv || !isTerminal {
		return render.NoColors()
	}
	return render.NewColors(c.ColorPath, c.ColorLineno, c.ColorMatch, c.ColorPunct)
}
