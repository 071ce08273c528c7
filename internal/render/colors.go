package render

import "fmt"

// Colors holds the raw ANSI SGR sequences used to highlight a rendered
// result. The sequences are built directly from caller-supplied SGR
// payload strings (e.g. "01;31"), matching the --color-{path,line-number,
// match,punct} flags, rather than a color-name library -- an arbitrary
// caller-chosen SGR code isn't expressible through a fixed palette.
type Colors struct {
	Reset  string
	Path   string
	Lineno string
	Span   string
	Punct  string
	Empty  bool
}

// NoColors returns a Colors value that emits nothing, for non-tty output
// or --nocolor.
func NoColors() Colors {
	return Colors{Empty: true}
}

// NewColors builds a Colors from SGR payload strings for each element.
func NewColors(path, lineno, span, punct string) Colors {
	return Colors{
		Reset:  "\x1b[0m",
		Path:   sgr(path),
		Lineno: sgr(lineno),
		Span:   sgr(span),
		Punct:  sgr(punct),
	}
}

func sgr(code string) string {
	return fmt.Sprintf("\x1b[%sm", code)
}
