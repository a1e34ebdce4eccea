package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/disintegration/imaging"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"

	"github.com/nusantara/qr"
	"github.com/nusantara/qr/coding"
	"github.com/nusantara/qr/generator"
)

// Exit codes.
const (
	exitError  = 1 // I/O and other errors
	exitUsage  = 2 // bad flags or options
	exitEncode = 3 // text not encodable or too long
)

// defaults are flag defaults overridable from the environment.
type defaults struct {
	Level  string `env:"QR_LEVEL" envDefault:"l"`
	Scale  int    `env:"QR_SCALE" envDefault:"4"`
	Quiet  int    `env:"QR_QUIET_ZONE" envDefault:"4"`
	Format string `env:"QR_FORMAT"`
}

var g = struct {
	scale    int            // scale
	border   int            // quiet zone
	rev      bool           // reverse colours
	fn       string         // filename
	lev      qr.Level       // QR correction level
	ver      coding.Version // QR version, 0 for smallest
	format   string         // output file format
	cx       int            // randr source X coordinate index in inc
	inc      [2]int         // randr source X,Y coordinate increments
	bg, fg   rgba           // colour
	colSet   bool           // colour set
	eci      bool           // ECI segment for UTF-8
	nokanji  bool           // kanji mode disabled
	byteOnly bool           // byte mode only
	upper    bool           // uppercase
	rounded  bool           // rounded modules
	label    string         // label text
	logo     string         // logo file
	logoW    int            // logo width
}{
	inc: [2]int{1, 1},
	bg:  rgba{0xff, 0xff, 0xff, 0xff},
	fg:  rgba{0x00, 0x00, 0x00, 0xff},
}

var log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	},
}))

func fatal(code int, msg string, err error) {
	log.Error(msg, slog.Any("error", err))
	os.Exit(code)
}

// exitCode classifies err.
func exitCode(err error) int {
	var (
		ee  *qr.EncodingError
		ce  *qr.CapacityExceededError
		cfg *qr.ConfigError
	)
	switch {
	case errors.As(err, &ee), errors.As(err, &ce):
		return exitEncode
	case errors.As(err, &cfg), errors.Is(err, qr.ErrUnsupportedFormat):
		return exitUsage
	}
	return exitError
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults for -l, -s, -m and -t are read from
QR_LEVEL, QR_SCALE, QR_QUIET_ZONE and QR_FORMAT, or from a .env file.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(exitUsage)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

type rgba color.NRGBA

func (c *rgba) String() string {
	switch *c {
	case rgba{0x00, 0x00, 0x00, 0xff}:
		return "black"
	case rgba{0xff, 0xff, 0xff, 0xff}:
		return "white"
	}
	if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	n, err := generator.ParseColor(s)
	if err != nil {
		return err
	}
	*c = rgba(n)
	g.colSet = true
	return nil
}

var formats = []string{
	"png", "pngi", "svg", "svgi", "bmp", "bmpi", "pbm", "pbmi",
	"eps", "epsi", "utf8", "utf8i", "ascii", "asciii", "base64", "base64i",
}

var writers = map[string]func(io.Writer, *qr.Symbol, qr.RenderOptions) error{
	"png":    format(qr.PNG),
	"svg":    format(qr.SVG),
	"bmp":    format(qr.BMP),
	"pbm":    format(qr.PBM),
	"base64": format(qr.DataURI),
	"eps":    eps,
	"utf8":   utf8,
	"ascii":  ascii,
}

func format(f qr.Format) func(io.Writer, *qr.Symbol, qr.RenderOptions) error {
	return func(w io.Writer, s *qr.Symbol, o qr.RenderOptions) error {
		return qr.Write(w, s, o, f)
	}
}

func loadDefaults() defaults {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fatal(exitUsage, "load .env", err)
	}
	var d defaults
	if err := env.Parse(&d); err != nil {
		fatal(exitUsage, "parse environment", err)
	}
	return d
}

func parseFlags() {
	d := loadDefaults()
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or a colour name; `+
		`not for types utf8[i] and ascii[i]`, "RGB[A]|name")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.nokanji, 'K', "disable kanji mode")
	getopt.Flag(&g.byteOnly, '8', "encode entire data in byte mode")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.eci, 'e', "encode ECI segment designating UTF-8 "+
		"if data is not ASCII")
	getopt.Flag(&g.rounded, 'R', "round off module corners")
	getopt.Flag(&g.label, 'L', "label text below the code", "text")
	getopt.Flag(&g.logo, 'g', "logo image over the centre of the code", "file")
	getopt.Flag(&g.logoW, 'w', "logo width in pixels [a fifth of the code]", "width")
	g.border = d.Quiet
	getopt.Flag(&g.border, 'm', `quiet zone modules`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 for the smallest that fits", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, d.Level,
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', uint64(max(d.Scale, 1)),
		&(getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: qr.MaxImageSide}),
		`image pixels (type eps[i]: points) per QR module; `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, d.Format, `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	if g.byteOnly && g.nokanji {
		fmt.Fprintln(os.Stderr, "-8 and -K are incompatible")
		usage()
	}
	if g.border < 0 {
		fmt.Fprintln(os.Stderr, "-m must not be negative")
		usage()
	}
	g.scale = int(*scale)
	g.ver = coding.Version(*ver)
	l, err := qr.ParseLevel(*lev)
	if err != nil {
		fatal(exitUsage, "bad level", err)
	}
	g.lev = l
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	g.format, g.rev = *ff, false
	if _, ok := writers[g.format]; !ok {
		g.format, g.rev = strings.TrimSuffix(*ff, "i"), true
	}
	if _, ok := writers[g.format]; !ok {
		fmt.Fprintf(os.Stderr, "%s: unknown type\n", *ff)
		usage()
	}
	if g.fn == "-" {
		g.fn = ""
	}
}

func main() {
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			fatal(exitError, "read input", err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	o := qr.Options{Level: g.lev, Version: g.ver, NoKanji: g.nokanji, ECI: g.eci}
	if g.byteOnly {
		o.Mode = qr.Byte
	}
	c, err := qr.EncodeOptions(s, o)
	if err != nil {
		fatal(exitCode(err), "encode", err)
	}
	ro, err := renderOptions()
	if err != nil {
		fatal(exitCode(err), "options", err)
	}
	if cov, err := qr.LogoCoverage(c, ro); err != nil {
		fatal(exitCode(err), "logo", err)
	} else if !cov.OK() {
		log.Warn("logo hides too many codewords",
			slog.Int("codewords", cov.Codewords), slog.Int("total", cov.Total))
	}
	write(randr(c), ro)
}

func renderOptions() (qr.RenderOptions, error) {
	bg, fg := color.NRGBA(g.bg), color.NRGBA(g.fg)
	if g.rev {
		bg, fg = fg, bg
	}
	o := qr.RenderOptions{
		Scale:      g.scale,
		Margin:     g.border,
		Foreground: fg,
		Background: bg,
	}
	if g.rounded {
		o.Shape = qr.Rounded
	}
	if g.label != "" {
		o.Label = &qr.Label{Text: g.label}
	}
	if g.logo != "" {
		img, err := imaging.Open(g.logo)
		if err != nil {
			return o, &qr.ConfigError{Field: "Logo", Reason: err.Error()}
		}
		o.Logo = &qr.Logo{Image: img, Width: g.logoW, PunchOut: true}
	}
	return o, nil
}

func write(c *qr.Symbol, o qr.RenderOptions) {
	var b bytes.Buffer
	if err := writers[g.format](&b, c, o); err != nil {
		fatal(exitCode(err), "render", err)
	}
	w := os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			fatal(exitError, "open output", err)
		}
	}
	_, err := w.Write(b.Bytes())
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		fatal(exitError, "write output", err)
	}
}

// randr returns c rotated and reflected.
func randr(c *qr.Symbol) *qr.Symbol {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	b := make([]byte, 0, len(c.Bitmap))
	var coord [2]int
	siz := c.Size
	coord[cx^1] = (siz - 1) & inc[1]
	for y := 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		var bb byte
		for x := 0; x < siz; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if x&7 == 7 {
				b = append(b, bb)
			}
			coord[cx] += inc[0]
		}
		if siz&7 != 0 {
			b = append(b, bb<<(8-siz&7))
		}
		coord[cx^1] += inc[1]
	}
	r := *c
	r.Bitmap = b
	return &r
}
