package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/jcorbin/flatmark/flatdoc"
	"github.com/jcorbin/flatmark/internal/mdtoken"
	"github.com/jcorbin/flatmark/internal/richtext"
	"github.com/jcorbin/flatmark/internal/textio"
)

func main() {
	logOut := textio.PrefixWriter("> log: ", os.Stderr)
	log.SetOutput(logOut)
	log.SetFlags(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	cancel()

	var notReady *richtext.HostNotReadyError
	if errors.As(err, &notReady) {
		log.Printf("hint: create a shape store with `flatmark init`")
	}
	logOut.Close()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalln(err)
	}
}

type cli struct {
	Globals

	Init    initCmd    `cmd:"" help:"Create the shape store directory."`
	Flatten flattenCmd `cmd:"" help:"Flatten markdown, printing its text and style annotations."`
	Apply   applyCmd   `cmd:"" help:"Flatten markdown into a stored shape."`
	Read    readCmd    `cmd:"" help:"Print a stored shape."`
	Undo    undoCmd    `cmd:"" help:"Restore a shape's text from before its last apply."`
	Preview previewCmd `cmd:"" help:"Show the chat preview rendering of markdown."`
}

type Globals struct {
	Store     string       `help:"Shape store directory; a relative one is searched for in parent directories." env:"FLATMARK_STORE" default:".flatmark"`
	Tokenizer string       `help:"Markdown tokenizer: ${enum}." enum:"blackfriday,goldmark" default:"blackfriday"`
	Unit      flatdoc.Unit `help:"Offset unit for flattened documents: utf16, runes, or bytes." default:"utf16"`
	Normalize bool         `help:"NFC normalize text written into shapes." default:"true" negatable:""`

	in  io.Reader `kong:"-"`
	out io.Writer `kong:"-"`
}

var tokenizers = map[string]mdtoken.Tokenizer{
	"blackfriday": mdtoken.Blackfriday,
	"goldmark":    mdtoken.Goldmark,
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	var app cli
	app.in, app.out = in, out
	parser, err := kong.New(&app,
		kong.Name("flatmark"),
		kong.Description("Flatten markdown into styled positional rich text."),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(&app.Globals)
}

func (g *Globals) flattener() flatdoc.Flattener {
	return flatdoc.Flattener{
		Tokenizer: tokenizers[g.Tokenizer],
		Unit:      g.Unit,
	}
}

// MarkdownInput is a markdown source argument.
type MarkdownInput struct {
	Input string `arg:"" optional:"" help:"Markdown file to read; stdin if omitted or \"-\"."`
}

func (i MarkdownInput) read(g *Globals) (string, error) {
	if i.Input == "" || i.Input == "-" {
		b, err := ioutil.ReadAll(g.in)
		return string(b), err
	}
	b, err := ioutil.ReadFile(i.Input)
	return string(b), err
}

// ShapeID names a stored shape.
type ShapeID struct {
	Shape string `arg:"" help:"Shape id."`
}

func (g *Globals) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(g.out, format, args...)
	return err
}
