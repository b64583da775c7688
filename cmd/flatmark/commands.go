package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/jcorbin/flatmark/internal/mdtoken"
	"github.com/jcorbin/flatmark/internal/memhost"
	"github.com/jcorbin/flatmark/internal/preview"
	"github.com/jcorbin/flatmark/internal/richtext"
)

type initCmd struct{}

func (initCmd) Run(g *Globals) error {
	st, err := g.store(true)
	if err == nil {
		err = st.Init()
	}
	if err != nil {
		return err
	}
	return g.printf("initialized shape store %v\n", st.Dir)
}

type flattenCmd struct {
	MarkdownInput

	Tokens bool `help:"Print the token tree rather than the flattened document."`
	JSON   bool `help:"Print the flattened document as JSON." name:"json"`
}

func (cmd flattenCmd) Run(g *Globals) error {
	md, err := cmd.read(g)
	if err != nil {
		return err
	}
	fl := g.flattener()

	if cmd.Tokens {
		return mdtoken.Dump(g.out, fl.Tokenize(md))
	}

	doc := fl.Flatten(md)
	if cmd.JSON {
		enc := json.NewEncoder(g.out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return g.printf("%v\n%+v\n", doc, doc)
}

type applyCmd struct {
	ShapeID
	MarkdownInput
}

func (cmd applyCmd) Run(ctx context.Context, g *Globals) error {
	md, err := cmd.read(g)
	if err != nil {
		return err
	}
	st, err := g.store(false)
	if err != nil {
		return err
	}
	ap := richtext.Applier{Flattener: g.flattener()}
	rep, err := st.Rewrite(ctx, ap, cmd.Shape, md)
	if err != nil {
		return err
	}
	return g.printf("%v: %v units, applied %v, skipped %v, failed %v\n",
		cmd.Shape, rep.TotalLength, rep.Applied, rep.Skipped, rep.Failed)
}

type readCmd struct {
	ShapeID

	JSON bool `help:"Print the stored shape as JSON." name:"json"`
}

func (cmd readCmd) Run(g *Globals) error {
	st, err := g.store(false)
	if err != nil {
		return err
	}
	sh, err := st.Load(cmd.Shape)
	if err != nil {
		return err
	}
	if cmd.JSON {
		enc := json.NewEncoder(g.out)
		enc.SetIndent("", "  ")
		return enc.Encode(sh)
	}
	_, err = memhost.Load(sh).WriteTo(g.out)
	return err
}

type undoCmd struct {
	ShapeID
}

func (cmd undoCmd) Run(ctx context.Context, g *Globals) error {
	st, err := g.store(false)
	if err == nil {
		err = st.Undo(ctx, cmd.Shape)
	}
	if err != nil {
		return err
	}
	return g.printf("%v: restored previous text\n", cmd.Shape)
}

type previewCmd struct {
	MarkdownInput

	Screen bool `help:"Draw on the terminal screen; any key exits."`
	Width  int  `help:"Wrap width in cells when drawing on screen." default:"60"`
}

func (cmd previewCmd) Run(ctx context.Context, g *Globals) error {
	md, err := cmd.read(g)
	if err != nil {
		return err
	}
	paras := preview.Parse(md)

	if !cmd.Screen {
		for _, para := range paras {
			if err := g.printf("%v\n", para); err != nil {
				return err
			}
		}
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to init screen: %w", err)
	}
	defer screen.Fini()
	return cmd.show(ctx, screen, paras)
}

func (cmd previewCmd) show(ctx context.Context, screen tcell.Screen, paras []preview.Paragraph) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	draw := func() {
		screen.Clear()
		width, _ := screen.Size()
		if width -= 2; width > cmd.Width {
			width = cmd.Width
		}
		preview.Draw(screen, 1, 1, width, paras)
		screen.Show()
	}

	draw()
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			draw()
		case *tcell.EventKey:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case nil:
			return nil
		}
	}
}
