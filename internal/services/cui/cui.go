package cui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dashsearch/internal/lib/logger/sl"
	"dashsearch/internal/services/placeholder"
	"dashsearch/internal/services/render"

	"github.com/jroimartin/gocui"
)

const (
	viewInput  = "input"
	viewOutput = "output"
	viewStatus = "status"

	statusRefresh = time.Second
)

// Input receives the raw contents of the search box after every keystroke.
type Input interface {
	Input(text string)
}

type Options struct {
	Input    Input
	Renderer *render.Renderer
	// Status describes background state (remote indexes) for the status view.
	Status func() string
	// Reload retries failed remote loads.
	Reload func(ctx context.Context)
}

type CUI struct {
	log    *slog.Logger
	cui    *gocui.Gui
	screen *Screen
	opts   Options

	hint     *placeholder.Machine
	stopHint sync.Once
}

func New(log *slog.Logger, screen *Screen, opts Options) (*CUI, error) {
	const op = "cui.New"

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if opts.Renderer == nil {
		opts.Renderer = render.New(nil)
	}

	c := &CUI{
		log:    log,
		cui:    g,
		screen: screen,
		opts:   opts,
		hint:   placeholder.NewMachine(placeholder.DefaultSuggestions),
	}
	screen.OnChange(c.redraw)

	return c, nil
}

func (c *CUI) Close() {
	c.cui.Close()
}

// Start runs the UI until the user quits or ctx is done.
func (c *CUI) Start(ctx context.Context) error {
	const op = "cui.Start"

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.cui.Cursor = true
	c.cui.InputEsc = true
	c.cui.SetManagerFunc(c.layout)

	bindings := []struct {
		view    string
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{"", gocui.KeyCtrlC, quit},
		{"", gocui.KeyArrowDown, scrollDown},
		{"", gocui.KeyArrowUp, scrollUp},
		{"", gocui.KeyCtrlR, func(*gocui.Gui, *gocui.View) error {
			if c.opts.Reload != nil {
				go c.opts.Reload(ctx)
			}
			return nil
		}},
		{viewInput, gocui.KeyEsc, c.clearInput},
	}
	for _, b := range bindings {
		if err := c.cui.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	go placeholder.Run(ctx, c.hint, c.screen.SetPlaceholder)
	go c.refreshStatus(ctx)

	go func() {
		<-ctx.Done()
		c.cui.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
	}()

	if err := c.cui.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *CUI) refreshStatus(ctx context.Context) {
	ticker := time.NewTicker(statusRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.redraw()
		}
	}
}

// Edit feeds every change of the search box to the input.
func (c *CUI) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	if key == gocui.KeyEnter {
		return
	}

	c.stopHint.Do(c.hint.Stop)

	gocui.DefaultEditor.Edit(v, key, ch, mod)
	c.opts.Input.Input(strings.TrimSpace(v.Buffer()))
}

func (c *CUI) clearInput(_ *gocui.Gui, v *gocui.View) error {
	v.Clear()
	if err := v.SetCursor(0, 0); err != nil {
		return err
	}
	c.opts.Input.Input("")
	return nil
}

func (c *CUI) redraw() {
	c.cui.Update(c.draw)
}

func (c *CUI) draw(g *gocui.Gui) error {
	snap := c.screen.Snapshot()

	if v, err := g.View(viewInput); err == nil {
		v.Title = "Search"
		if snap.Placeholder != "" {
			v.Title = "Search: " + snap.Placeholder
		}
	}

	if v, err := g.View(viewOutput); err == nil {
		v.Clear()
		if !snap.Cleared {
			fmt.Fprintln(v, c.opts.Renderer.Render(snap.Results))
		}
	}

	if v, err := g.View(viewStatus); err == nil {
		v.Clear()
		parts := []string{fmt.Sprintf("gen %d", snap.Generation)}
		if !snap.Cleared {
			parts = append(parts, render.Summary(snap.Results))
		}
		if c.opts.Status != nil {
			parts = append(parts, c.opts.Status())
		}
		fmt.Fprint(v, strings.Join(parts, " | "))
	}

	return nil
}

func (c *CUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if maxX < 10 || maxY < 9 {
		return fmt.Errorf("terminal window is too small")
	}

	if v, err := g.SetView(viewInput, 0, 0, maxX-1, 2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Editable = true
		v.Editor = c
		v.Title = "Search"
		if _, err := g.SetCurrentView(viewInput); err != nil {
			c.log.Error("failed to focus input", sl.Err(err))
		}
	}

	if v, err := g.SetView(viewOutput, 0, 3, maxX-1, maxY-4); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Results"
		v.Wrap = true
	}

	if v, err := g.SetView(viewStatus, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Status (Esc clear, Ctrl-R reload, Ctrl-C quit)"
	}

	return nil
}

func scrollDown(g *gocui.Gui, _ *gocui.View) error {
	v, err := g.View(viewOutput)
	if err != nil {
		return err
	}

	_, oy := v.Origin()
	_, sy := v.Size()

	lines := len(v.BufferLines())

	if oy+sy < lines {
		return v.SetOrigin(0, oy+1)
	}
	return nil
}

func scrollUp(g *gocui.Gui, _ *gocui.View) error {
	v, err := g.View(viewOutput)
	if err != nil {
		return err
	}

	_, oy := v.Origin()
	if oy > 0 {
		return v.SetOrigin(0, oy-1)
	}
	return nil
}

func quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}
