// Package tui hosts a navigation session in the terminal with bubbletea.
//
// Each cell shows two pixels stacked vertically, so a W x H terminal holds a
// W x 2(H-2) frame; the last two lines carry the status bar.
package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fractalscope/internal/fractal"
	"github.com/san-kum/fractalscope/internal/navigate"
	"github.com/san-kum/fractalscope/internal/storage"
)

const (
	statusLines  = 2
	tickInterval = 100 * time.Millisecond
)

// Factory builds the controller once the terminal size is known.
type Factory func(width, height int) *navigate.Controller

type tickMsg time.Time

type Model struct {
	ctx     context.Context
	factory Factory
	store   *storage.Store

	ctrl    *navigate.Controller
	frame   *image.RGBA
	preview *image.RGBA
	status  string
}

func NewModel(ctx context.Context, factory Factory, store *storage.Store) Model {
	return Model{ctx: ctx, factory: factory, store: store}
}

// Controller returns the session, or nil before the first window size.
func (m Model) Controller() *navigate.Controller { return m.ctrl }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// The frame size is fixed for the session; later resizes only crop.
		if m.ctrl == nil {
			w, h := msg.Width, 2*(msg.Height-statusLines)
			if w <= 0 || h <= 0 {
				return m, nil
			}
			m.ctrl = m.factory(w, h)
			m.refresh()
		}
		return m, nil

	case tickMsg:
		if m.ctrl != nil {
			m.handle(navigate.Tick{At: time.Time(msg)})
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.ctrl != nil {
				m.ctrl.Close()
			}
			return m, tea.Quit
		}
		if ev, ok := navigate.Bind(msg.String()); ok && m.ctrl != nil {
			m.handle(ev)
		}
		return m, nil

	case tea.MouseMsg:
		if ev, ok := mouseEvent(msg); ok && m.ctrl != nil {
			m.handle(ev)
		}
		return m, nil
	}
	return m, nil
}

// mouseEvent converts a cell position into the top pixel of that cell.
func mouseEvent(msg tea.MouseMsg) (navigate.Event, bool) {
	pos := image.Pt(msg.X, msg.Y*2)
	switch msg.Action {
	case tea.MouseActionMotion:
		return navigate.PointerMove{Pos: pos}, true
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil, false
		}
		return navigate.PointerDown{Pos: pos, Button: navigate.ButtonLeft}, true
	case tea.MouseActionRelease:
		// Terminals do not always report which button went up.
		return navigate.PointerUp{Pos: pos, Button: navigate.ButtonLeft}, true
	}
	return nil, false
}

func (m *Model) handle(ev navigate.Event) {
	out := m.ctrl.Handle(ev)
	if out.Status != "" {
		m.status = out.Status
	}
	if out.Save {
		m.save()
	}
	m.refresh()
}

func (m *Model) refresh() {
	if m.ctrl.Dirty() {
		img, err := m.ctrl.Frame(m.ctx)
		if err != nil {
			m.status = m.ctrl.Status()
		}
		m.frame = img
	}
	img, err := m.ctrl.Preview(m.ctx)
	if err != nil {
		m.status = err.Error()
	}
	m.preview = img
}

func (m *Model) save() {
	if m.store == nil {
		m.status = "saving disabled"
		return
	}
	img, err := m.ctrl.Frame(m.ctx)
	if img == nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	path, err := m.store.SaveFrame(img, storage.Describe(m.ctrl.Snapshot()))
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.status = "saved " + path
}

func (m Model) View() string {
	if m.ctrl == nil || m.frame == nil {
		return dim.Render("  computing...")
	}

	sel, dragging := m.ctrl.Selection()
	var b strings.Builder
	b.WriteString(halfBlocks(compose(m.frame, m.preview, sel, dragging)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(keyHint.Render("drag") + dim.Render(" zoom  ") +
		keyHint.Render("+/-") + dim.Render(" step  ") +
		keyHint.Render("j/m") + dim.Render(" mode  ") +
		keyHint.Render("1-0 qwer") + dim.Render(" preset  ") +
		keyHint.Render("p") + dim.Render(" preview  ") +
		keyHint.Render("s") + dim.Render(" save  ") +
		keyHint.Render("esc") + dim.Render(" quit"))
	return b.String()
}

func (m Model) statusLine() string {
	v := m.ctrl.Viewport()
	c := v.Center()
	line := title.Render(m.ctrl.Title()) + " " +
		value.Render(fmt.Sprintf("%.10g %+.10gi", real(c), imag(c))) +
		dim.Render(fmt.Sprintf("  scale %.3e  iter %d", v.Scale(), m.ctrl.MaxIterations()))
	if j, ok := m.ctrl.Family().(fractal.Julia); ok {
		line += dim.Render(fmt.Sprintf("  c %.5g %+.5gi", real(j.C), imag(j.C)))
	}
	if m.status != "" {
		line += "  " + warning.Render(m.status)
	}
	return line
}

// Run starts the terminal explorer and blocks until the user quits.
func Run(ctx context.Context, factory Factory, store *storage.Store) error {
	p := tea.NewProgram(NewModel(ctx, factory, store),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
