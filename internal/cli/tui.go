package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orthonet/pkg/engine"
	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/render/sink"
	"github.com/matzehuels/orthonet/pkg/router"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// defaultDragStep is the pointer movement per key press while dragging.
const defaultDragStep = 10

func (c *CLI) dragCommand() *cobra.Command {
	var (
		output string
		step   float64
	)
	cmd := &cobra.Command{
		Use:   "drag [figure.json|figure.yaml]",
		Short: "Move nodes interactively and watch links re-route",
		Long: `Move nodes interactively.

Pick a node with ↑/↓, press enter to pick it up, move it with h/j/k/l and
press enter again to drop it. Links re-route when the node is dropped.
Press w to write the current diagram as SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = derivePath(args[0], "svg")
			}
			return c.runDrag(cmd.Context(), args[0], output, step)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG written by the w key (default: <input>.svg)")
	cmd.Flags().Float64Var(&step, "step", defaultDragStep, "pointer step per key press")
	return cmd
}

func (c *CLI) runDrag(ctx context.Context, input, output string, step float64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	fig, err := graph.ReadFigureFile(input)
	if err != nil {
		return err
	}
	e := c.newEngine(cfg)
	defer e.Close()

	l, err := e.Update(ctx, *fig)
	if err != nil {
		return err
	}
	m := NewDragModel(ctx, e, l, output, step)
	m.write = func(path string, data []byte) error { return writeFile(path, data) }
	m.fontSize = cfg.Labels.FontSize
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// DragModel - Interactive node dragging
// =============================================================================

type layoutMsg struct {
	layout *graph.Layout
	err    error
}

type writtenMsg struct {
	path string
	err  error
}

// DragModel is the bubbletea model for the drag command.
type DragModel struct {
	ctx    context.Context
	engine *engine.Engine
	layout *graph.Layout
	output string
	step   float64

	Cursor   int
	Dragging bool
	Pointer  geom.Point
	origin   geom.Point
	Status   string

	fontSize float64
	write    func(path string, data []byte) error
}

// NewDragModel creates a model over an engine that already holds a layout.
func NewDragModel(ctx context.Context, e *engine.Engine, l *graph.Layout, output string, step float64) DragModel {
	if step <= 0 {
		step = defaultDragStep
	}
	return DragModel{ctx: ctx, engine: e, layout: l, output: output, step: step, fontSize: 12}
}

// Layout returns the last layout the model received.
func (m DragModel) Layout() *graph.Layout { return m.layout }

func (m DragModel) Init() tea.Cmd {
	return nil
}

func (m DragModel) current() (graph.NodeLayout, bool) {
	if m.layout == nil || m.Cursor >= len(m.layout.Nodes) {
		return graph.NodeLayout{}, false
	}
	return m.layout.Nodes[m.Cursor], true
}

func (m DragModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutMsg:
		if msg.err != nil {
			m.Status = msg.err.Error()
			return m, nil
		}
		if msg.layout != nil {
			m.layout = msg.layout
		}
		return m, nil
	case writtenMsg:
		if msg.err != nil {
			m.Status = msg.err.Error()
		} else {
			m.Status = "wrote " + msg.path
		}
		return m, nil
	case tea.KeyMsg:
		if m.Dragging {
			return m.updateDragging(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m DragModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.layout != nil && m.Cursor < len(m.layout.Nodes)-1 {
			m.Cursor++
		}
	case "s":
		if n, ok := m.current(); ok {
			id := n.ID
			if m.layout.Selected == id {
				id = ""
			}
			return m, m.call(func(ctx context.Context) (*graph.Layout, error) { return m.engine.Select(ctx, id) })
		}
	case "enter", " ":
		n, ok := m.current()
		if !ok {
			return m, nil
		}
		m.Dragging = true
		m.origin, m.Pointer = n.Center, n.Center
		m.Status = "dragging " + n.ID
		return m, m.call(func(ctx context.Context) (*graph.Layout, error) { return m.engine.DragStart(ctx, n.ID, n.Center) })
	case "w":
		return m, m.writeSVG()
	}
	return m, nil
}

func (m DragModel) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n, _ := m.current()
	var d geom.Point
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		d = geom.Pt(-m.step, 0)
	case "right", "l":
		d = geom.Pt(m.step, 0)
	case "up", "k":
		d = geom.Pt(0, -m.step)
	case "down", "j":
		d = geom.Pt(0, m.step)
	case "enter", " ", "esc":
		end := m.Pointer
		if msg.String() == "esc" {
			end = m.origin
		}
		m.Dragging = false
		m.Status = "dropped " + n.ID
		return m, m.call(func(ctx context.Context) (*graph.Layout, error) { return m.engine.DragEnd(ctx, n.ID, end) })
	default:
		return m, nil
	}
	m.Pointer = m.Pointer.Add(d)
	p := m.Pointer
	return m, m.call(func(ctx context.Context) (*graph.Layout, error) { return m.engine.DragMove(ctx, n.ID, p) })
}

func (m DragModel) call(fn func(context.Context) (*graph.Layout, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		l, err := fn(ctx)
		return layoutMsg{layout: l, err: err}
	}
}

func (m DragModel) writeSVG() tea.Cmd {
	l, path, write, size := m.layout, m.output, m.write, m.fontSize
	return func() tea.Msg {
		if write == nil {
			return writtenMsg{path: path, err: fmt.Errorf("no writer configured")}
		}
		return writtenMsg{path: path, err: write(path, sink.RenderSVG(l, sink.WithFontSize(size)))}
	}
}

func (m DragModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("orthonet drag"))
	b.WriteString("\n")
	if m.Dragging {
		b.WriteString(listDimStyle.Render("h/j/k/l move  ⏎ drop  esc cancel"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ choose  ⏎ pick up  s select  w write svg  q quit"))
	}
	b.WriteString("\n\n")

	if m.layout != nil {
		for i, n := range m.layout.Nodes {
			cursor := "  "
			style := listNormalStyle
			if i == m.Cursor {
				cursor = "▸ "
				style = listSelectedStyle
			}
			line := fmt.Sprintf("%s%-16s (%s, %s)", cursor, n.ID,
				router.FormatNumber(n.Center.X), router.FormatNumber(n.Center.Y))
			if n.ID == m.layout.Selected {
				line += " *"
			}
			if n.Pinned && i == m.Cursor && m.Dragging {
				line += listDimStyle.Render(fmt.Sprintf("  → (%s, %s)",
					router.FormatNumber(m.Pointer.X), router.FormatNumber(m.Pointer.Y)))
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("revision %d · %d links · %d bends",
			m.layout.Revision, len(m.layout.Routes), countBends(m.layout))))
		b.WriteString("\n")
	}
	if m.Status != "" {
		b.WriteString(StyleHighlight.Render(m.Status))
		b.WriteString("\n")
	}
	return b.String()
}
