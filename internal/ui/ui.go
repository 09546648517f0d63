package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/usagemon/internal/config"
	"github.com/Dicklesworthstone/usagemon/internal/graph"
	"github.com/Dicklesworthstone/usagemon/internal/history"
	"github.com/Dicklesworthstone/usagemon/internal/model"
)

// Reader yields one blocking reading per call.
type Reader interface {
	ReadMetrics(ctx context.Context, interval time.Duration) model.Sample
}

// Model renders the scrolling graph as a full-screen dashboard. A new sample
// is requested only after the previous one has been applied.
type Model struct {
	cfg       config.Config
	reader    Reader
	hist      *history.History
	latest    model.Sample
	ctx       context.Context
	ctxCancel context.CancelFunc
	width     int
	height    int
	done      bool
}

func New(ctx context.Context, cfg config.Config, reader Reader) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		cfg:       cfg,
		reader:    reader,
		hist:      history.New(history.DefaultCapacity),
		ctx:       ctx,
		ctxCancel: cancel,
		width:     80,
		height:    24,
	}
}

// Messages
type sampleMsg model.Sample

func (m *Model) sampleCmd() tea.Cmd {
	ctx, reader, interval := m.ctx, m.reader, m.cfg.IntervalDuration()
	return func() tea.Msg {
		return sampleMsg(reader.ReadMetrics(ctx, interval))
	}
}

func (m *Model) Init() tea.Cmd { return m.sampleCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m.quit()
		}
	case sampleMsg:
		if m.done || m.ctx.Err() != nil {
			return m, nil
		}
		m.latest = model.Sample(msg)
		m.hist.Append(m.latest)
		if m.cfg.Samples > 0 && m.hist.Total() >= m.cfg.Samples {
			return m.quit()
		}
		return m, m.sampleCmd()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.done = true
	m.ctxCancel()
	return m, tea.Quit
}

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cpuStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	memStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	overlapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// chrome is the space taken by the card border, padding, header and footer.
const (
	chromeCols = 4
	chromeRows = 4
)

func paintCell(c graph.Cell, run string) string {
	switch c {
	case graph.CPUMark:
		return cpuStyle.Render(run)
	case graph.MemMark:
		return memStyle.Render(run)
	case graph.Overlap:
		return overlapStyle.Render(run)
	default:
		return run
	}
}

func (m *Model) View() string {
	header := titleStyle.Render("usagemon") + "  " + subtleStyle.Render(m.status())

	width, height := graph.Dimensions(m.width-chromeCols, m.height-chromeRows)
	cpu, mem := m.hist.Window(width)
	body := graph.Frame(graph.FrameInput{
		CPU:      cpu,
		Mem:      mem,
		Height:   height,
		Interval: m.cfg.Interval,
		Paint:    paintCell,
	})

	footer := subtleStyle.Render("q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, cardStyle.Render(body), footer)
}

func (m *Model) status() string {
	if m.hist.Total() == 0 {
		return "waiting for first sample…"
	}
	src := m.latest.Backend
	if src == "" {
		src = "no backend"
	}
	return fmt.Sprintf("sample %d · %s via %s", m.hist.Total(), m.latest.Timestamp.Format("15:04:05"), src)
}

// Count returns how many samples have been applied.
func (m *Model) Count() int { return m.hist.Total() }

// RunTUI starts the Bubble Tea program and blocks until it exits.
func RunTUI(ctx context.Context, cfg config.Config, reader Reader) error {
	prog := tea.NewProgram(New(ctx, cfg, reader), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
