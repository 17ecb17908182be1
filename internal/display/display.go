// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] draws the current scene (one box per option column, the
// focused one highlighted), a status bar with progress, and key help. Key
// presses are forwarded to the drill on [UI.Keys]; scenes come back in
// through [UI.Render], which is safe to call from any goroutine.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()).
			Padding(0, 1).
			Foreground(lipgloss.Color("#a1a1aa"))

	focusedCellStyle = cellStyle.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#bae6fd")).
				Foreground(lipgloss.Color("#f4f4f5")).
				Bold(true)

	endStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true).
			Padding(1, 2)
)

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Render] and read [UI.Keys] once [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	keys    chan domain.Key
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		keys:    make(chan domain.Key, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Keys returns drill key presses. Closed when Run returns.
func (u *UI) Keys() <-chan domain.Key { return u.keys }

// Render shows scene. Implements domain.Renderer. Does nothing once the
// program has exited.
func (u *UI) Render(scene domain.Scene) {
	if u.program == nil || u.done.Load() {
		return
	}
	u.program.Send(sceneMsg(scene))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	u.program = tea.NewProgram(newModel(u.keys, u.readyCh))
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.keys)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type sceneMsg domain.Scene

type model struct {
	keys    chan<- domain.Key
	readyCh chan struct{}
	keyMap  keyMap
	help    help.Model
	scene   domain.Scene
	width   int
}

func newModel(keys chan<- domain.Key, ready chan struct{}) model {
	return model{
		keys:    keys,
		readyCh: ready,
		keyMap:  defaultKeyMap(),
		help:    help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		signalReady(m.readyCh),
		tea.SetWindowTitle("phrasedrill"),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.scene.End {
			return m, tea.Quit
		}
		if msg.String() == "?" {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if k := m.keyMap.drillKey(msg); k != domain.KeyUnknown {
			m.send(k)
			return m, nil
		}
		if m.keyMap.quits(msg) {
			return m, tea.Quit
		}
		return m, nil

	case sceneMsg:
		m.scene = domain.Scene(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// send forwards k without blocking the event loop. Presses are dropped
// when the drill is far behind.
func (m model) send(k domain.Key) {
	select {
	case m.keys <- k:
	default:
	}
}

func (m model) View() string {
	if m.scene.End {
		return endStyle.Render(fmt.Sprintf("¡Muy bien! All %d levels done. Press any key to exit.", m.scene.Levels)) + "\n"
	}

	var b strings.Builder
	if m.scene.Title != "" {
		b.WriteString(titleStyle.Render("  " + m.scene.Title))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderCells())
	b.WriteByte('\n')
	if m.scene.Hint != "" {
		b.WriteString(hintStyle.Render("  " + m.scene.Hint))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.renderBar())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keyMap))
	return b.String()
}

func (m model) renderCells() string {
	boxes := make([]string, len(m.scene.Cells))
	for i, c := range m.scene.Cells {
		style := cellStyle
		if c.Focused {
			style = focusedCellStyle
		}
		boxes[i] = style.Render(c.Text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m model) renderBar() string {
	parts := []string{
		labelStyle.Render(fmt.Sprintf("Level %d/%d", m.scene.Level, m.scene.Levels)),
	}
	if m.scene.Misses > 0 {
		parts = append(parts, missStyle.Render(fmt.Sprintf("%d missed", m.scene.Misses)))
	}
	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}
