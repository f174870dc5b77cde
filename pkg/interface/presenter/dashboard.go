package presenter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Runner runs one tool against a target and returns its report
type Runner interface {
	Run(ctx context.Context, kind entity.TargetKind, value string) (any, error)
}

type tool struct {
	kind        entity.TargetKind
	title       string
	placeholder string
}

var tools = []tool{
	{entity.KindIP, "IP Lookup", "8.8.8.8"},
	{entity.KindDomain, "Domain Analyzer", "example.com"},
	{entity.KindEmail, "Email Validator", "user@example.com"},
	{entity.KindUsername, "Username Search", "octocat"},
	{entity.KindPhone, "Phone Lookup", "+1 555 123 4567"},
}

type state int

const (
	stateMenu state = iota
	stateInput
	stateRunning
	stateResult
)

const metricsWidth = 34

// Dashboard is the interactive TUI: a tool menu, an input form and a
// scrollable result panel next to the lookup counters
type Dashboard struct {
	ctx    context.Context
	runner Runner

	state    state
	cursor   int
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	notice   string

	metrics   *entity.Metrics
	width     int
	height    int
	startTime time.Time
	mu        sync.RWMutex
}

type tickMsg time.Time

type resultMsg struct {
	report any
	err    error
}

// NewDashboard creates a new TUI dashboard
func NewDashboard(ctx context.Context, runner Runner) *Dashboard {
	input := textinput.New()
	input.CharLimit = 256
	input.Prompt = "› "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return &Dashboard{
		ctx:       ctx,
		runner:    runner,
		input:     input,
		spinner:   s,
		viewport:  viewport.New(0, 0),
		metrics:   &entity.Metrics{},
		startTime: time.Now(),
	}
}

// Init initializes the dashboard
func (d *Dashboard) Init() tea.Cmd {
	return tickCmd()
}

// Update handles dashboard updates
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return d, tea.Quit
		}
		return d.handleKey(msg)

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.viewport.Width = max(d.width-metricsWidth-4, 20)
		d.viewport.Height = max(d.height-8, 5)
		d.input.Width = max(d.viewport.Width-4, 10)
		return d, nil

	case spinner.TickMsg:
		if d.state != stateRunning {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case resultMsg:
		d.showResult(msg)
		return d, nil

	case tickMsg:
		// Continue ticking to keep the counters updating
		return d, tickCmd()
	}

	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch d.state {
	case stateMenu:
		switch msg.String() {
		case "q", "Q":
			return d, tea.Quit
		case "up", "k":
			if d.cursor > 0 {
				d.cursor--
			}
		case "down", "j":
			if d.cursor < len(tools)-1 {
				d.cursor++
			}
		case "1", "2", "3", "4", "5":
			d.cursor = int(msg.Runes[0] - '1')
			return d, d.openForm()
		case "enter":
			return d, d.openForm()
		}
		return d, nil

	case stateInput:
		switch msg.String() {
		case "esc":
			d.state = stateMenu
			d.input.Blur()
			return d, nil
		case "enter":
			value := strings.TrimSpace(d.input.Value())
			if value == "" {
				d.notice = "Please enter a value"
				return d, nil
			}
			d.notice = ""
			d.state = stateRunning
			d.input.Blur()
			return d, tea.Batch(d.spinner.Tick, d.lookup(tools[d.cursor].kind, value))
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd

	case stateResult:
		switch msg.String() {
		case "q", "Q":
			return d, tea.Quit
		case "esc":
			d.state = stateMenu
			return d, nil
		case "n", "enter":
			return d, d.openForm()
		}
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return d, cmd
	}

	return d, nil
}

func (d *Dashboard) openForm() tea.Cmd {
	d.state = stateInput
	d.notice = ""
	d.input.Reset()
	d.input.Placeholder = tools[d.cursor].placeholder
	return d.input.Focus()
}

// lookup runs the selected tool off the UI loop
func (d *Dashboard) lookup(kind entity.TargetKind, value string) tea.Cmd {
	return func() tea.Msg {
		report, err := d.runner.Run(d.ctx, kind, value)
		return resultMsg{report: report, err: err}
	}
}

func (d *Dashboard) showResult(msg resultMsg) {
	d.state = stateResult
	if msg.err != nil {
		d.viewport.SetContent(failStyle.Render("Error: " + msg.err.Error()))
	} else {
		d.viewport.SetContent(RenderReport(msg.report))
	}
	d.viewport.GotoTop()
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Initializing..."
	}

	var body string
	switch d.state {
	case stateMenu:
		body = d.renderMenu()
	case stateInput:
		body = d.renderForm()
	case stateRunning:
		body = fmt.Sprintf("%s Running %s...", d.spinner.View(), tools[d.cursor].title)
	case stateResult:
		body = d.viewport.View()
	}

	main := lipgloss.NewStyle().
		Width(d.width - metricsWidth - 2).
		Padding(1, 2).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, main, d.renderMetrics()),
		d.renderFooter(),
	)
}

// OnMetricsUpdate implements application.MetricsObserver
func (d *Dashboard) OnMetricsUpdate(metrics *entity.Metrics) {
	d.mu.Lock()
	d.metrics = metrics
	d.mu.Unlock()
}

func (d *Dashboard) renderHeader() string {
	timeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999"))

	elapsed := time.Since(d.startTime).Round(time.Second)
	now := time.Now().Format("15:04:05")

	title := titleStyle.Padding(0, 1).Render("🔎 OSINT Lab")
	timeInfo := timeStyle.Render(fmt.Sprintf(" Running: %s | Time: %s", elapsed, now))

	return title + timeInfo
}

func (d *Dashboard) renderMenu() string {
	lines := []string{"Select a tool", ""}
	for i, t := range tools {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == d.cursor {
			cursor = "▸ "
			style = style.Bold(true).Foreground(lipgloss.Color("#7D56F4"))
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%d. %s", cursor, i+1, t.title)))
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) renderForm() string {
	lines := []string{
		titleStyle.Render(tools[d.cursor].title),
		"",
		d.input.View(),
	}
	if d.notice != "" {
		lines = append(lines, "", failStyle.Render(d.notice))
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) renderMetrics() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := []string{
		"📊 Lookups",
		"",
		fmt.Sprintf("Total:        %d", d.metrics.Lookups),
		fmt.Sprintf("Failed:       %d", d.metrics.Failures),
		"",
	}
	for _, kind := range []entity.LookupKind{
		entity.LookupGeolocation, entity.LookupHostname, entity.LookupDNS, entity.LookupWhois,
	} {
		stats = append(stats, fmt.Sprintf("%-13s %d/%d",
			string(kind)+":", d.metrics.ByKind[kind]-d.metrics.FailuresByKind[kind], d.metrics.ByKind[kind]))
	}
	if d.metrics.LastQuery != "" {
		stats = append(stats, "", "Last: "+d.metrics.LastQuery)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 2).
		Width(metricsWidth - 2).
		Render(strings.Join(stats, "\n"))
}

func (d *Dashboard) renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Padding(1, 0)

	var help string
	switch d.state {
	case stateMenu:
		help = "↑/↓ select • enter open • 1-5 jump • q quit"
	case stateInput:
		help = "enter run • esc back • ctrl+c quit"
	case stateRunning:
		help = "ctrl+c quit"
	case stateResult:
		help = "↑/↓ scroll • n new query • esc menu • q quit"
	}
	return footerStyle.Render(help)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*500, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
