// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal form: three labeled inputs, a
// search trigger, a spinner while the pipeline runs, and a scrollable
// results view with error banners above it.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/perplexity-search/internal/pipeline"
	"github.com/pdiddy/perplexity-search/internal/rank"
	"github.com/pdiddy/perplexity-search/internal/ui"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

const (
	Title    = "PubMed search by Maximum Perplexity"
	Subtitle = "The most surprising titles for your query"
	help     = "tab: next field • enter: search • pgup/pgdn: scroll • esc: quit"
)

const (
	fieldQuery = iota
	fieldLimit
	fieldEmail
	fieldCount
)

var fieldLabels = [fieldCount]string{"Query", "Max results (1-100)", "Email"}

// stageMsg carries a stage label and the channel to keep listening on.
type stageMsg struct {
	label  string
	labels ui.Labels
}

type runDoneMsg struct {
	report pipeline.Report
	notes  []string
	err    error
}

// Model is the bubbletea model for the form.
type Model struct {
	ctx    context.Context
	runner pipeline.Runner

	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model
	results viewport.Model

	running bool
	stage   string
	notes   []string
	err     error
	report  *pipeline.Report
	width   int
}

// New returns a form that runs runner on submit. The runner's Notifier and
// Busy are replaced per run. email pre-fills the contact field.
func New(ctx context.Context, runner pipeline.Runner, email string) Model {
	m := Model{
		ctx:     ctx,
		runner:  runner,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.ScoreStyle)),
		results: viewport.New(80, 15),
	}

	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = "> "
		in.Width = 50
		m.inputs[i] = in
	}
	m.inputs[fieldQuery].Placeholder = "e.g. CRISPR off-target effects"
	m.inputs[fieldQuery].CharLimit = 500
	m.inputs[fieldLimit].SetValue(strconv.Itoa(types.DefaultLimit))
	m.inputs[fieldLimit].CharLimit = 3
	m.inputs[fieldEmail].Placeholder = "you@example.org"
	m.inputs[fieldEmail].SetValue(email)
	m.inputs[fieldQuery].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.results.Width = msg.Width
		if h := msg.Height - 16; h > 3 {
			m.results.Height = h
		}
		return m, nil

	case stageMsg:
		if m.running {
			m.stage = msg.label
		}
		return m, waitForStage(msg.labels)

	case runDoneMsg:
		m.running = false
		m.stage = ""
		m.notes = msg.notes
		m.err = msg.err
		if msg.err == nil {
			rep := msg.report
			m.report = &rep
			m.results.SetContent(renderResults(rep))
			m.results.GotoTop()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// query reads the form into a Query.
func (m Model) query() (types.Query, error) {
	raw := strings.TrimSpace(m.inputs[fieldLimit].Value())
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return types.Query{}, fmt.Errorf("max results must be a whole number, got %q", raw)
	}
	q := types.Query{
		Term:    strings.TrimSpace(m.inputs[fieldQuery].Value()),
		Limit:   limit,
		Contact: types.Contact{Email: strings.TrimSpace(m.inputs[fieldEmail].Value())},
	}
	if err := q.Validate(); err != nil {
		return types.Query{}, err
	}
	return q, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	q, err := m.query()
	if err != nil {
		m.err = err
		return m, nil
	}

	m.running = true
	m.err = nil
	m.notes = nil
	m.report = nil
	m.results.SetContent("")

	labels := make(ui.Labels, 4)
	return m, tea.Batch(m.run(q, labels), waitForStage(labels), m.spinner.Tick)
}

// run executes the pipeline off the UI goroutine. labels is closed when
// the run ends.
func (m Model) run(q types.Query, labels ui.Labels) tea.Cmd {
	return func() tea.Msg {
		defer close(labels)
		rec := &ui.Recorder{}
		r := m.runner
		r.Notifier = rec
		r.Busy = labels
		rep, err := r.Run(m.ctx, q)
		return runDoneMsg{report: rep, notes: rec.Messages(), err: err}
	}
}

func waitForStage(labels ui.Labels) tea.Cmd {
	return func() tea.Msg {
		label, ok := <-labels
		if !ok {
			return nil
		}
		return stageMsg{label: label, labels: labels}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(Title))
	b.WriteString("\n")
	b.WriteString(ui.SubtitleStyle.Render(Subtitle))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		b.WriteString(ui.LabelStyle.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	for _, n := range m.notes {
		b.WriteString(ui.ErrorStyle.Render(n))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(ui.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	switch {
	case m.running:
		b.WriteString(m.spinner.View() + " " + m.stage + "\n")
	case m.report != nil:
		b.WriteString(m.results.View())
		b.WriteString("\n")
	}

	b.WriteString(ui.DescStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func renderResults(rep pipeline.Report) string {
	if len(rep.Ranked) == 0 {
		return ui.DescStyle.Render("No results.")
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(rank.Heading))
	b.WriteString("\n")
	for _, r := range rep.Ranked {
		fmt.Fprintf(&b, "%s %s\n", r.Title, ui.DescStyle.Render(fmt.Sprintf("(PMID: %s)", r.ID)))
		b.WriteString(ui.ScoreStyle.Render("Perplexity: " + rank.FormatScore(r.Perplexity)))
		b.WriteString("\n")
		b.WriteString(ui.DescStyle.Render(rank.Separator))
		b.WriteString("\n")
	}
	if rep.Skipped > 0 {
		fmt.Fprintf(&b, "%s\n", ui.DescStyle.Render(fmt.Sprintf("%d article(s) without a PMID or title were skipped.", rep.Skipped)))
	}
	return b.String()
}

// Run starts the form full-screen and blocks until the user quits.
func Run(ctx context.Context, runner pipeline.Runner, email string) error {
	p := tea.NewProgram(New(ctx, runner, email), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive form: %w", err)
	}
	return nil
}
