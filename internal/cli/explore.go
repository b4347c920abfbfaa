package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/pipeline"
)

const (
	previewRows     = 14
	minPreviewCols  = 30
	previewMargin   = 14 // y-axis labels and border
	sliderBarWidth  = 24
	bigStepMultiple = 10
)

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Adjust the model with terminal sliders",
		Long: `Adjust the model with terminal sliders.

The H and α sliders are enabled by the Hypertrophia checkbox, the VC slider
by the Vasoconstriction checkbox. A disabled slider keeps its value and still
feeds the model. Press w to write the current chart in the configured
formats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := newExploreModel(ctx, runner, c.config().PipelineOptions(), output)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(exploreModel); ok {
				for _, p := range fm.written {
					printFile(p)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or base path for w")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// Key Bindings
// =============================================================================

type exploreKeys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	BigLeft  key.Binding
	BigRight key.Binding
	Toggle   key.Binding
	Write    key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newExploreKeys() exploreKeys {
	return exploreKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		BigLeft:  key.NewBinding(key.WithKeys("shift+left", "pgdown"), key.WithHelp("pgdn", "decrease ×10")),
		BigRight: key.NewBinding(key.WithKeys("shift+right", "pgup"), key.WithHelp("pgup", "increase ×10")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "toggle")),
		Write:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write chart")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Toggle, k.Write, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Left, k.Right, k.BigLeft, k.BigRight},
		{k.Write, k.Reset, k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

var (
	exploreFocusStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreLabelStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	exploreDisabledStyle = lipgloss.NewStyle().Foreground(colorDim)
	exploreBarStyle      = lipgloss.NewStyle().Foreground(colorCyan)
	explorePreviewStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// Focusable controls: the three sliders in [model.Sliders] order, then the
// two checkboxes.
const (
	focusHypertrophia = iota + 3
	focusVasoconstriction
	focusCount
)

// exploreModel is the bubbletea model behind `wlrsim explore`.
type exploreModel struct {
	ctx     context.Context
	preview *pipeline.Runner // uncached, txt only
	writer  *pipeline.Runner
	opts    pipeline.Options
	output  string

	focus int
	keys  exploreKeys
	help  help.Model
	width int

	chart     string
	status    string
	statusErr bool
	written   []string
}

// newExploreModel creates the explorer and renders the first preview.
func newExploreModel(ctx context.Context, writer *pipeline.Runner, opts pipeline.Options, output string) exploreModel {
	quiet := discardLogger()
	opts.Logger = quiet
	m := exploreModel{
		ctx:     ctx,
		preview: pipeline.NewRunner(nil, nil, quiet),
		writer:  writer,
		opts:    opts,
		output:  output,
		keys:    newExploreKeys(),
		help:    help.New(),
		width:   80,
	}
	m.refresh()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.refresh()
	case tea.KeyMsg:
		m.status, m.statusErr = "", false
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.focus = (m.focus + focusCount - 1) % focusCount
		case key.Matches(msg, m.keys.Down):
			m.focus = (m.focus + 1) % focusCount
		case key.Matches(msg, m.keys.Left):
			m.move(-1)
		case key.Matches(msg, m.keys.Right):
			m.move(1)
		case key.Matches(msg, m.keys.BigLeft):
			m.move(-bigStepMultiple)
		case key.Matches(msg, m.keys.BigRight):
			m.move(bigStepMultiple)
		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
		case key.Matches(msg, m.keys.Reset):
			m.opts.Params = model.DefaultParams()
			m.refresh()
		case key.Matches(msg, m.keys.Write):
			m.write()
		}
	}
	return m, nil
}

// move shifts the focused slider by n steps. Disabled sliders keep their
// value.
func (m *exploreModel) move(n int) {
	if m.focus >= len(model.Sliders) {
		return
	}
	s := model.Sliders[m.focus]
	if !m.opts.Params.Controls().Enabled(s.Name) {
		m.setStatus(fmt.Sprintf("%s is disabled", s.Label), true)
		return
	}
	next := s.Move(m.opts.Params.Value(s.Name), n)
	if next == m.opts.Params.Value(s.Name) {
		return
	}
	m.opts.Params = m.opts.Params.With(s.Name, next)
	m.refresh()
}

// toggle flips the focused checkbox.
func (m *exploreModel) toggle() {
	switch m.focus {
	case focusHypertrophia:
		m.opts.Params.Hypertrophia = !m.opts.Params.Hypertrophia
	case focusVasoconstriction:
		m.opts.Params.Vasoconstriction = !m.opts.Params.Vasoconstriction
	default:
		return
	}
	m.refresh()
}

// refresh re-runs the pipeline for the terminal preview.
func (m *exploreModel) refresh() {
	opts := m.opts
	opts.Formats = []string{pipeline.FormatText}
	opts.TextWidth = max(minPreviewCols, m.width-previewMargin)
	opts.TextHeight = previewRows
	opts.Color = true

	res, err := m.preview.Execute(m.ctx, opts)
	if err != nil {
		m.chart = ""
		m.setStatus(errors.UserMessage(err), true)
		return
	}
	m.chart = strings.TrimRight(string(res.Artifacts[pipeline.FormatText]), "\n")
	switch {
	case res.Stats.Clamped > 0:
		m.setStatus(fmt.Sprintf("%d points clamped (negative radicand)", res.Stats.Clamped), true)
	case !res.Figure.Annotations.HasIntersection:
		m.setStatus("trend lines are parallel; ω undefined", true)
	}
}

// write renders the current parameters in every configured file format.
func (m *exploreModel) write() {
	opts := m.opts
	opts.Formats = nil
	for _, f := range m.opts.Formats {
		if f != pipeline.FormatText {
			opts.Formats = append(opts.Formats, f)
		}
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}

	res, err := m.writer.Execute(m.ctx, opts)
	if err != nil {
		m.setStatus(errors.UserMessage(err), true)
		return
	}
	var paths []string
	for _, f := range opts.Formats {
		path := outputPath(m.output, f, len(opts.Formats))
		if err := writeArtifact(path, res.Artifacts[f]); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		paths = append(paths, path)
	}
	m.written = append(m.written, paths...)
	m.setStatus("wrote "+strings.Join(paths, ", "), false)
}

func (m *exploreModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("wlrsim explore"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.opts.Params.String()))
	b.WriteString("\n\n")

	controls := m.opts.Params.Controls()
	for i, s := range model.Sliders {
		b.WriteString(m.sliderLine(i, s, controls.Enabled(s.Name)))
		b.WriteString("\n")
	}
	b.WriteString(m.checkboxLine(focusHypertrophia, "Hypertrophia", m.opts.Params.Hypertrophia))
	b.WriteString("\n")
	b.WriteString(m.checkboxLine(focusVasoconstriction, "Vasoconstriction", m.opts.Params.Vasoconstriction))
	b.WriteString("\n\n")

	if m.chart != "" {
		b.WriteString(explorePreviewStyle.Render(m.chart))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := StyleSuccess
		if m.statusErr {
			style = StyleWarning
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m exploreModel) sliderLine(i int, s model.Slider, enabled bool) string {
	v := m.opts.Params.Value(s.Name)
	filled := 0
	if s.Max > s.Min {
		filled = int((v - s.Min) / (s.Max - s.Min) * sliderBarWidth)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", sliderBarWidth-filled)

	label := fmt.Sprintf("%-44s", s.Label)
	value := fmt.Sprintf("%6.2f", v)
	cursor := "  "
	if m.focus == i {
		cursor = "▸ "
	}

	if !enabled {
		return exploreDisabledStyle.Render(cursor + label + " " + bar + " " + value)
	}
	labelStyle := exploreLabelStyle
	if m.focus == i {
		labelStyle = exploreFocusStyle
	}
	return cursor + labelStyle.Render(label) + " " + exploreBarStyle.Render(bar) + " " + StyleValue.Render(value)
}

func (m exploreModel) checkboxLine(i int, label string, checked bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	cursor := "  "
	style := exploreLabelStyle
	if m.focus == i {
		cursor = "▸ "
		style = exploreFocusStyle
	}
	return cursor + style.Render(box+" "+label)
}
