package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"circle-scope.klederson.com/internal/config"
	"circle-scope.klederson.com/internal/logging"
	"circle-scope.klederson.com/internal/render"
	"circle-scope.klederson.com/internal/scope"
	"circle-scope.klederson.com/internal/source"
	"circle-scope.klederson.com/internal/ui"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

type mode int

const (
	modeNormal mode = iota
	modePickTopic
	modeCustomColor
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	scope *scope.Scope
	src   source.Source
	fit   *render.Fit
	hook  *logging.Hook
}

// AppModel is the root Bubble Tea model for the circle scope.
type AppModel struct {
	width  int
	height int

	cfg    config.Config
	cursor int
	mode   mode

	topics     []source.Topic
	pickAxis   scope.Axis
	pickItems  []string
	pickCursor int

	autoFit bool
	status  string
	isError bool

	dragging bool
	dragX    int

	keys  keyMap
	help  help.Model
	input textinput.Model

	shared *shared

	// Cached snapshot
	frame scope.Frame
}

// New creates the model around an already started source.
func New(src source.Source, cfg config.Config, palette scope.Palette, hook *logging.Hook) AppModel {
	sc := scope.New(src, scope.Options{
		Capacity:     cfg.Capacity,
		Window:       cfg.Window,
		ScaleFactor:  cfg.ScaleFactor,
		DarkenFactor: cfg.DarkenFactor,
		SliderStride: cfg.SliderStride,
		Palette:      palette,
	})

	in := textinput.New()
	in.Placeholder = "#RRGGBB"
	in.CharLimit = 7
	in.Prompt = "> "

	return AppModel{
		cfg:   cfg,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: in,
		shared: &shared{
			scope: sc,
			src:   src,
			fit:   render.NewFit(cfg.Extent),
			hook:  hook,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.discoverCmd(),
		m.waitForLog(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modePickTopic:
			return m.handlePickKey(msg)
		case modeCustomColor:
			return m.handleColorKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case TickMsg:
		m.frame = m.shared.scope.Frame()
		if m.autoFit {
			m.shared.fit.Update(m.frame)
		}
		return m, m.tickCmd()

	case TopicsMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("topic discovery: %v", msg.Err))
			return m, nil
		}
		m.topics = msg.Topics
		m.setInfo(fmt.Sprintf("%d topics", len(msg.Topics)))
		return m, nil

	case LogMsg:
		m.status = msg.Message
		m.isError = msg.Level <= log.ErrorLevel
		return m, m.waitForLog()
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sc := m.shared.scope
	scrub := sc.Scrub()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		sc.TogglePause()
		m.frame = sc.Frame()

	case key.Matches(msg, m.keys.Back):
		m.scrubBy(scrub.Drag(config.DragStep))

	case key.Matches(msg, m.keys.Forward):
		m.scrubBy(scrub.Drag(-config.DragStep))

	case key.Matches(msg, m.keys.SliderBack):
		m.scrubBy(scrub.Step(1))

	case key.Matches(msg, m.keys.SliderFwd):
		m.scrubBy(scrub.Step(-1))

	case key.Matches(msg, m.keys.Oldest):
		m.scrubBy(scrub.SetSlider(scrub.SliderMax()))

	case key.Matches(msg, m.keys.Newest):
		m.scrubBy(scrub.SetSlider(0))

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < sc.Rows().Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.AddRow):
		sc.AddRow()
		m.cursor = sc.Rows().Len() - 1

	case key.Matches(msg, m.keys.RemoveRow):
		id, ok := sc.Rows().At(m.cursor)
		if !ok {
			break
		}
		if err := sc.RemoveRow(id); err != nil {
			m.setError(err.Error())
			break
		}
		if m.cursor >= sc.Rows().Len() {
			m.cursor = sc.Rows().Len() - 1
		}

	case key.Matches(msg, m.keys.PickX):
		m.openPicker(scope.AxisX)

	case key.Matches(msg, m.keys.PickY):
		m.openPicker(scope.AxisY)

	case key.Matches(msg, m.keys.CycleColor):
		id, ok := sc.Rows().At(m.cursor)
		if !ok {
			m.setError(fmt.Sprintf("color row %d: %v", m.cursor+1, scope.ErrUnknownRow))
			break
		}
		if err := sc.CycleColor(id); err != nil {
			m.setError(err.Error())
		}

	case key.Matches(msg, m.keys.CustomColor):
		m.mode = modeCustomColor
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Refresh):
		m.setInfo("refreshing topics...")
		return m, m.discoverCmd()

	case key.Matches(msg, m.keys.AutoFit):
		m.autoFit = !m.autoFit
		if !m.autoFit {
			m.shared.fit.Extent = m.cfg.Extent
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *AppModel) openPicker(axis scope.Axis) {
	items := make([]string, 0, len(m.topics)+1)
	items = append(items, scope.NoTopic)
	for _, t := range m.topics {
		items = append(items, t.Name)
	}

	current := scope.NoTopic
	if id, ok := m.shared.scope.Rows().At(m.cursor); ok {
		p, _ := m.shared.scope.Rows().Get(id)
		current = p.Topic(axis)
	}

	m.pickCursor = 0
	for i, it := range items {
		if it == current {
			m.pickCursor = i
		}
	}
	m.pickAxis = axis
	m.pickItems = items
	m.mode = modePickTopic
}

func (m AppModel) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeNormal

	case "up", "k":
		if m.pickCursor > 0 {
			m.pickCursor--
		}

	case "down", "j":
		if m.pickCursor < len(m.pickItems)-1 {
			m.pickCursor++
		}

	case "enter":
		m.mode = modeNormal
		if m.pickCursor >= len(m.pickItems) {
			break
		}
		m.bindSelected(m.pickItems[m.pickCursor])

	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func (m *AppModel) bindSelected(topic string) {
	sc := m.shared.scope
	id, ok := sc.Rows().At(m.cursor)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DiscoverTimeout)
	defer cancel()

	if err := sc.Bind(ctx, id, m.pickAxis, topic); err != nil {
		m.setError(err.Error())
		return
	}
	m.setInfo(fmt.Sprintf("row %d %s <- %s", m.cursor+1, m.pickAxis, topic))
}

func (m AppModel) handleColorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil

	case "enter":
		m.mode = modeNormal
		m.input.Blur()
		id, ok := m.shared.scope.Rows().At(m.cursor)
		if !ok {
			return m, nil
		}
		err := m.shared.scope.SetCustomColor(id, m.input.Value())
		if err != nil && !errors.Is(err, scope.ErrColorPickCancelled) {
			m.setError(err.Error())
		}
		return m, nil

	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleMouse scrubs with a right-button drag and the wheel while paused.
func (m AppModel) handleMouse(msg tea.MouseMsg) AppModel {
	scrub := m.shared.scope.Scrub()

	switch {
	case msg.Button == tea.MouseButtonRight && msg.Action == tea.MouseActionPress:
		m.dragging = true
		m.dragX = msg.X

	case m.dragging && msg.Action == tea.MouseActionMotion:
		m.scrubBy(scrub.Drag((msg.X - m.dragX) * config.DragStep))
		m.dragX = msg.X

	case msg.Action == tea.MouseActionRelease:
		m.dragging = false

	case msg.Button == tea.MouseButtonWheelUp:
		m.scrubBy(scrub.Step(1))

	case msg.Button == tea.MouseButtonWheelDown:
		m.scrubBy(scrub.Step(-1))
	}
	return m
}

// scrubBy refreshes the cached frame after a scrub input was applied.
func (m *AppModel) scrubBy(applied bool) {
	if applied {
		m.frame = m.shared.scope.Frame()
	}
}

func (m *AppModel) setInfo(s string) {
	m.status = s
	m.isError = false
}

func (m *AppModel) setError(s string) {
	m.status = s
	m.isError = true
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing circle scope..."
	}

	sc := m.shared.scope
	scrub := sc.Scrub()

	menuH := 1
	statusH := 1
	timelineH := 1
	helpH := lineCount(m.help.View(m.keys))
	bodyH := m.height - menuH - statusH - timelineH - helpH
	if bodyH < 8 {
		bodyH = 8
	}

	scopeW := m.width * 2 / 3
	if scopeW < 30 {
		scopeW = 30
	}
	panelW := m.width - scopeW
	if panelW < 24 {
		panelW = 24
		scopeW = m.width - panelW
	}

	menuBar := ui.RenderMenuBar(m.width, m.shared.src.Name(), scrub.Paused())

	var rightPanel string
	switch m.mode {
	case modePickTopic:
		rightPanel = ui.RenderPicker(fmt.Sprintf("ROW %d %s TOPIC", m.cursor+1, m.pickAxis), m.pickItems, m.pickCursor, panelW, bodyH)
	case modeCustomColor:
		prompt := ui.RenderPrompt(fmt.Sprintf("ROW %d COLOR", m.cursor+1), m.input.View(), panelW)
		rightPanel = padLines(prompt, bodyH)
	default:
		rows, sel := m.rowViews()
		rightPanel = ui.RenderControlPanel(rows, sel, panelW, bodyH, m.cursor)
	}

	innerW := scopeW - 4
	innerH := bodyH - 4
	if innerW < 5 {
		innerW = 5
	}
	if innerH < 3 {
		innerH = 3
	}
	extent := m.extent()
	plot := render.Plot(innerW, innerH, m.frame, extent)
	legend := render.Legend(innerW, m.legendEntries())
	scopePanel := ui.RenderScopePanel(scopeW, bodyH, plot, legend, scrub.Paused())

	timeline := ui.RenderTimeline(m.width, scrub.Slider(), scrub.SliderMax(), scrub.Stride(), scrub.Paused())

	statusBar := ui.RenderStatusBar(m.width, ui.Status{
		Paused:  scrub.Paused(),
		Frame:   scrub.Frame(),
		Rows:    sc.Rows().Len(),
		Points:  m.frame.Len(),
		Extent:  extent,
		AutoFit: m.autoFit,
		Message: m.status,
		IsError: m.isError,
	})

	helpView := ui.StyleHelp.Render(m.help.View(m.keys))
	return ui.ComposeLayout(menuBar, scopePanel, rightPanel, timeline, helpView, statusBar)
}

func (m AppModel) extent() float64 {
	if m.autoFit {
		return m.shared.fit.Extent
	}
	return m.cfg.Extent
}

func (m AppModel) rowViews() ([]ui.RowView, ui.Selected) {
	sc := m.shared.scope
	palette := sc.Palette()
	views := make([]ui.RowView, 0, sc.Rows().Len())
	var sel ui.Selected

	i := 0
	sc.Rows().Each(func(_ scope.RowID, p *scope.Pair) {
		v := ui.RowView{
			X:     p.Topic(scope.AxisX),
			Y:     p.Topic(scope.AxisY),
			Color: p.Color(),
		}
		if idx := palette.IndexOf(v.Color); idx >= 0 {
			v.ColorName = palette.At(idx).Name
		}
		v.LastX, v.HasX = p.Last(scope.AxisX)
		v.LastY, v.HasY = p.Last(scope.AxisY)
		views = append(views, v)

		if i == m.cursor {
			sel.HistoryX = recent(p, scope.AxisX, m.width)
			sel.HistoryY = recent(p, scope.AxisY, m.width)
		}
		i++
	})
	return views, sel
}

func (m AppModel) legendEntries() []render.LegendEntry {
	var entries []render.LegendEntry
	i := 0
	m.shared.scope.Rows().Each(func(_ scope.RowID, p *scope.Pair) {
		i++
		if !p.Enabled() {
			return
		}
		entries = append(entries, render.LegendEntry{Label: fmt.Sprintf("row %d", i), Color: p.Color()})
	})
	return entries
}

// recent returns up to n of the newest samples on axis.
func recent(p *scope.Pair, axis scope.Axis, n int) []int {
	s := p.Series(axis)
	if s == nil || n <= 0 {
		return nil
	}
	buf := s.Buffer()
	if n > buf.Len() {
		n = buf.Len()
	}
	vals, err := buf.Window(buf.Len()-n, n)
	if err != nil {
		return nil
	}
	return vals
}

// Close releases every subscription and the source.
func (m AppModel) Close() {
	m.shutdown()
}

func (m AppModel) shutdown() {
	m.shared.scope.Close()
	if err := m.shared.src.Close(); err != nil {
		log.WithError(err).Warn("closing source")
	}
}

func (m AppModel) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m AppModel) discoverCmd() tea.Cmd {
	src := m.shared.src
	filter := source.Filter{Type: m.cfg.TopicType, Contains: m.cfg.TopicContains}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.DiscoverTimeout)
		defer cancel()

		topics, err := src.Topics(ctx, filter)
		if err != nil {
			log.WithError(err).Warn("topic discovery failed")
			return TopicsMsg{Err: err}
		}
		log.WithField("count", len(topics)).Info("topics discovered")
		return TopicsMsg{Topics: topics}
	}
}

func (m AppModel) waitForLog() tea.Cmd {
	if m.shared.hook == nil {
		return nil
	}
	ch := m.shared.hook.Entries()
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return LogMsg(e)
	}
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// padLines pads s with empty lines to height.
func padLines(s string, height int) string {
	if n := lineCount(s); n < height {
		s += strings.Repeat("\n", height-n)
	}
	return s
}
