package tui

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/codeinsight/internal/models"
)

// mode represents the current UI interaction mode.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilterExt
)

const defaultTableHeight = 15

// Model is the top-level Bubble Tea model for the browse TUI.
type Model struct {
	// Data (immutable after init)
	summary  *models.Summary
	trend    *models.TrendSummary
	insights []string
	allFiles []models.FileStat

	// UI state
	table         table.Model
	searchInput   textinput.Model
	filteredFiles []models.FileStat
	filters       filterState
	sortBy        sortField
	mode          mode
	extChoices    []string
	extCursor     int
	width         int
	height        int
	statusMsg     string
	// clipboard is captured here for testing instead of writing to stdout
	clipboard string
}

// New creates a new TUI model from a summary. trend may be nil.
func New(summary *models.Summary, trend *models.TrendSummary) Model {
	insights := make([]string, 0, len(summary.Insights))
	for _, is := range summary.Insights {
		insights = append(insights, is.Name)
	}

	files := make([]models.FileStat, len(summary.Files))
	copy(files, summary.Files)

	sortFiles(files, sortByCode, insights)
	t := newTable(tableColumns(insights), buildRows(files, insights), defaultTableHeight)

	ti := textinput.New()
	ti.Placeholder = "search path..."
	ti.CharLimit = 128

	return Model{
		summary:       summary,
		trend:         trend,
		insights:      insights,
		allFiles:      files,
		filteredFiles: files,
		table:         t,
		searchInput:   ti,
		sortBy:        sortByCode,
		mode:          modeNormal,
		extChoices:    uniqueExts(files),
		width:         80,
		height:        24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		tableH := msg.Height - headerHeight - detailHeight - 3
		if tableH < 3 {
			tableH = 3
		}
		m.table.SetHeight(tableH)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	default:
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilterExt:
		return m.handleFilterExtKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.FilterExt):
		m.mode = modeFilterExt
		m.extCursor = 0
		return m, nil
	case key.Matches(msg, keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortField(sortFieldCount(m.insights))
		m.rebuildTable()
		m.statusMsg = fmt.Sprintf("Sort: %s", sortFieldName(m.sortBy, m.insights))
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copySelectedPath()
		return m, nil
	case key.Matches(msg, keys.ClearFilter):
		m.filters = filterState{}
		m.statusMsg = ""
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filters.SearchText = m.searchInput.Value()
		m.mode = modeNormal
		m.searchInput.Blur()
		m.rebuildTable()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterExtKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.extCursor > 0 {
			m.extCursor--
		}
	case "down", "j":
		if m.extCursor < len(m.extChoices) {
			m.extCursor++
		}
	case "enter":
		if m.extCursor == 0 {
			m.filters.Ext = ""
		} else if m.extCursor <= len(m.extChoices) {
			m.filters.Ext = m.extChoices[m.extCursor-1]
		}
		m.mode = modeNormal
		m.rebuildTable()
		if m.filters.Ext != "" {
			m.statusMsg = fmt.Sprintf("Filter: %s", m.filters.Ext)
		} else {
			m.statusMsg = ""
		}
	case "esc":
		m.mode = modeNormal
	}
	return m, nil
}

func (m *Model) rebuildTable() {
	filtered := applyFilters(m.allFiles, m.filters)
	sortFiles(filtered, m.sortBy, m.insights)
	m.filteredFiles = filtered
	m.table.SetRows(buildRows(filtered, m.insights))
}

func (m *Model) selectedFile() *models.FileStat {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.filteredFiles) {
		return nil
	}
	return &m.filteredFiles[cursor]
}

// copySelectedPath writes the selected file path to clipboard via OSC 52.
func (m *Model) copySelectedPath() {
	file := m.selectedFile()
	if file == nil {
		m.statusMsg = "Nothing to copy"
		return
	}
	m.clipboard = file.Path
	m.statusMsg = "Copied!"
	// OSC 52 clipboard escape: works in most modern terminals
	fmt.Printf("\033]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(file.Path)))
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m.summary, m.trend, m.width))
	b.WriteString("\n")

	// Search bar overlay
	if m.mode == modeSearch {
		b.WriteString(styleSearchPrompt.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	// Extension filter overlay
	if m.mode == modeFilterExt {
		b.WriteString(m.renderExtFilter())
		b.WriteString("\n")
	}

	// Table
	b.WriteString(m.table.View())
	b.WriteString("\n")

	// Detail panel
	b.WriteString(renderDetail(m.selectedFile(), m.insights, m.width))
	b.WriteString("\n")

	// Footer
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderExtFilter() string {
	var b strings.Builder
	b.WriteString("Filter by extension:\n")

	options := append([]string{"All"}, m.extChoices...)
	for i, opt := range options {
		cursor := "  "
		if i == m.extCursor {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, opt))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	left := "q:quit  /:search  e:ext  s:sort  c:copy  esc:clear"
	right := fmt.Sprintf("%d/%d files", len(m.filteredFiles), len(m.allFiles))

	if m.statusMsg != "" {
		right = m.statusMsg + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleFooter.Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the Bubble Tea program. Called from the browse command.
func Run(summary *models.Summary, trend *models.TrendSummary) error {
	m := New(summary, trend)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
