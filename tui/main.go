package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	accentColor = lipgloss.Color("#ff79c6")
	mutedColor  = lipgloss.Color("#8b8d98")
	errColor    = lipgloss.Color("#ff5c57")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	errStyle     = lipgloss.NewStyle().Foreground(errColor)
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).Padding(0, 1).Margin(0)
)

type state int

const (
	stateInspecting state = iota
	stateChoosing
	stateDownloading
	stateDone
	stateFailed
)

type inspectMsg struct{ resp *InspectResponse }

type startedMsg struct{ task *Task }

type taskMsg struct{ task *Task }

type errMsg struct{ err error }

func inspect(api *APIClient, url string) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.Inspect(url)
		if err != nil {
			return errMsg{err}
		}
		return inspectMsg{resp}
	}
}

func startDownload(api *APIClient, url, quality string) tea.Cmd {
	return func() tea.Msg {
		task, err := api.StartDownload(url, quality)
		if err != nil {
			return errMsg{err}
		}
		return startedMsg{task}
	}
}

func pollTask(api *APIClient, id int64) tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		task, err := api.TaskStatus(id)
		if err != nil {
			return errMsg{err}
		}
		return taskMsg{task}
	})
}

type model struct {
	api   *APIClient
	url   string
	state state
	width int

	info      *InspectResponse
	qualities table.Model

	progressBar *ProgressBar
	task        *Task

	err error
}

func initialModel(api *APIClient, url string) model {
	columns := []table.Column{
		{Title: "Quality", Width: 14},
		{Title: "Height", Width: 8},
		{Title: "Description", Width: 34},
	}

	return model{
		api:         api,
		url:         url,
		state:       stateInspecting,
		width:       80,
		qualities:   table.New(table.WithColumns(columns), table.WithFocused(true)),
		progressBar: NewProgressBar(),
	}
}

func (m model) Init() tea.Cmd {
	return inspect(m.api, m.url)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case inspectMsg:
		m.info = msg.resp
		rows := make([]table.Row, 0, len(msg.resp.Qualities))
		for _, q := range msg.resp.Qualities {
			height := "-"
			if q.Height > 0 {
				height = fmt.Sprintf("%dp", q.Height)
			}
			rows = append(rows, table.Row{q.Name, height, q.Description})
		}
		m.qualities.SetRows(rows)
		m.qualities.SetHeight(len(rows) + 1)
		m.state = stateChoosing

	case startedMsg:
		m.task = msg.task
		m.state = stateDownloading
		return m, pollTask(m.api, m.task.ID)

	case taskMsg:
		m.task = msg.task
		m.progressBar.Update(m.width, m.task.Progress)
		switch m.task.Status {
		case "Complete":
			m.state = stateDone
			return m, tea.Quit
		case "Failed":
			m.state = stateFailed
			return m, tea.Quit
		}
		return m, pollTask(m.api, m.task.ID)

	case errMsg:
		m.err = msg.err
		m.state = stateFailed
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.state == stateChoosing {
				selected := m.qualities.Cursor()
				if selected >= 0 && selected < len(m.info.Qualities) {
					return m, startDownload(m.api, m.url, m.info.Qualities[selected].Name)
				}
			}
		}
	}

	var cmd tea.Cmd
	if m.state == stateChoosing {
		m.qualities, cmd = m.qualities.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	header := titleStyle.Render("tubedash") + mutedStyle.Render("  "+m.url) + "\n"

	switch m.state {
	case stateInspecting:
		return header + mutedStyle.Render("Fetching video info...") + "\n"

	case stateChoosing:
		info := fmt.Sprintf("%s\n%s\n",
			m.info.Metadata.Title,
			mutedStyle.Render(fmt.Sprintf("%s · %s", m.info.Metadata.Uploader, formatDuration(m.info.Metadata.Duration))))
		return header + info + sectionStyle.Render(m.qualities.View()) + "\n" +
			mutedStyle.Render("↑/↓ select · enter download · q quit") + "\n"

	case stateDownloading:
		status := m.task.Status
		if m.task.Speed != "" {
			status += "  " + m.task.Speed
		}
		if m.task.ETA != "" {
			status += "  ETA " + m.task.ETA
		}
		return header + m.progressBar.View() + "\n" + mutedStyle.Render(status) + "\n"

	case stateDone:
		return header + "Done: " + m.task.FilePath + "\n"

	default:
		if m.err != nil {
			return header + errStyle.Render("Error: "+m.err.Error()) + "\n"
		}
		if m.task != nil && m.task.Error != "" {
			return header + errStyle.Render("Failed: "+m.task.Error) + "\n"
		}
		return header + errStyle.Render("Failed") + "\n"
	}
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "unknown length"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "tubedash server address")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: tubedash-tui [options] URL\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Downloads one video through a running tubedash server.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	api := NewAPIClient(*addr)
	p := tea.NewProgram(initialModel(api, flag.Arg(0)))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
