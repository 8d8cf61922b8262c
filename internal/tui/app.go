package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/moodboard/internal/board"
	"github.com/jask/moodboard/internal/cloudinary"
	"github.com/jask/moodboard/internal/service"
)

// Loader refreshes the store the viewer reads from.
type Loader interface {
	Load(ctx context.Context) (service.Report, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (service.Report, error)

func (f LoaderFunc) Load(ctx context.Context) (service.Report, error) { return f(ctx) }

// App is the board viewer.
type App struct {
	ctx    context.Context
	store  *board.Store
	loader Loader

	boards  []board.Board
	cursor  int
	media   cloudinary.MediaType
	loading bool
	status  string
	last    *service.Report
}

// New returns a viewer over store. A nil loader disables reloading.
func New(ctx context.Context, store *board.Store, loader Loader) *App {
	return &App{
		ctx:    ctx,
		store:  store,
		loader: loader,
		boards: store.Boards(),
		media:  cloudinary.Image,
	}
}

func (a *App) Init() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	a.loading = true
	a.status = "loading..."
	return tea.Batch(a.loadCmd(), refreshCmd())
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		rep, err := a.loader.Load(a.ctx)
		return loadDoneMsg{report: rep, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case "down", "j":
			if a.cursor < len(a.boards)-1 {
				a.cursor++
			}
		case "tab":
			if a.media == cloudinary.Image {
				a.media = cloudinary.Video
			} else {
				a.media = cloudinary.Image
			}
		case "r":
			if a.loader != nil && !a.loading {
				a.loading = true
				a.status = "reloading..."
				return a, tea.Batch(a.loadCmd(), refreshCmd())
			}
		}
	case refreshMsg:
		if !a.loading {
			return a, nil
		}
		a.boards = a.store.Boards()
		return a, refreshCmd()
	case loadDoneMsg:
		a.loading = false
		a.boards = a.store.Boards()
		a.last = &m.report
		if m.err != nil {
			a.status = "error: " + m.err.Error()
		} else {
			a.status = fmt.Sprintf("loaded %d boards in %v", len(m.report.Boards), m.report.Finished.Sub(m.report.Started).Round(time.Millisecond))
		}
	}
	return a, nil
}

func (a *App) View() string {
	left := a.renderBoards()
	right := a.renderResources()
	body := lipgloss.JoinHorizontal(lipgloss.Top, paneStyle.Render(left), paneStyle.Render(right))
	out := titleStyle.Render("Moodboard") + "\n" + body + "\n" + helpStyle.Render("[↑/↓] Board  [tab] Images/Videos  [r] Reload  [q] Quit")
	if a.status != "" {
		out += "\n" + statusStyle.Render(a.status)
	}
	return out
}

// refreshInterval is how often board counts are re-read while a load runs.
const refreshInterval = 250 * time.Millisecond

type refreshMsg struct{}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

type loadDoneMsg struct {
	report service.Report
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (a *App) renderBoards() string {
	out := titleStyle.Render("Boards") + "\n"
	for i, b := range a.boards {
		marker := " "
		if i == a.cursor {
			marker = "▶"
		}
		line := fmt.Sprintf("%s %-12s %3d img %3d vid", marker, b.Name, len(b.Images), len(b.Videos))
		if err := a.boardErr(b.Name); err != nil {
			line = errStyle.Render(line + " !")
		}
		out += line + "\n"
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) renderResources() string {
	if len(a.boards) == 0 {
		return "No boards."
	}
	b := a.boards[a.cursor]
	list, label := b.Images, "Images"
	if a.media == cloudinary.Video {
		list, label = b.Videos, "Videos"
	}
	out := titleStyle.Render(fmt.Sprintf("%s / %s", b.Name, label)) + "\n"
	if err := a.boardErr(b.Name); err != nil {
		out += errStyle.Render(err.Error()) + "\n"
	}
	if len(list) == 0 {
		return out + "(none)"
	}
	for _, r := range list {
		out += resourceLine(r) + "\n"
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) boardErr(name string) error {
	if a.last == nil {
		return nil
	}
	for _, br := range a.last.Boards {
		if br.Name == name {
			return br.Err
		}
	}
	return nil
}

func resourceLine(r cloudinary.Resource) string {
	id := r.PublicID()
	if id == "" {
		id = "<unnamed>"
	}
	line := "- " + id
	if r.Format() != "" {
		line += "." + r.Format()
	}
	if r.Width() > 0 && r.Height() > 0 {
		line += fmt.Sprintf("  %dx%d", r.Width(), r.Height())
	}
	return line
}
