package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juju/loggo"

	"github.com/jask/moodboard/internal/board"
	"github.com/jask/moodboard/internal/cloudinary"
	"github.com/jask/moodboard/internal/config"
	"github.com/jask/moodboard/internal/service"
	"github.com/jask/moodboard/internal/tui"
)

const usage = `usage: moodboard [command]

commands:
  (none)        open the board viewer
  list          load every board and print media counts
  show <board>  load and print the resources of one board
  config        print the effective configuration`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "config":
		out, err := config.Encode(cfg)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		fmt.Print(out)
		return
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := loggo.ConfigureLoggers(cfg.Log.Level); err != nil {
		log.Fatalf("log level: %v", err)
	}

	store, err := board.NewStore(cfg.Boards.Names...)
	if err != nil {
		log.Fatalf("boards: %v", err)
	}
	client, err := cloudinary.NewClient(cfg.Cloudinary.CloudName,
		cloudinary.WithBaseURL(cfg.Cloudinary.BaseURL),
		cloudinary.WithTimeout(cfg.Cloudinary.Timeout),
	)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}
	loader := &service.Loader{Lister: client, Boards: store, ContinueOnError: cfg.Load.ContinueOnError}
	load := tui.LoaderFunc(func(ctx context.Context) (service.Report, error) {
		return loader.LoadConcurrent(ctx, cfg.Load.Parallelism)
	})

	switch cmd {
	case "":
		closeLog, err := logToFile(cfg.Log.File)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer closeLog()

		p := tea.NewProgram(tui.New(ctx, store, load), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); viewerFailed(ctx, err) {
			fmt.Printf("error: %v\n", err)
		}
	case "list":
		rep, err := load.Load(ctx)
		printReport(os.Stdout, rep)
		if err != nil {
			log.Fatalf("load: %v", err)
		}
	case "show":
		if len(args) < 2 {
			log.Fatalf("show: board name required\n%s", usage)
		}
		name := args[1]
		if _, ok := store.Board(name); !ok {
			msg := fmt.Sprintf("show: no board %q", name)
			if guess, ok := store.Suggest(name); ok {
				msg += fmt.Sprintf(", did you mean %q?", guess)
			}
			log.Fatal(msg)
		}
		_, err := load.Load(ctx)
		b, _ := store.Board(name)
		printBoard(os.Stdout, b)
		if err != nil {
			log.Fatalf("load: %v", err)
		}
	default:
		log.Fatalf("unknown command %q\n%s", cmd, usage)
	}
}

// viewerFailed reports whether err from the viewer is worth showing. An
// interrupt cancels ctx and kills the program, which is a normal way out.
func viewerFailed(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, tea.ErrProgramKilled) && ctx.Err() == nil
}

// logToFile points loggo at path so log lines stay off the viewer's screen.
func logToFile(path string) (func(), error) {
	if strings.TrimSpace(path) == "" {
		_, err := loggo.RemoveWriter(loggo.DefaultWriterName)
		return func() {}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if _, err := loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(f, loggo.DefaultFormatter)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}

func printReport(w io.Writer, rep service.Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOARD\tIMAGES\tVIDEOS\tERROR")
	for _, b := range rep.Boards {
		errText := ""
		if b.Err != nil {
			errText = b.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", b.Name, b.Images, b.Videos, errText)
	}
	_ = tw.Flush()
}

func printBoard(w io.Writer, b board.Board) {
	fmt.Fprintf(w, "%s\n", b.Name)
	for _, section := range []struct {
		label string
		list  []cloudinary.Resource
	}{{"images", b.Images}, {"videos", b.Videos}} {
		fmt.Fprintf(w, "  %s (%d)\n", section.label, len(section.list))
		for _, r := range section.list {
			fmt.Fprintf(w, "    %s\n", r.Raw())
		}
	}
}
