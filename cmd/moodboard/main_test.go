package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/moodboard/internal/board"
	"github.com/jask/moodboard/internal/cloudinary"
	"github.com/jask/moodboard/internal/service"
)

func TestPrintReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printReport(&buf, service.Report{Boards: []service.BoardReport{
		{Name: "cars", Images: 2, Videos: 1},
		{Name: "houses", Err: errors.New("boom")},
	}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"BOARD", "IMAGES", "VIDEOS", "ERROR"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"cars", "2", "1"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"houses", "0", "0", "boom"}, strings.Fields(lines[2]))
}

func TestPrintBoardKeepsRawDescriptors(t *testing.T) {
	t.Parallel()

	raw := `{"public_id":"cars/mustang","tags":["red"]}`
	r, err := cloudinary.NewResource([]byte(raw))
	require.NoError(t, err)

	var buf bytes.Buffer
	printBoard(&buf, board.Board{Name: "cars", Images: []cloudinary.Resource{r}})
	require.Equal(t, "cars\n  images (1)\n    "+raw+"\n  videos (0)\n", buf.String())
}

func TestViewerFailed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.False(t, viewerFailed(ctx, nil))
	require.False(t, viewerFailed(ctx, tea.ErrProgramKilled))
	require.False(t, viewerFailed(ctx, fmt.Errorf("run: %w", tea.ErrProgramKilled)))
	require.True(t, viewerFailed(ctx, errors.New("tty gone")))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.False(t, viewerFailed(cancelled, errors.New("interrupted")))
}
