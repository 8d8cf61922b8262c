package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"

	"github.com/jask/moodboard/internal/board"
	"github.com/jask/moodboard/internal/cloudinary"
)

var logger = loggo.GetLogger("moodboard.service")

// Loader fills the boards of a Store from the media API.
type Loader struct {
	Lister cloudinary.Lister
	Boards *board.Store

	// ContinueOnError keeps loading the remaining boards after a failure
	// and returns every failure joined. By default the first failure stops
	// the run.
	ContinueOnError bool
}

// LoadError reports which board and media list a load failed on.
type LoadError struct {
	Board string
	Media cloudinary.MediaType
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %ss: %v", e.Board, e.Media, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// BoardReport summarises one board after a run.
type BoardReport struct {
	Name   string
	Images int
	Videos int
	Err    error
}

// Report summarises one load run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Boards   []BoardReport
}

// Failed returns the number of boards that did not load completely.
func (r Report) Failed() int {
	n := 0
	for _, b := range r.Boards {
		if b.Err != nil {
			n++
		}
	}
	return n
}

// Load walks the boards in order and, for each, replaces its images and then
// its videos with the resources the API lists for the board's name. Requests
// are strictly sequential. Unless ContinueOnError is set, the first failure
// is returned immediately: boards after it are untouched and the failing
// board may have new images but old videos.
func (l *Loader) Load(ctx context.Context) (Report, error) {
	rep := l.newReport()
	logger.Tracef("load %s: %d boards", rep.RunID, len(rep.Boards))

	var errs []error
	for i := range rep.Boards {
		br := &rep.Boards[i]
		if err := l.loadBoard(ctx, rep.RunID, br); err != nil {
			br.Err = err
			if !l.ContinueOnError || ctx.Err() != nil {
				rep.Finished = time.Now()
				return rep, err
			}
			logger.Warningf("load %s: %v", rep.RunID, err)
			errs = append(errs, err)
		}
	}
	rep.Finished = time.Now()
	logger.Infof("load %s: done in %v, %d failed", rep.RunID, rep.Finished.Sub(rep.Started), len(errs))
	return rep, stderrors.Join(errs...)
}

// LoadConcurrent loads up to limit boards at once. Within a board images are
// still fetched before videos. A limit of one or less is the same as Load.
func (l *Loader) LoadConcurrent(ctx context.Context, limit int) (Report, error) {
	if limit <= 1 {
		return l.Load(ctx)
	}
	rep := l.newReport()
	logger.Tracef("load %s: %d boards, %d at a time", rep.RunID, len(rep.Boards), limit)

	if l.ContinueOnError {
		g := new(errgroup.Group)
		g.SetLimit(limit)
		for i := range rep.Boards {
			br := &rep.Boards[i]
			g.Go(func() error {
				br.Err = l.loadBoard(ctx, rep.RunID, br)
				return nil
			})
		}
		_ = g.Wait()
		rep.Finished = time.Now()
		var errs []error
		for _, br := range rep.Boards {
			if br.Err != nil {
				errs = append(errs, br.Err)
			}
		}
		return rep, stderrors.Join(errs...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range rep.Boards {
		br := &rep.Boards[i]
		g.Go(func() error {
			if err := l.loadBoard(gctx, rep.RunID, br); err != nil {
				br.Err = err
				return err
			}
			return nil
		})
	}
	err := g.Wait()
	rep.Finished = time.Now()
	return rep, err
}

func (l *Loader) newReport() Report {
	names := l.Boards.Names()
	rep := Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Boards:  make([]BoardReport, len(names)),
	}
	for i, name := range names {
		rep.Boards[i].Name = name
	}
	return rep
}

func (l *Loader) loadBoard(ctx context.Context, runID string, br *BoardReport) error {
	if err := ctx.Err(); err != nil {
		return &LoadError{Board: br.Name, Media: cloudinary.Image, Err: err}
	}

	images, err := l.Lister.List(ctx, cloudinary.Image, br.Name)
	if err != nil {
		return &LoadError{Board: br.Name, Media: cloudinary.Image, Err: err}
	}
	if err := l.Boards.SetImages(br.Name, images.Resources); err != nil {
		return &LoadError{Board: br.Name, Media: cloudinary.Image, Err: errors.Trace(err)}
	}
	br.Images = len(images.Resources)

	logger.Debugf("load %s: %s videos from %s", runID, br.Name, l.Lister.URL(cloudinary.Video, br.Name))
	videos, err := l.Lister.List(ctx, cloudinary.Video, br.Name)
	if err != nil {
		return &LoadError{Board: br.Name, Media: cloudinary.Video, Err: err}
	}
	logger.Debugf("load %s: %s videos response %s", runID, br.Name, videos.Body())
	if err := l.Boards.SetVideos(br.Name, videos.Resources); err != nil {
		return &LoadError{Board: br.Name, Media: cloudinary.Video, Err: errors.Trace(err)}
	}
	br.Videos = len(videos.Resources)
	return nil
}
