package board

import (
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/juju/errors"

	"github.com/jask/moodboard/internal/cloudinary"
)

// Store holds the ordered board records. Readers may call it while a load is
// writing to it.
type Store struct {
	mu     sync.RWMutex
	boards []Board
	index  map[string]int
}

// NewStore seeds one empty board per name, in the given order. With no names
// the DefaultNames are used.
func NewStore(names ...string) (*Store, error) {
	if len(names) == 0 {
		names = DefaultNames
	}
	s := &Store{
		boards: make([]Board, 0, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, errors.NotValidf("empty board name")
		}
		if _, dup := s.index[name]; dup {
			return nil, errors.AlreadyExistsf("board %q", name)
		}
		s.index[name] = len(s.boards)
		s.boards = append(s.boards, Board{
			Name:   name,
			Images: []cloudinary.Resource{},
			Videos: []cloudinary.Resource{},
		})
	}
	return s, nil
}

// Names returns the board names in display order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.boards))
	for i, b := range s.boards {
		out[i] = b.Name
	}
	return out
}

// Boards returns a copy of every board in display order.
func (s *Store) Boards() []Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Board, len(s.boards))
	for i, b := range s.boards {
		out[i] = b.clone()
	}
	return out
}

// Board returns a copy of the named board.
func (s *Store) Board(name string) (Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[name]
	if !ok {
		return Board{}, false
	}
	return s.boards[i].clone(), true
}

// SetImages replaces the image list of the named board.
func (s *Store) SetImages(name string, resources []cloudinary.Resource) error {
	return s.set(name, func(b *Board) { b.Images = cloneResources(resources) })
}

// SetVideos replaces the video list of the named board.
func (s *Store) SetVideos(name string, resources []cloudinary.Resource) error {
	return s.set(name, func(b *Board) { b.Videos = cloneResources(resources) })
}

func (s *Store) set(name string, fn func(*Board)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[name]
	if !ok {
		return errors.NotFoundf("board %q", name)
	}
	fn(&s.boards[i])
	return nil
}

// Suggest returns the board name closest to name by edit distance. It reports
// false when nothing is within half the length of the longer string.
func (s *Store) Suggest(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, candidate := range s.Names() {
		d := levenshtein.ComputeDistance(name, strings.ToLower(candidate))
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist < 0 || bestDist > max(len(name), len(best))/2 {
		return "", false
	}
	return best, true
}
