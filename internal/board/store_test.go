package board

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"

	"github.com/jask/moodboard/internal/cloudinary"
)

func resource(t *testing.T, id string) cloudinary.Resource {
	t.Helper()
	r, err := cloudinary.NewResource([]byte(`{"public_id":"` + id + `"}`))
	require.NoError(t, err)
	return r
}

func TestNewStoreDefaults(t *testing.T) {
	t.Parallel()

	s, err := NewStore()
	require.NoError(t, err)
	require.Equal(t, []string{"cars", "houses", "vacation"}, s.Names())
	for _, b := range s.Boards() {
		require.Empty(t, b.Images)
		require.Empty(t, b.Videos)
	}
}

func TestNewStoreRejectsBadNames(t *testing.T) {
	t.Parallel()

	_, err := NewStore("cars", "cars")
	require.True(t, errors.IsAlreadyExists(err))

	_, err = NewStore("cars", " ")
	require.True(t, errors.IsNotValid(err))
}

func TestSetReplacesLists(t *testing.T) {
	t.Parallel()

	s, err := NewStore("cars", "houses")
	require.NoError(t, err)

	require.NoError(t, s.SetImages("cars", []cloudinary.Resource{resource(t, "a"), resource(t, "b")}))
	require.NoError(t, s.SetImages("cars", []cloudinary.Resource{resource(t, "c")}))
	require.NoError(t, s.SetVideos("cars", []cloudinary.Resource{resource(t, "v")}))

	b, ok := s.Board("cars")
	require.True(t, ok)
	require.Len(t, b.Images, 1)
	require.Equal(t, "c", b.Images[0].PublicID())
	require.Len(t, b.Videos, 1)

	other, ok := s.Board("houses")
	require.True(t, ok)
	require.Empty(t, other.Images)

	err = s.SetVideos("boats", nil)
	require.True(t, errors.IsNotFound(err))
	require.Equal(t, []string{"cars", "houses"}, s.Names())
}

func TestBoardsReturnsCopies(t *testing.T) {
	t.Parallel()

	s, err := NewStore("cars")
	require.NoError(t, err)
	require.NoError(t, s.SetImages("cars", []cloudinary.Resource{resource(t, "a")}))

	snapshot := s.Boards()
	snapshot[0].Images[0] = resource(t, "mutated")
	snapshot[0].Name = "boats"

	b, _ := s.Board("cars")
	require.Equal(t, "a", b.Images[0].PublicID())
	_, ok := s.Board("boats")
	require.False(t, ok)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	s, err := NewStore()
	require.NoError(t, err)

	got, ok := s.Suggest("car")
	require.True(t, ok)
	require.Equal(t, "cars", got)

	got, ok = s.Suggest("Vacaton")
	require.True(t, ok)
	require.Equal(t, "vacation", got)

	_, ok = s.Suggest("submarine")
	require.False(t, ok)
}
