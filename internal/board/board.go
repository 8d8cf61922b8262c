package board

import "github.com/jask/moodboard/internal/cloudinary"

// DefaultNames are the boards seeded when no names are configured.
var DefaultNames = []string{"cars", "houses", "vacation"}

// Board represents one named bucket of media.
type Board struct {
	Name   string
	Images []cloudinary.Resource
	Videos []cloudinary.Resource
}

func (b Board) clone() Board {
	return Board{
		Name:   b.Name,
		Images: cloneResources(b.Images),
		Videos: cloneResources(b.Videos),
	}
}

func cloneResources(in []cloudinary.Resource) []cloudinary.Resource {
	if in == nil {
		return nil
	}
	out := make([]cloudinary.Resource, len(in))
	copy(out, in)
	return out
}
