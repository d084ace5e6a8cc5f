package resolver

import (
	"context"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// Resolver maps transcript media references to files in the export folder.
type Resolver interface {
	// Transcript returns the path of the chat transcript file.
	Transcript() string

	// Resolve locates the referenced file, classifies it, enforces size
	// ceilings and computes its content hash. It mutates ref.Resolution.
	// Identical bytes under different filenames share one ResolvedMedia.
	Resolve(ctx context.Context, ref *model.MediaReference) (*model.ResolvedMedia, error)
}
