package service

import (
	"context"

	"github.com/storelane/catalog_api/internal/utils"
)

// ImageKind discriminates the two shapes an uploaded image can arrive in.
// The HTTP boundary decides the kind exactly once; nothing downstream
// re-inspects the request.
type ImageKind string

const (
	// ImageKindResolvedURL is an already-canonical URL supplied upstream.
	// It is used verbatim.
	ImageKindResolvedURL ImageKind = "resolvedUrl"
	// ImageKindLocalTempFile is a file the server wrote to a temporary
	// location and that still needs to be stored.
	ImageKindLocalTempFile ImageKind = "localTempFile"
)

// ImageInput is the tagged-union image argument produced by the HTTP layer.
// A nil *ImageInput means no image was supplied.
type ImageInput struct {
	Kind  ImageKind
	Value string
}

// ImageStore persists a temporary upload and returns its canonical URL.
// The temporary file is consumed: moved for local storage, deleted after a
// successful remote upload.
type ImageStore interface {
	Store(ctx context.Context, tempPath string) (string, error)
}

// ImageResolver turns an ImageInput into exactly one canonical image URL.
// The backing store (remote host or local disk) is picked once at startup.
type ImageResolver struct {
	store ImageStore
}

// NewImageResolver creates an ImageResolver over the given store.
func NewImageResolver(store ImageStore) *ImageResolver {
	return &ImageResolver{store: store}
}

// Resolve returns the canonical URL for the input. A nil input yields an
// empty URL with no error; callers on the create path turn that into
// a missing-image failure, the update path treats it as "leave untouched".
func (r *ImageResolver) Resolve(ctx context.Context, in *ImageInput) (string, error) {
	if in == nil {
		return "", nil
	}

	switch in.Kind {
	case ImageKindResolvedURL:
		return in.Value, nil
	case ImageKindLocalTempFile:
		return r.store.Store(ctx, in.Value)
	default:
		return "", utils.ErrMissingImage
	}
}
