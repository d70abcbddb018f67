package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/qmuntal/gltf"

	"heroscene/quarkgl"
)

var (
	ErrFetch      = errors.New("asset: fetch failed")
	ErrDecode     = errors.New("asset: decode failed")
	ErrEmptyModel = errors.New("asset: model has no triangles")
)

// maxBody caps remote model downloads.
const maxBody = 64 << 20

// Model is a decoded, normalized model.
type Model struct {
	Meshes    []quarkgl.Mesh
	Vertices  int
	Triangles int
}

// Loader produces the model. Load must honor ctx cancellation.
type Loader interface {
	Load(ctx context.Context) (*Model, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*Model, error)

func (f LoaderFunc) Load(ctx context.Context) (*Model, error) { return f(ctx) }

// Source loads a model from a file path or an http(s) URL.
type Source struct {
	Ref string
	// Client is used for URLs; nil means http.DefaultClient.
	Client *http.Client
}

func (s Source) Load(ctx context.Context) (*Model, error) {
	if s.Ref == "" {
		return nil, fmt.Errorf("%w: empty model reference", ErrFetch)
	}
	if strings.HasPrefix(s.Ref, "http://") || strings.HasPrefix(s.Ref, "https://") {
		body, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return decodeBytes(body)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.Ref, err)
	}
	if _, err := os.Stat(s.Ref); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if compressed(s.Ref) {
		body, err := os.ReadFile(s.Ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return decodeBytes(body)
	}
	// Plain files go through gltf.Open so sibling .bin buffers resolve.
	doc, err := gltf.Open(s.Ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, s.Ref, err)
	}
	return FromDocument(doc)
}

func compressed(path string) bool {
	for _, ext := range []string{".gz", ".zst", ".sz"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (s Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	c := s.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, s.Ref, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.Ref, err)
	}
	if len(body) > maxBody {
		return nil, fmt.Errorf("%w: %s: larger than %d bytes", ErrFetch, s.Ref, maxBody)
	}
	return body, nil
}
