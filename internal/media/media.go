package media

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/adelhazem/storefront/internal/api"
)

// TempIDPrefix marks media entries that only exist client-side and have not
// been uploaded yet.
const TempIDPrefix = "tmp-"

func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Pending is a selected file waiting for the product save.
type Pending struct {
	TempID      string
	FileName    string
	ContentType string
	Data        []byte
	IsPrimary   bool
}

// Staging holds pending uploads keyed by temp id until the form is saved or
// reset.
type Staging struct {
	mu      sync.Mutex
	pending map[string]*Pending
}

func NewStaging() *Staging {
	return &Staging{pending: make(map[string]*Pending)}
}

func (s *Staging) Add(fileName, contentType string, data []byte) *Pending {
	p := &Pending{
		TempID:      NewTempID(),
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}
	s.mu.Lock()
	s.pending[p.TempID] = p
	s.mu.Unlock()
	return p
}

func (s *Staging) Get(tempID string) (*Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[tempID]
	return p, ok
}

func (s *Staging) Remove(tempID string) {
	s.mu.Lock()
	delete(s.pending, tempID)
	s.mu.Unlock()
}

func (s *Staging) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Reset drops every pending file. The form calls this on reset/unmount so
// staged bytes do not outlive the editor.
func (s *Staging) Reset() {
	s.mu.Lock()
	s.pending = make(map[string]*Pending)
	s.mu.Unlock()
}

// UploadAll processes and uploads every pending file for the given owner and
// returns the server media records in place of the temp entries. Uploaded
// entries are removed from staging as they succeed, a failure leaves the
// remainder staged.
func (s *Staging) UploadAll(ctx context.Context, client *api.Client, ownerID string) ([]api.ProductMedia, error) {
	s.mu.Lock()
	pending := make([]*Pending, 0, len(s.pending))
	for _, p := range s.pending {
		pending = append(pending, p)
	}
	s.mu.Unlock()

	uploaded := make([]api.ProductMedia, 0, len(pending))
	for _, p := range pending {
		processed, err := SquareJPEG(p.Data, TargetSize)
		if err != nil {
			return uploaded, fmt.Errorf("process %s: %w", p.FileName, err)
		}

		rec, err := client.UploadMedia(ctx, api.UploadMediaRequest{
			OwnerID:     ownerID,
			FileName:    jpegName(p.FileName),
			ContentType: "image/jpeg",
			SizeInBytes: int64(len(processed)),
			IsPrimary:   p.IsPrimary,
			Data:        processed,
		})
		if err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", p.FileName, err)
		}

		uploaded = append(uploaded, *rec)
		s.Remove(p.TempID)
	}
	return uploaded, nil
}

func jpegName(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name + ".jpg"
}

// SetPrimary makes the primary flag single-select in the local list: setting
// one entry clears all the others. Best effort, the backend does not enforce
// it.
func SetPrimary(media []api.ProductMedia, id string) {
	for i := range media {
		media[i].IsPrimary = media[i].ID == id
	}
}
