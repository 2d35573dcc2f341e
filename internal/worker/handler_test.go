package worker

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/queue"
)

type mockImageStore struct {
	downloadFn func(ctx context.Context, key string) ([]byte, error)

	uploads map[string][]byte
	types   map[string]string
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{
		uploads: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (m *mockImageStore) Download(ctx context.Context, key string) ([]byte, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, errors.New("not found")
}

func (m *mockImageStore) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	m.uploads[key] = body
	m.types[key] = contentType
	return nil
}

// encodeTestImage builds a solid image of the given size, JPEG-encoded.
func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestShrinkToMaxHeight(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantShrunk bool
		wantW      int
		wantH      int
	}{
		{name: "tall image shrinks to bound", width: 600, height: 1600, wantShrunk: true, wantW: 300, wantH: 800},
		{name: "aspect ratio preserved for wide image", width: 2000, height: 1000, wantShrunk: true, wantW: 1600, wantH: 800},
		{name: "within bound untouched", width: 600, height: 800, wantShrunk: false},
		{name: "small image untouched", width: 100, height: 50, wantShrunk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTestImage(t, tt.width, tt.height)

			out, contentType, err := shrinkToMaxHeight(data, "tickets/x.jpg", model.TicketImageMaxHeight)
			if err != nil {
				t.Fatalf("shrinkToMaxHeight() error = %v", err)
			}

			if !tt.wantShrunk {
				if out != nil {
					t.Fatalf("got resized bytes for image within bound")
				}
				return
			}

			if out == nil {
				t.Fatalf("got nil, want resized bytes")
			}
			if contentType != model.ContentTypeJPEG {
				t.Errorf("content type = %s, want %s", contentType, model.ContentTypeJPEG)
			}

			resized, err := imaging.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode resized: %v", err)
			}
			if got := resized.Bounds().Dy(); got != tt.wantH {
				t.Errorf("height = %d, want %d", got, tt.wantH)
			}
			if got := resized.Bounds().Dx(); got != tt.wantW {
				t.Errorf("width = %d, want %d", got, tt.wantW)
			}
		})
	}
}

func TestShrinkToMaxHeight_BadData(t *testing.T) {
	_, _, err := shrinkToMaxHeight([]byte("definitely not an image"), "tickets/x.jpg", model.TicketImageMaxHeight)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHandler_TicketImageUploaded_ReuploadsSameKey(t *testing.T) {
	store := newMockImageStore()
	store.downloadFn = func(ctx context.Context, key string) ([]byte, error) {
		return encodeTestImage(t, 1000, 2000), nil
	}
	h := NewHandler(store)

	event := queue.NewTicketImageUploadedEvent(7, "tickets/abc.jpg", model.ContentTypeJPEG)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	body, ok := store.uploads["tickets/abc.jpg"]
	if !ok {
		t.Fatalf("no upload under the original key; uploads: %v", keysOf(store.uploads))
	}
	resized, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decode uploaded: %v", err)
	}
	if resized.Bounds().Dy() != model.TicketImageMaxHeight {
		t.Errorf("uploaded height = %d, want %d", resized.Bounds().Dy(), model.TicketImageMaxHeight)
	}
	if store.types["tickets/abc.jpg"] != model.ContentTypeJPEG {
		t.Errorf("uploaded content type = %s, want %s", store.types["tickets/abc.jpg"], model.ContentTypeJPEG)
	}
}

func TestHandler_TicketImageUploaded_SkipsSmallImage(t *testing.T) {
	store := newMockImageStore()
	store.downloadFn = func(ctx context.Context, key string) ([]byte, error) {
		return encodeTestImage(t, 400, 300), nil
	}
	h := NewHandler(store)

	event := queue.NewTicketImageUploadedEvent(7, "tickets/small.jpg", model.ContentTypeJPEG)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(store.uploads) != 0 {
		t.Fatalf("uploaded %d objects for image within bound, want 0", len(store.uploads))
	}
}

func TestHandler_TicketImageUploaded_DownloadFailurePropagates(t *testing.T) {
	store := newMockImageStore()
	h := NewHandler(store)

	// The manager leaves failed messages pending for retry, so the handler
	// must surface storage errors instead of swallowing them.
	event := queue.NewTicketImageUploadedEvent(7, "tickets/missing.jpg", model.ContentTypeJPEG)
	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error for failed download")
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	h := NewHandler(newMockImageStore())
	err := h.HandleEvent(context.Background(), queue.MediaEvent{Type: "mystery"})
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func keysOf(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
