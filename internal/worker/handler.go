package worker

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/disintegration/imaging"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/queue"
)

// ImageStore defines the slice of object storage the worker needs.
// Abstracts the media service so workers don't depend on the S3 client directly.
type ImageStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// Handler processes media events from the queue.
type Handler struct {
	store ImageStore
}

// NewHandler creates a new event handler.
func NewHandler(store ImageStore) *Handler {
	return &Handler{store: store}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MediaEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventTicketImageUploaded:
		err = h.handleTicketImageUploaded(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleTicketImageUploaded shrinks a freshly uploaded ticket image to the
// display bound and writes it back under the same key. The ticket row is
// never touched: the url/key stay valid throughout, the bytes just shrink.
func (h *Handler) handleTicketImageUploaded(ctx context.Context, event queue.MediaEvent) error {
	log.Printf("[Worker] TicketImageUploaded: ticket=%d key=%s", event.TicketID, event.ImageKey)

	if event.ImageKey == "" {
		log.Printf("[Worker] TicketImageUploaded: empty key, skipping")
		return nil
	}

	data, err := h.store.Download(ctx, event.ImageKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	resized, contentType, err := shrinkToMaxHeight(data, event.ImageKey, model.TicketImageMaxHeight)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}

	if resized == nil {
		log.Printf("[Worker] TicketImageUploaded: ticket=%d already within bound, skipping", event.TicketID)
		return nil
	}

	if err := h.store.Upload(ctx, event.ImageKey, resized, contentType); err != nil {
		return fmt.Errorf("upload resized: %w", err)
	}

	log.Printf("[Worker] TicketImageUploaded DONE: ticket=%d key=%s bytes=%d->%d",
		event.TicketID, event.ImageKey, len(data), len(resized))

	return nil
}

// shrinkToMaxHeight scales the image down so its height is at most maxHeight,
// preserving aspect ratio. Returns (nil, "", nil) when the image is already
// within the bound. The encode format follows the key's extension where the
// codec supports it, falling back to JPEG otherwise, and the returned content
// type matches the bytes actually produced.
func shrinkToMaxHeight(data []byte, key string, maxHeight int) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dy() <= maxHeight {
		return nil, "", nil
	}

	// Width 0 keeps the aspect ratio.
	resized := imaging.Resize(img, 0, maxHeight, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(path.Ext(key))
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), contentTypeForFormat(format), nil
}

func contentTypeForFormat(format imaging.Format) string {
	switch format {
	case imaging.PNG:
		return model.ContentTypePNG
	case imaging.GIF:
		return model.ContentTypeGIF
	default:
		return model.ContentTypeJPEG
	}
}
