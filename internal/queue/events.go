package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the media stream
const (
	EventTicketImageUploaded = "ticket_image_uploaded"
)

// Stream names
const (
	StreamMedia = "stream:media"
)

// Consumer group name for the resize workers
const (
	ConsumerGroupMedia = "media_workers"
)

// MediaEvent represents an event published to the media stream.
type MediaEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	TicketID    int64  `json:"ticket_id,omitempty"`
	ImageKey    string `json:"image_key,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// NewTicketImageUploadedEvent creates an event for a ticket image that was
// just attached. A worker will download the original, shrink it to the
// display bound, and re-upload it under the same key.
func NewTicketImageUploadedEvent(ticketID int64, imageKey, contentType string) MediaEvent {
	return MediaEvent{
		Type:        EventTicketImageUploaded,
		Timestamp:   time.Now().Unix(),
		TicketID:    ticketID,
		ImageKey:    imageKey,
		ContentType: contentType,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e MediaEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMediaEvent parses a MediaEvent from Redis stream message values.
func ParseMediaEvent(values map[string]interface{}) (MediaEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MediaEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MediaEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MediaEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
