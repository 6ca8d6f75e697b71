package ws

import (
	"errors"
	"testing"
	"time"

	"chatrooms/internal/domain"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestEncodeEnter(t *testing.T) {
	payload, err := EncodeEnter(1, []int{1, 2}, testTime)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"event":"enter","data":{"user_id":1,"users":[1,2],"time":"2024-01-02T03:04:05Z"}}`
	if string(payload) != want {
		t.Errorf("expected %s, got %s", want, payload)
	}
}

func TestEncodeLeave(t *testing.T) {
	payload, err := EncodeLeave(2, []int{1}, testTime)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"event":"leave","data":{"user_id":2,"users":[1],"time":"2024-01-02T03:04:05Z"}}`
	if string(payload) != want {
		t.Errorf("expected %s, got %s", want, payload)
	}
}

func TestEncodeMessage(t *testing.T) {
	msg := domain.Message{ID: 9, RoomID: 7, Content: "hi", CreatedBy: 1, CreatedAt: testTime}
	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"event":"message","data":{"id":9,"room_id":7,"content":"hi","created_by":1,"created_at":"2024-01-02T03:04:05Z"}}`
	if string(payload) != want {
		t.Errorf("expected %s, got %s", want, payload)
	}
}

func TestDecodeInbound(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"event":"message","data":{"room_id":7,"content":"hi"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.RoomID != 7 || in.Content != "hi" {
		t.Errorf("expected {7 hi}, got %+v", in)
	}
}

func TestDecodeInbound_EmptyContent(t *testing.T) {
	// Present-but-empty content is a valid submission; only absence fails.
	in, err := DecodeInbound([]byte(`{"event":"message","data":{"room_id":7,"content":""}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Content != "" {
		t.Errorf("expected empty content, got %q", in.Content)
	}
}

func TestDecodeInbound_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"event":`},
		{"missing event", `{"data":{"room_id":7,"content":"hi"}}`},
		{"unknown event", `{"event":"enter","data":{"room_id":7,"content":"hi"}}`},
		{"missing data", `{"event":"message"}`},
		{"null data", `{"event":"message","data":null}`},
		{"missing content", `{"event":"message","data":{"room_id":7}}`},
		{"missing room_id", `{"event":"message","data":{"content":"hi"}}`},
		{"mistyped room_id", `{"event":"message","data":{"room_id":"7","content":"hi"}}`},
		{"mistyped content", `{"event":"message","data":{"room_id":7,"content":42}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeInbound([]byte(tt.raw)); !errors.Is(err, ErrMalformedEvent) {
				t.Errorf("expected ErrMalformedEvent, got %v", err)
			}
		})
	}
}

func TestMessageRoundTrip(t *testing.T) {
	// A message event's data is a superset of the submission shape, so the
	// codec can decode its own output.
	msg := domain.Message{ID: 9, RoomID: 7, Content: "hi", CreatedBy: 1, CreatedAt: testTime}
	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	in, err := DecodeInbound(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.RoomID != msg.RoomID || in.Content != msg.Content {
		t.Errorf("round trip mismatch: %+v", in)
	}
}
