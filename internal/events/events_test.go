package events

import (
	"encoding/json"
	"testing"
)

func TestEncodeWrapsPayload(t *testing.T) {
	body, err := Encode(ChannelMatchingCompleted, MatchingCompleted{JobID: 3, RequesterID: 9, MatchCount: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Type string            `json:"type"`
		Data MatchingCompleted `json:"data"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Type != ChannelMatchingCompleted {
		t.Fatalf("unexpected type %q", got.Type)
	}
	if got.Data.JobID != 3 || got.Data.MatchCount != 12 {
		t.Fatalf("unexpected data: %+v", got.Data)
	}
}

func TestEncodeRejectsUnsupportedPayload(t *testing.T) {
	if _, err := Encode(ChannelStatusChanged, make(chan int)); err == nil {
		t.Fatalf("expected an error for a channel payload")
	}
}
