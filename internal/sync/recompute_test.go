package syncx

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/marks"
)

type capturingAppender struct {
	events []Event
}

func (a *capturingAppender) Append(_ context.Context, e Event) error {
	a.events = append(a.events, e)
	return nil
}

func TestOnPublishLogsPublicationAndRecompute(t *testing.T) {
	log := &capturingAppender{}
	rec := NewRecomputer(log, nil, false)

	mark := marks.InternalMark{ID: 42, StudentID: 7, SubjectID: 10}
	if err := rec.OnPublish(context.Background(), mark); err != nil {
		t.Fatalf("on publish: %v", err)
	}

	if len(log.events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(log.events), log.events)
	}
	if log.events[0].Type != EventMarksPublished || log.events[0].Key != "mark:42" {
		t.Fatalf("first event = %+v, want %s mark:42", log.events[0], EventMarksPublished)
	}
	if log.events[1].Type != EventRecomputeRequested || log.events[1].Key != "subject:10" {
		t.Fatalf("second event = %+v, want %s subject:10", log.events[1], EventRecomputeRequested)
	}
	for _, e := range log.events {
		var payload map[string]int64
		if err := json.Unmarshal([]byte(e.DataJSON), &payload); err != nil {
			t.Fatalf("payload of %s: %v", e.Type, err)
		}
		if payload["mark_id"] != 42 || payload["student_id"] != 7 || payload["subject_id"] != 10 {
			t.Fatalf("payload of %s = %v", e.Type, payload)
		}
	}
}
