package syncx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/grading"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/marks"
)

// Recomputer reacts to published internal marks: it records the publication
// in the event log, appends a RecomputeRequested event for poll-based
// consumers and, when inline mode is on, rederives the student's final mark
// immediately. Attainment reports are computed on read and need no refresh
// here.
type Recomputer struct {
	events Appender
	grades *grading.Service
	inline bool
}

func NewRecomputer(events Appender, grades *grading.Service, inline bool) *Recomputer {
	return &Recomputer{events: events, grades: grades, inline: inline}
}

var _ marks.Recomputer = (*Recomputer)(nil)

func (r *Recomputer) OnPublish(ctx context.Context, m marks.InternalMark) error {
	payload, _ := json.Marshal(map[string]int64{
		"mark_id":    m.ID,
		"student_id": m.StudentID,
		"subject_id": m.SubjectID,
	})
	if err := r.events.Append(ctx, Event{
		Type:     EventMarksPublished,
		Key:      fmt.Sprintf("mark:%d", m.ID),
		DataJSON: string(payload),
	}); err != nil {
		return err
	}
	if err := r.events.Append(ctx, Event{
		Type:     EventRecomputeRequested,
		Key:      fmt.Sprintf("subject:%d", m.SubjectID),
		DataJSON: string(payload),
	}); err != nil {
		return err
	}
	if !r.inline {
		return nil
	}
	if _, err := r.grades.RecomputeFinalMark(ctx, m.StudentID, m.SubjectID); err != nil {
		// Publish already happened; a failed recompute is retried by the
		// event consumer, so log and keep the transition committed.
		log.Printf("inline recompute student=%d subject=%d: %v", m.StudentID, m.SubjectID, err)
	}
	return nil
}
