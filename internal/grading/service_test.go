package grading

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/config"
)

type fakeGradeStore struct {
	caps      map[int64]SubjectCaps
	internals map[[2]int64][]InternalComponent
	externals map[[2]int64]float64
	finals    map[[2]int64]FinalMark
	records   map[int64][]SemesterRecord
	nextID    int64
	upserts   int
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{
		caps:      map[int64]SubjectCaps{},
		internals: map[[2]int64][]InternalComponent{},
		externals: map[[2]int64]float64{},
		finals:    map[[2]int64]FinalMark{},
		records:   map[int64][]SemesterRecord{},
	}
}

func (f *fakeGradeStore) SubjectCaps(_ context.Context, subjectID int64) (SubjectCaps, error) {
	c, ok := f.caps[subjectID]
	if !ok {
		return SubjectCaps{}, apperr.NewNotFound("subject", subjectID)
	}
	return c, nil
}

func (f *fakeGradeStore) InternalComponents(_ context.Context, studentID, subjectID int64) ([]InternalComponent, error) {
	return f.internals[[2]int64{studentID, subjectID}], nil
}

func (f *fakeGradeStore) ExternalMark(_ context.Context, studentID, subjectID int64) (*float64, error) {
	v, ok := f.externals[[2]int64{studentID, subjectID}]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeGradeStore) GetFinalMark(_ context.Context, studentID, subjectID int64) (*FinalMark, error) {
	fm, ok := f.finals[[2]int64{studentID, subjectID}]
	if !ok {
		return nil, nil
	}
	out := fm
	return &out, nil
}

func (f *fakeGradeStore) UpsertFinalMark(_ context.Context, fm FinalMark) (FinalMark, error) {
	f.upserts++
	if fm.ID == 0 {
		f.nextID++
		fm.ID = f.nextID
	}
	f.finals[[2]int64{fm.StudentID, fm.SubjectID}] = fm
	return fm, nil
}

func (f *fakeGradeStore) StudentsForSubject(_ context.Context, subjectID int64) ([]int64, error) {
	var out []int64
	for k := range f.internals {
		if k[1] == subjectID {
			out = append(out, k[0])
		}
	}
	return out, nil
}

func (f *fakeGradeStore) SemesterRecords(_ context.Context, studentID int64) ([]SemesterRecord, error) {
	return f.records[studentID], nil
}

func seedSubject(f *fakeGradeStore) {
	f.caps[10] = SubjectCaps{SubjectID: 10, SemesterID: 3, Credits: 4, MaxInternal: 40, MaxExternal: 60}
}

func TestRecomputeFinalMark(t *testing.T) {
	store := newFakeGradeStore()
	seedSubject(store)
	store.internals[[2]int64{1, 10}] = []InternalComponent{
		{ComponentType: "ia1", Marks: 35, State: "published"},
		{ComponentType: "ia2", Marks: 38, State: "published"},
	}
	store.externals[[2]int64{1, 10}] = 52

	svc := NewService(store, config.DefaultPolicy())
	fm, err := svc.RecomputeFinalMark(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// best(35,38)=38; total 90 of 100 → 90% → A+/10
	if fm.BestInternal != 38 || fm.Total != 90 || !almostEqual(fm.Percentage, 90) {
		t.Fatalf("derived fields wrong: %+v", fm)
	}
	if fm.Grade != "A+" || fm.GradePoint != 10 {
		t.Fatalf("grade = %s/%v, want A+/10", fm.Grade, fm.GradePoint)
	}
	if fm.SemesterID != 3 || fm.Status != StatusEditable {
		t.Fatalf("snapshot metadata wrong: %+v", fm)
	}
}

func TestFinalMarkCarriesGPA(t *testing.T) {
	store := newFakeGradeStore()
	seedSubject(store)
	store.internals[[2]int64{1, 10}] = []InternalComponent{{ComponentType: "ia1", Marks: 35}}
	store.externals[[2]int64{1, 10}] = 55
	store.records[1] = []SemesterRecord{
		{SubjectID: 5, SemesterID: 2, Credits: 4, GradePoint: 6},
		{SubjectID: 10, SemesterID: 3, Credits: 4, GradePoint: 10},
	}

	svc := NewService(store, config.DefaultPolicy())
	fm, err := svc.RecomputeFinalMark(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// SGPA covers semester 3 only; CGPA averages both semesters.
	if !almostEqual(fm.SGPA, 10) {
		t.Fatalf("SGPA = %v, want 10", fm.SGPA)
	}
	if !almostEqual(fm.CGPA, 8) {
		t.Fatalf("CGPA = %v, want 8", fm.CGPA)
	}

	got, err := svc.FinalMark(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !almostEqual(got.SGPA, 10) || !almostEqual(got.CGPA, 8) {
		t.Fatalf("read-back GPA = %v/%v, want 10/8", got.SGPA, got.CGPA)
	}

	buf, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(buf, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"best_internal", "total", "percentage", "grade", "sgpa", "cgpa"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("final mark JSON lacks %q: %s", key, buf)
		}
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	store := newFakeGradeStore()
	seedSubject(store)
	store.internals[[2]int64{1, 10}] = []InternalComponent{{ComponentType: "ia1", Marks: 30}}
	store.externals[[2]int64{1, 10}] = 45

	svc := NewService(store, config.DefaultPolicy())
	first, err := svc.RecomputeFinalMark(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.RecomputeFinalMark(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recompute not idempotent:\n first %+v\nsecond %+v", first, second)
	}
}

func TestRecomputeRefusesLocked(t *testing.T) {
	store := newFakeGradeStore()
	seedSubject(store)
	store.finals[[2]int64{1, 10}] = FinalMark{ID: 7, StudentID: 1, SubjectID: 10, Status: StatusLocked}

	svc := NewService(store, config.DefaultPolicy())
	if _, err := svc.RecomputeFinalMark(context.Background(), 1, 10); !apperr.IsRuleViolation(err) {
		t.Fatalf("locked snapshot: got %v, want RuleViolationError", err)
	}
}

func TestRecomputeMissingExternalCountsZero(t *testing.T) {
	store := newFakeGradeStore()
	seedSubject(store)
	store.internals[[2]int64{1, 10}] = []InternalComponent{{ComponentType: "ia1", Marks: 32}}

	svc := NewService(store, config.DefaultPolicy())
	fm, err := svc.RecomputeFinalMark(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if fm.External != 0 || fm.Total != 32 || !almostEqual(fm.Percentage, 32) {
		t.Fatalf("missing external should count as zero: %+v", fm)
	}
	if fm.Grade != "F" {
		t.Fatalf("grade = %s, want F", fm.Grade)
	}
}

func TestRecomputeSubjectPartialSuccess(t *testing.T) {
	store := newFakeGradeStore()
	seedSubject(store)
	store.internals[[2]int64{1, 10}] = []InternalComponent{{ComponentType: "ia1", Marks: 30}}
	store.internals[[2]int64{2, 10}] = []InternalComponent{{ComponentType: "ia1", Marks: 25}}
	store.finals[[2]int64{2, 10}] = FinalMark{ID: 9, StudentID: 2, SubjectID: 10, Status: StatusLocked}

	svc := NewService(store, config.DefaultPolicy())
	done, failed, err := svc.RecomputeSubject(context.Background(), 10)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(done) != 1 || len(failed) != 1 {
		t.Fatalf("done=%d failed=%d, want 1/1", len(done), len(failed))
	}
	if failed[0].StudentID != 2 {
		t.Fatalf("failed student = %d, want 2", failed[0].StudentID)
	}
}

func TestStudentSGPAFiltersSemester(t *testing.T) {
	store := newFakeGradeStore()
	store.records[1] = []SemesterRecord{
		{SubjectID: 1, SemesterID: 1, Credits: 4, GradePoint: 10},
		{SubjectID: 2, SemesterID: 2, Credits: 4, GradePoint: 6},
	}
	svc := NewService(store, config.DefaultPolicy())
	res, err := svc.StudentSGPA(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("sgpa: %v", err)
	}
	if !almostEqual(res.Value, 10) || res.Subjects != 1 {
		t.Fatalf("SGPA sem 1 = %+v, want 10 over 1 subject", res)
	}
}
