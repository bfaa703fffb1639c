package http

import (
	"net/http"
	"strconv"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/grading"
)

var errBadSemester = apperr.NewValidation("semester id must be a positive integer",
	apperr.FieldError{Field: "semester_id", Error: "must be a positive integer"})

// POST /finalmarks/recompute {student_id, subject_id}
func RecomputeFinalMarkHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentID int64 `json:"student_id" validate:"required,gt=0"`
			SubjectID int64 `json:"subject_id" validate:"required,gt=0"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		fm, err := svc.RecomputeFinalMark(r.Context(), req.StudentID, req.SubjectID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fm)
	}
}

// POST /subjects/{subjectID}/finalmarks/recompute recomputes a whole class
// with partial success.
func RecomputeSubjectHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, err := pathID(r, "subjectID")
		if err != nil {
			writeErr(w, err)
			return
		}
		done, failed, err := svc.RecomputeSubject(r.Context(), subjectID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"recomputed": done,
			"failed":     failed,
		})
	}
}

func GetFinalMarkHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := pathID(r, "studentID")
		if err != nil {
			writeErr(w, err)
			return
		}
		subjectID, err := pathID(r, "subjectID")
		if err != nil {
			writeErr(w, err)
			return
		}
		fm, err := svc.FinalMark(r.Context(), studentID, subjectID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fm)
	}
}

// GET /students/{studentID}/sgpa?semester_id=N
func SGPAHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := pathID(r, "studentID")
		if err != nil {
			writeErr(w, err)
			return
		}
		semesterID, err := strconv.ParseInt(r.URL.Query().Get("semester_id"), 10, 64)
		if err != nil || semesterID <= 0 {
			writeErr(w, errBadSemester)
			return
		}
		res, err := svc.StudentSGPA(r.Context(), studentID, semesterID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /students/{studentID}/cgpa?up_to_semester=N (optional cutoff)
func CGPAHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := pathID(r, "studentID")
		if err != nil {
			writeErr(w, err)
			return
		}
		var upTo *int64
		if raw := r.URL.Query().Get("up_to_semester"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || v <= 0 {
				writeErr(w, errBadSemester)
				return
			}
			upTo = &v
		}
		res, err := svc.StudentCGPA(r.Context(), studentID, upTo)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /finalmarks/lock {student_id, subject_id}
func LockFinalMarkHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentID int64 `json:"student_id" validate:"required,gt=0"`
			SubjectID int64 `json:"subject_id" validate:"required,gt=0"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		fm, err := svc.LockFinalMark(r.Context(), req.StudentID, req.SubjectID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fm)
	}
}
