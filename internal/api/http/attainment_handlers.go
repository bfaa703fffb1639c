package http

import (
	"net/http"
	"strconv"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/attainment"
)

// GET /attainment/subjects/{subjectID}/co?exam_type=
func SubjectCOAttainmentHandler(svc *attainment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, err := pathID(r, "subjectID")
		if err != nil {
			writeErr(w, err)
			return
		}
		results, err := svc.SubjectCOAttainment(r.Context(), subjectID, r.URL.Query().Get("exam_type"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func scopeFromQuery(r *http.Request, departmentID int64) attainment.Scope {
	q := r.URL.Query()
	scope := attainment.Scope{
		DepartmentID: departmentID,
		AcademicYear: q.Get("academic_year"),
		ExamType:     q.Get("exam_type"),
	}
	scope.SubjectID, _ = strconv.ParseInt(q.Get("subject_id"), 10, 64)
	scope.SemesterID, _ = strconv.ParseInt(q.Get("semester_id"), 10, 64)
	return scope
}

// POST /attainment/indirect ingests survey/exit-exam figures from the
// assessment office.
func RecordIndirectHandler(svc *attainment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DepartmentID int64   `json:"department_id" validate:"required,gt=0"`
			POID         int64   `json:"po_id" validate:"required,gt=0"`
			AcademicYear string  `json:"academic_year" validate:"required"`
			Source       string  `json:"source" validate:"required,oneof=graduate_survey employer_survey exit_exam"`
			Pct          float64 `json:"pct" validate:"gte=0,lte=100"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		err := svc.RecordIndirect(r.Context(), attainment.IndirectEntry{
			DepartmentID: req.DepartmentID,
			POID:         req.POID,
			AcademicYear: req.AcademicYear,
			Source:       req.Source,
			Pct:          req.Pct,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
	}
}

// GET /attainment/departments/{departmentID}/po?subject_id=&semester_id=&academic_year=&exam_type=
func POAttainmentHandler(svc *attainment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departmentID, err := pathID(r, "departmentID")
		if err != nil {
			writeErr(w, err)
			return
		}
		results, err := svc.POAttainment(r.Context(), scopeFromQuery(r, departmentID))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// GET /attainment/departments/{departmentID}/po/combined returns direct
// attainment blended with indirect survey data.
func CombinedPOAttainmentHandler(svc *attainment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departmentID, err := pathID(r, "departmentID")
		if err != nil {
			writeErr(w, err)
			return
		}
		results, err := svc.CombinedPOAttainment(r.Context(), scopeFromQuery(r, departmentID))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}
