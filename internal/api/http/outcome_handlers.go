package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NewValidation("bad " + name,
			apperr.FieldError{Field: name, Error: "must be a positive integer"})
	}
	return id, nil
}

func CreateQuestionHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID     int64   `json:"exam_id" validate:"required,gt=0"`
			Number     string  `json:"number" validate:"required"`
			MaxMarks   float64 `json:"max_marks" validate:"required,gt=0"`
			Section    string  `json:"section"`
			Difficulty string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		q, err := svc.CreateQuestion(r.Context(), outcome.Question{
			ExamID: req.ExamID, Number: req.Number, MaxMarks: req.MaxMarks,
			Section: req.Section, Difficulty: req.Difficulty,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func UpdateQuestionMaxMarksHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID, err := pathID(r, "questionID")
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			MaxMarks float64 `json:"max_marks" validate:"required,gt=0"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		if err := svc.UpdateQuestionMaxMarks(r.Context(), questionID, req.MaxMarks); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func CreateCourseOutcomeHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SubjectID        int64   `json:"subject_id" validate:"required,gt=0"`
			Code             string  `json:"code" validate:"required"`
			Title            string  `json:"title"`
			TargetAttainment float64 `json:"target_attainment" validate:"gte=0,lte=100"`
			L1Threshold      float64 `json:"l1_threshold" validate:"gte=0,lte=100"`
			L2Threshold      float64 `json:"l2_threshold" validate:"gte=0,lte=100"`
			L3Threshold      float64 `json:"l3_threshold" validate:"gte=0,lte=100"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		co, err := svc.CreateCourseOutcome(r.Context(), outcome.CourseOutcome{
			SubjectID: req.SubjectID, Code: req.Code, Title: req.Title,
			TargetAttainment: req.TargetAttainment,
			L1Threshold:      req.L1Threshold,
			L2Threshold:      req.L2Threshold,
			L3Threshold:      req.L3Threshold,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, co)
	}
}

func CreateProgramOutcomeHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DepartmentID     int64   `json:"department_id" validate:"required,gt=0"`
			Code             string  `json:"code" validate:"required"`
			Title            string  `json:"title"`
			Type             string  `json:"po_type" validate:"required,oneof=PO PSO"`
			TargetAttainment float64 `json:"target_attainment" validate:"gte=0,lte=100"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		po, err := svc.CreateProgramOutcome(r.Context(), outcome.ProgramOutcome{
			DepartmentID: req.DepartmentID, Code: req.Code, Title: req.Title,
			Type: req.Type, TargetAttainment: req.TargetAttainment,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, po)
	}
}

func AddQuestionCOWeightHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID int64   `json:"question_id" validate:"required,gt=0"`
			COID       int64   `json:"co_id" validate:"required,gt=0"`
			WeightPct  float64 `json:"weight_pct" validate:"required,gt=0,lte=100"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		edge, err := svc.AddQuestionCOWeight(r.Context(), req.QuestionID, req.COID, req.WeightPct)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, edge)
	}
}

func UpdateQuestionCOWeightHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID, err := pathID(r, "questionID")
		if err != nil {
			writeErr(w, err)
			return
		}
		coID, err := pathID(r, "coID")
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			WeightPct float64 `json:"weight_pct" validate:"required,gt=0,lte=100"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		if err := svc.UpdateQuestionCOWeight(r.Context(), questionID, coID, req.WeightPct); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func AddCOPOMappingHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			COID     int64 `json:"co_id" validate:"required,gt=0"`
			POID     int64 `json:"po_id" validate:"required,gt=0"`
			Strength int   `json:"strength" validate:"required,min=1,max=3"`
		}
		if err := decode(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		edge, err := svc.AddCOPOMapping(r.Context(), req.COID, req.POID, req.Strength)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, edge)
	}
}

func ListCourseOutcomesHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, err := pathID(r, "subjectID")
		if err != nil {
			writeErr(w, err)
			return
		}
		cos, err := svc.ListCourseOutcomes(r.Context(), subjectID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cos)
	}
}

func ListProgramOutcomesHandler(svc *outcome.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departmentID, err := pathID(r, "departmentID")
		if err != nil {
			writeErr(w, err)
			return
		}
		pos, err := svc.ListProgramOutcomes(r.Context(), departmentID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pos)
	}
}
