package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/CipherCosmos/dsaba-lms-04-sub003/internal/api/http"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/attainment"
	auth "github.com/CipherCosmos/dsaba-lms-04-sub003/internal/auth/middleware"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/config"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/db"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/grading"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/marks"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/rbac"
	syncx "github.com/CipherCosmos/dsaba-lms-04-sub003/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatalf("academic policy: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Services ---
	outcomeSvc := outcome.NewService(outcome.NewSQLStore(dbh))
	ledger := marks.NewLedger(marks.NewSQLStore(dbh))
	gradeSvc := grading.NewService(grading.NewSQLStore(dbh), policy)
	attainSvc := attainment.NewService(attainment.NewSQLStore(dbh), attainment.BlendWeights{
		Direct:   policy.Attainment.DirectWeight,
		Indirect: policy.Attainment.IndirectWeight,
	})
	events := syncx.NewEventRepo(dbh)
	recomputer := syncx.NewRecomputer(events, gradeSvc, cfg.RecomputeInline)
	workflow := marks.NewWorkflow(marks.NewSQLStore(dbh), recomputer)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → identity in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Outcome graph (admin)
		pr.With(rbac.Require("outcomes:create")).
			Post("/questions", api.CreateQuestionHandler(outcomeSvc))
		pr.With(rbac.Require("outcomes:create")).
			Put("/questions/{questionID}/max-marks", api.UpdateQuestionMaxMarksHandler(outcomeSvc))
		pr.With(rbac.Require("outcomes:create")).
			Post("/course-outcomes", api.CreateCourseOutcomeHandler(outcomeSvc))
		pr.With(rbac.Require("outcomes:create")).
			Post("/program-outcomes", api.CreateProgramOutcomeHandler(outcomeSvc))
		pr.With(rbac.Require("outcomes:create")).
			Post("/question-co-weights", api.AddQuestionCOWeightHandler(outcomeSvc))
		pr.With(rbac.Require("outcomes:create")).
			Put("/questions/{questionID}/co-weights/{coID}", api.UpdateQuestionCOWeightHandler(outcomeSvc))
		pr.With(rbac.Require("outcomes:create")).
			Post("/co-po-mappings", api.AddCOPOMappingHandler(outcomeSvc))
		pr.With(rbac.RequireAny("outcomes:view", "attainment:view")).
			Get("/subjects/{subjectID}/course-outcomes", api.ListCourseOutcomesHandler(outcomeSvc))
		pr.With(rbac.RequireAny("outcomes:view", "attainment:view")).
			Get("/departments/{departmentID}/program-outcomes", api.ListProgramOutcomesHandler(outcomeSvc))

		// Mark entry (teacher)
		pr.With(rbac.Require("marks:enter")).
			Post("/marks/questions", api.RecordQuestionMarkHandler(ledger))
		pr.With(rbac.Require("marks:update")).
			Put("/marks/questions/{markID}", api.UpdateQuestionMarkHandler(ledger))
		pr.With(rbac.Require("marks:enter")).
			Post("/marks/internal", api.EnterInternalMarkHandler(ledger))
		pr.With(rbac.Require("marks:update")).
			Put("/marks/internal/{markID}", api.UpdateInternalMarkHandler(ledger))
		pr.With(rbac.Require("marks:view")).
			Get("/marks/internal/{markID}", api.GetInternalMarkHandler(ledger))

		// Workflow transitions
		pr.With(rbac.Require("marks:submit")).
			Post("/marks/internal/submit", api.SubmitMarksHandler(workflow))
		pr.With(rbac.Require("marks:approve")).
			Post("/marks/internal/{markID}/approve", api.ApproveMarkHandler(workflow))
		pr.With(rbac.Require("marks:reject")).
			Post("/marks/internal/{markID}/reject", api.RejectMarkHandler(workflow))
		pr.With(rbac.Require("marks:freeze")).
			Post("/marks/internal/{markID}/freeze", api.FreezeMarkHandler(workflow))
		pr.With(rbac.Require("marks:publish")).
			Post("/marks/internal/{markID}/publish", api.PublishMarkHandler(workflow))

		// Attainment reports
		pr.With(rbac.Require("attainment:view")).
			Get("/attainment/subjects/{subjectID}/co", api.SubjectCOAttainmentHandler(attainSvc))
		pr.With(rbac.Require("attainment:view")).
			Get("/attainment/departments/{departmentID}/po", api.POAttainmentHandler(attainSvc))
		pr.With(rbac.Require("attainment:view")).
			Get("/attainment/departments/{departmentID}/po/combined", api.CombinedPOAttainmentHandler(attainSvc))
		pr.With(rbac.Require("attainment:record-indirect")).
			Post("/attainment/indirect", api.RecordIndirectHandler(attainSvc))

		// Final marks and GPA
		pr.With(rbac.Require("finalmarks:recompute")).
			Post("/finalmarks/recompute", api.RecomputeFinalMarkHandler(gradeSvc))
		pr.With(rbac.Require("finalmarks:recompute")).
			Post("/subjects/{subjectID}/finalmarks/recompute", api.RecomputeSubjectHandler(gradeSvc))
		pr.With(rbac.Require("finalmarks:lock")).
			Post("/finalmarks/lock", api.LockFinalMarkHandler(gradeSvc))
		// Students may read their own records; staff need finalmarks:view.
		ownStudent := func(r *http.Request) bool {
			return chi.URLParam(r, "studentID") == rbac.UserFromContext(r.Context())
		}
		pr.With(rbac.RequireOwnerOr("finalmarks:view", ownStudent)).
			Get("/students/{studentID}/subjects/{subjectID}/finalmark", api.GetFinalMarkHandler(gradeSvc))
		pr.With(rbac.RequireOwnerOr("finalmarks:view", ownStudent)).
			Get("/students/{studentID}/sgpa", api.SGPAHandler(gradeSvc))
		pr.With(rbac.RequireOwnerOr("finalmarks:view", ownStudent)).
			Get("/students/{studentID}/cgpa", api.CGPAHandler(gradeSvc))

		// Audit trail and event feed
		pr.With(rbac.Require("audit:view")).
			Get("/audit", api.AuditTrailHandler(ledger))
		pr.With(rbac.Require("audit:view")).
			Get("/events", api.ListEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s driver=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(s.ListenAndServe())
}
