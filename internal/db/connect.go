package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:attainment.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/attainment?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS departments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  department_id INTEGER NOT NULL REFERENCES departments(id),
  semester_id INTEGER NOT NULL,
  academic_year TEXT NOT NULL DEFAULT '',
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  credits REAL NOT NULL DEFAULT 3,
  max_internal REAL NOT NULL DEFAULT 40,
  max_external REAL NOT NULL DEFAULT 60,
  UNIQUE (department_id, code)
);

CREATE TABLE IF NOT EXISTS students (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  department_id INTEGER NOT NULL REFERENCES departments(id),
  roll_no TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exams (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  subject_id INTEGER NOT NULL REFERENCES subjects(id),
  exam_type TEXT NOT NULL,  -- ia1|ia2|assignment|semester
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  exam_id INTEGER NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
  number TEXT NOT NULL,
  max_marks REAL NOT NULL,
  section TEXT NOT NULL DEFAULT '',
  difficulty TEXT NOT NULL DEFAULT 'medium'
);

CREATE TABLE IF NOT EXISTS course_outcomes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
  code TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  target_attainment REAL NOT NULL,
  l1_threshold REAL NOT NULL,
  l2_threshold REAL NOT NULL,
  l3_threshold REAL NOT NULL,
  UNIQUE (subject_id, code)
);

CREATE TABLE IF NOT EXISTS program_outcomes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  department_id INTEGER NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
  code TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  po_type TEXT NOT NULL DEFAULT 'PO',  -- PO|PSO
  target_attainment REAL NOT NULL,
  UNIQUE (department_id, code)
);

CREATE TABLE IF NOT EXISTS question_co_weights (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  co_id INTEGER NOT NULL REFERENCES course_outcomes(id) ON DELETE CASCADE,
  weight_pct REAL NOT NULL,
  UNIQUE (question_id, co_id)
);

CREATE TABLE IF NOT EXISTS co_po_mappings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  co_id INTEGER NOT NULL REFERENCES course_outcomes(id) ON DELETE CASCADE,
  po_id INTEGER NOT NULL REFERENCES program_outcomes(id) ON DELETE CASCADE,
  strength INTEGER NOT NULL,  -- 1|2|3
  UNIQUE (co_id, po_id)
);

CREATE TABLE IF NOT EXISTS question_marks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  question_id INTEGER NOT NULL REFERENCES questions(id),
  student_id INTEGER NOT NULL REFERENCES students(id),
  marks_obtained REAL NOT NULL,
  UNIQUE (question_id, student_id)
);

CREATE TABLE IF NOT EXISTS internal_marks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  student_id INTEGER NOT NULL REFERENCES students(id),
  subject_id INTEGER NOT NULL REFERENCES subjects(id),
  component_type TEXT NOT NULL,  -- ia1|ia2|assignment
  marks_obtained REAL NOT NULL,
  max_marks REAL NOT NULL,
  workflow_state TEXT NOT NULL DEFAULT 'draft',
  submitted_at INTEGER,
  submitted_by TEXT NOT NULL DEFAULT '',
  approved_at INTEGER,
  approved_by TEXT NOT NULL DEFAULT '',
  rejected_reason TEXT NOT NULL DEFAULT '',
  frozen_at INTEGER,
  frozen_by TEXT NOT NULL DEFAULT '',
  published_at INTEGER,
  version INTEGER NOT NULL DEFAULT 0,
  UNIQUE (student_id, subject_id, component_type)
);

CREATE TABLE IF NOT EXISTS external_marks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  student_id INTEGER NOT NULL REFERENCES students(id),
  subject_id INTEGER NOT NULL REFERENCES subjects(id),
  marks_obtained REAL NOT NULL,
  UNIQUE (student_id, subject_id)
);

CREATE TABLE IF NOT EXISTS final_marks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  student_id INTEGER NOT NULL REFERENCES students(id),
  subject_id INTEGER NOT NULL REFERENCES subjects(id),
  semester_id INTEGER NOT NULL,
  best_internal REAL NOT NULL DEFAULT 0,
  external REAL NOT NULL DEFAULT 0,
  total REAL NOT NULL DEFAULT 0,
  percentage REAL NOT NULL DEFAULT 0,
  grade TEXT NOT NULL DEFAULT '',
  grade_point REAL NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'editable',  -- editable|locked
  UNIQUE (student_id, subject_id)
);

CREATE TABLE IF NOT EXISTS mark_audit_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batch_id TEXT NOT NULL,
  mark_table TEXT NOT NULL,  -- question_marks|internal_marks
  mark_id INTEGER NOT NULL,
  field_changed TEXT NOT NULL,
  old_value TEXT NOT NULL DEFAULT '',
  new_value TEXT NOT NULL DEFAULT '',
  reason TEXT NOT NULL DEFAULT '',
  change_type TEXT NOT NULL,  -- create|update|transition
  changed_by TEXT NOT NULL,
  changed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS indirect_attainment (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  department_id INTEGER NOT NULL REFERENCES departments(id),
  po_id INTEGER NOT NULL REFERENCES program_outcomes(id),
  academic_year TEXT NOT NULL,
  source TEXT NOT NULL,  -- graduate_survey|employer_survey|exit_exam
  pct REAL NOT NULL,
  UNIQUE (po_id, academic_year, source)
);

CREATE TABLE IF NOT EXISTS event_log (
  offset INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  typ TEXT NOT NULL,                        -- e.g., RecomputeRequested
  key TEXT NOT NULL,                        -- natural key: subjectID or markID
  data TEXT NOT NULL,                       -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS departments (
  id BIGSERIAL PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
  id BIGSERIAL PRIMARY KEY,
  department_id BIGINT NOT NULL REFERENCES departments(id),
  semester_id BIGINT NOT NULL,
  academic_year TEXT NOT NULL DEFAULT '',
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  credits DOUBLE PRECISION NOT NULL DEFAULT 3,
  max_internal DOUBLE PRECISION NOT NULL DEFAULT 40,
  max_external DOUBLE PRECISION NOT NULL DEFAULT 60,
  UNIQUE (department_id, code)
);

CREATE TABLE IF NOT EXISTS students (
  id BIGSERIAL PRIMARY KEY,
  department_id BIGINT NOT NULL REFERENCES departments(id),
  roll_no TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exams (
  id BIGSERIAL PRIMARY KEY,
  subject_id BIGINT NOT NULL REFERENCES subjects(id),
  exam_type TEXT NOT NULL,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id BIGSERIAL PRIMARY KEY,
  exam_id BIGINT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
  number TEXT NOT NULL,
  max_marks DOUBLE PRECISION NOT NULL,
  section TEXT NOT NULL DEFAULT '',
  difficulty TEXT NOT NULL DEFAULT 'medium'
);

CREATE TABLE IF NOT EXISTS course_outcomes (
  id BIGSERIAL PRIMARY KEY,
  subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
  code TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  target_attainment DOUBLE PRECISION NOT NULL,
  l1_threshold DOUBLE PRECISION NOT NULL,
  l2_threshold DOUBLE PRECISION NOT NULL,
  l3_threshold DOUBLE PRECISION NOT NULL,
  UNIQUE (subject_id, code)
);

CREATE TABLE IF NOT EXISTS program_outcomes (
  id BIGSERIAL PRIMARY KEY,
  department_id BIGINT NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
  code TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  po_type TEXT NOT NULL DEFAULT 'PO',
  target_attainment DOUBLE PRECISION NOT NULL,
  UNIQUE (department_id, code)
);

CREATE TABLE IF NOT EXISTS question_co_weights (
  id BIGSERIAL PRIMARY KEY,
  question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  co_id BIGINT NOT NULL REFERENCES course_outcomes(id) ON DELETE CASCADE,
  weight_pct DOUBLE PRECISION NOT NULL,
  UNIQUE (question_id, co_id)
);

CREATE TABLE IF NOT EXISTS co_po_mappings (
  id BIGSERIAL PRIMARY KEY,
  co_id BIGINT NOT NULL REFERENCES course_outcomes(id) ON DELETE CASCADE,
  po_id BIGINT NOT NULL REFERENCES program_outcomes(id) ON DELETE CASCADE,
  strength INTEGER NOT NULL,
  UNIQUE (co_id, po_id)
);

CREATE TABLE IF NOT EXISTS question_marks (
  id BIGSERIAL PRIMARY KEY,
  question_id BIGINT NOT NULL REFERENCES questions(id),
  student_id BIGINT NOT NULL REFERENCES students(id),
  marks_obtained DOUBLE PRECISION NOT NULL,
  UNIQUE (question_id, student_id)
);

CREATE TABLE IF NOT EXISTS internal_marks (
  id BIGSERIAL PRIMARY KEY,
  student_id BIGINT NOT NULL REFERENCES students(id),
  subject_id BIGINT NOT NULL REFERENCES subjects(id),
  component_type TEXT NOT NULL,
  marks_obtained DOUBLE PRECISION NOT NULL,
  max_marks DOUBLE PRECISION NOT NULL,
  workflow_state TEXT NOT NULL DEFAULT 'draft',
  submitted_at BIGINT,
  submitted_by TEXT NOT NULL DEFAULT '',
  approved_at BIGINT,
  approved_by TEXT NOT NULL DEFAULT '',
  rejected_reason TEXT NOT NULL DEFAULT '',
  frozen_at BIGINT,
  frozen_by TEXT NOT NULL DEFAULT '',
  published_at BIGINT,
  version BIGINT NOT NULL DEFAULT 0,
  UNIQUE (student_id, subject_id, component_type)
);

CREATE TABLE IF NOT EXISTS external_marks (
  id BIGSERIAL PRIMARY KEY,
  student_id BIGINT NOT NULL REFERENCES students(id),
  subject_id BIGINT NOT NULL REFERENCES subjects(id),
  marks_obtained DOUBLE PRECISION NOT NULL,
  UNIQUE (student_id, subject_id)
);

CREATE TABLE IF NOT EXISTS final_marks (
  id BIGSERIAL PRIMARY KEY,
  student_id BIGINT NOT NULL REFERENCES students(id),
  subject_id BIGINT NOT NULL REFERENCES subjects(id),
  semester_id BIGINT NOT NULL,
  best_internal DOUBLE PRECISION NOT NULL DEFAULT 0,
  external DOUBLE PRECISION NOT NULL DEFAULT 0,
  total DOUBLE PRECISION NOT NULL DEFAULT 0,
  percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
  grade TEXT NOT NULL DEFAULT '',
  grade_point DOUBLE PRECISION NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'editable',
  UNIQUE (student_id, subject_id)
);

CREATE TABLE IF NOT EXISTS mark_audit_log (
  id BIGSERIAL PRIMARY KEY,
  batch_id TEXT NOT NULL,
  mark_table TEXT NOT NULL,
  mark_id BIGINT NOT NULL,
  field_changed TEXT NOT NULL,
  old_value TEXT NOT NULL DEFAULT '',
  new_value TEXT NOT NULL DEFAULT '',
  reason TEXT NOT NULL DEFAULT '',
  change_type TEXT NOT NULL,
  changed_by TEXT NOT NULL,
  changed_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS indirect_attainment (
  id BIGSERIAL PRIMARY KEY,
  department_id BIGINT NOT NULL REFERENCES departments(id),
  po_id BIGINT NOT NULL REFERENCES program_outcomes(id),
  academic_year TEXT NOT NULL,
  source TEXT NOT NULL,
  pct DOUBLE PRECISION NOT NULL,
  UNIQUE (po_id, academic_year, source)
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
