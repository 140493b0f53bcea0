package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateResult = errors.New("result already recorded for this exam and employee")
)

// MaterialRecord is the service-side view of a material: the public metadata
// plus the blob key its file content lives under.
type MaterialRecord struct {
	Material
	BlobKey    string
	UploadedAt int64
}

// MaterialPatch carries the optional fields of a material update. At least
// one field must be set; NewMaterialPatch enforces that.
type MaterialPatch struct {
	Title    *string
	Filename *string
	BlobKey  *string
}

func (p MaterialPatch) Empty() bool {
	return p.Title == nil && p.Filename == nil && p.BlobKey == nil
}

// Store is the persistence surface behind the portal service.
type Store interface {
	PutMaterial(ctx context.Context, rec MaterialRecord) error
	ListMaterials(ctx context.Context) ([]Material, error)
	GetMaterial(ctx context.Context, id string) (MaterialRecord, error)
	UpdateMaterial(ctx context.Context, id string, patch MaterialPatch) (MaterialRecord, error)
	DeleteMaterial(ctx context.Context, id string) (MaterialRecord, error)

	PutExam(ctx context.Context, e Exam) (Exam, error)
	ListExams(ctx context.Context) ([]Summary, error)
	GetExam(ctx context.Context, id string) (Exam, error)
	DeleteExam(ctx context.Context, id string) error

	HasResult(ctx context.Context, examID, employeeName string) (bool, error)
	PutResult(ctx context.Context, r Result) (Result, error)
	ListResults(ctx context.Context, examID string) ([]Result, error)
}

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) PutMaterial(ctx context.Context, rec MaterialRecord) error {
	if rec.UploadedAt == 0 {
		rec.UploadedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO materials (id,title,filename,blob_key,uploaded_at) VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, rec.Title, rec.Filename, rec.BlobKey, rec.UploadedAt)
	return err
}

func (s *SQLStore) ListMaterials(ctx context.Context) ([]Material, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,filename FROM materials ORDER BY uploaded_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Material{}
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Title, &m.Filename); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetMaterial(ctx context.Context, id string) (MaterialRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,filename,blob_key,uploaded_at FROM materials WHERE id=$1`, id)
	var rec MaterialRecord
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Filename, &rec.BlobKey, &rec.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MaterialRecord{}, ErrNotFound
		}
		return MaterialRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) UpdateMaterial(ctx context.Context, id string, patch MaterialPatch) (MaterialRecord, error) {
	rec, err := s.GetMaterial(ctx, id)
	if err != nil {
		return MaterialRecord{}, err
	}
	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Filename != nil {
		rec.Filename = *patch.Filename
	}
	if patch.BlobKey != nil {
		rec.BlobKey = *patch.BlobKey
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE materials SET title=$1, filename=$2, blob_key=$3 WHERE id=$4`,
		rec.Title, rec.Filename, rec.BlobKey, id)
	if err != nil {
		return MaterialRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) DeleteMaterial(ctx context.Context, id string) (MaterialRecord, error) {
	rec, err := s.GetMaterial(ctx, id)
	if err != nil {
		return MaterialRecord{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM materials WHERE id=$1`, id); err != nil {
		return MaterialRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) (Exam, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return Exam{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exams (id,title,questions_json,created_at) VALUES ($1,$2,$3,$4)`,
		e.ID, e.Title, string(qj), e.CreatedAt)
	if err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,questions_json,created_at FROM exams ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var (
			sum   Summary
			qjson string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &qjson, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var qs []Question
		if err := json.Unmarshal([]byte(qjson), &qs); err != nil {
			return nil, err
		}
		sum.QuestionCount = len(qs)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,questions_json,created_at FROM exams WHERE id=$1`, id)
	var (
		e     Exam
		qjson string
	)
	if err := row.Scan(&e.ID, &e.Title, &qjson, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, err
	}
	return e, nil
}

// DeleteExam removes a published exam and its recorded results. Results are
// deleted explicitly rather than via the FK cascade, which sqlite only
// enforces on connections that have run the pragma.
func (s *SQLStore) DeleteExam(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exam_results WHERE exam_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) HasResult(ctx context.Context, examID, employeeName string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM exam_results WHERE exam_id=$1 AND employee_name=$2`,
		examID, employeeName).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) PutResult(ctx context.Context, r Result) (Result, error) {
	taken, err := s.HasResult(ctx, r.ExamID, r.EmployeeName)
	if err != nil {
		return Result{}, err
	}
	if taken {
		return Result{}, ErrDuplicateResult
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CompletedAt == 0 {
		r.CompletedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exam_results (id,exam_id,employee_name,score,total_questions,percentage,completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.ExamID, r.EmployeeName, r.Score, r.TotalQuestions, r.Percentage, r.CompletedAt)
	if err != nil {
		return Result{}, err
	}
	return r, nil
}

func (s *SQLStore) ListResults(ctx context.Context, examID string) ([]Result, error) {
	q := `SELECT r.id, r.exam_id, COALESCE(e.title,'Unknown'), r.employee_name,
	             r.score, r.total_questions, r.percentage, r.completed_at
	      FROM exam_results r LEFT JOIN exams e ON e.id = r.exam_id`
	args := []any{}
	if examID != "" {
		q += ` WHERE r.exam_id=$1`
		args = append(args, examID)
	}
	q += ` ORDER BY r.completed_at, r.id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.ExamID, &r.ExamTitle, &r.EmployeeName,
			&r.Score, &r.TotalQuestions, &r.Percentage, &r.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
