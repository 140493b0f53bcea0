package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/study-portal/study-portal/internal/db"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh, "sqlite")
}

func TestMaterialCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := MaterialRecord{
		Material: Material{ID: "m1", Title: "Chapter 1", Filename: "ch1.pdf"},
		BlobKey:  "materials/m1/ch1.pdf",
	}
	if err := s.PutMaterial(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	list, err := s.ListMaterials(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Chapter 1" {
		t.Fatalf("unexpected list: %+v", list)
	}

	title := "Chapter 1 (rev)"
	got, err := s.UpdateMaterial(ctx, "m1", MaterialPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != title || got.Filename != "ch1.pdf" || got.BlobKey != rec.BlobKey {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	deleted, err := s.DeleteMaterial(ctx, "m1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.BlobKey != rec.BlobKey {
		t.Fatalf("delete should return record with blob key, got %+v", deleted)
	}
	if _, err := s.GetMaterial(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}

func TestExamPublishListGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.PutExam(ctx, Exam{Title: "Final", Questions: fourQuestions()})
	if err != nil {
		t.Fatalf("put exam: %v", err)
	}
	if e.ID == "" || e.CreatedAt == 0 {
		t.Fatalf("put exam should assign id and created_at: %+v", e)
	}

	sums, err := s.ListExams(ctx)
	if err != nil {
		t.Fatalf("list exams: %v", err)
	}
	if len(sums) != 1 || sums[0].QuestionCount != 4 || sums[0].Title != "Final" {
		t.Fatalf("unexpected summaries: %+v", sums)
	}

	got, err := s.GetExam(ctx, e.ID)
	if err != nil {
		t.Fatalf("get exam: %v", err)
	}
	if len(got.Questions) != 4 || got.Questions[1].Answer != "B" {
		t.Fatalf("questions did not round-trip: %+v", got.Questions)
	}

	if err := s.DeleteExam(ctx, e.ID); err != nil {
		t.Fatalf("delete exam: %v", err)
	}
	if err := s.DeleteExam(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestResultUniquePerExamAndEmployee(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.PutExam(ctx, Exam{Title: "Quiz", Questions: fourQuestions()})
	if err != nil {
		t.Fatalf("put exam: %v", err)
	}

	taken, err := s.HasResult(ctx, e.ID, "Jane Doe")
	if err != nil || taken {
		t.Fatalf("fresh exam should have no result: taken=%v err=%v", taken, err)
	}

	r := Result{ExamID: e.ID, EmployeeName: "Jane Doe", Score: 2, TotalQuestions: 4, Percentage: "50.0"}
	if _, err := s.PutResult(ctx, r); err != nil {
		t.Fatalf("put result: %v", err)
	}
	if _, err := s.PutResult(ctx, r); !errors.Is(err, ErrDuplicateResult) {
		t.Fatalf("duplicate result: %v", err)
	}

	taken, err = s.HasResult(ctx, e.ID, "Jane Doe")
	if err != nil || !taken {
		t.Fatalf("result should be recorded: taken=%v err=%v", taken, err)
	}

	// Same employee, different exam is fine.
	e2, _ := s.PutExam(ctx, Exam{Title: "Quiz 2", Questions: fourQuestions()})
	if _, err := s.PutResult(ctx, Result{ExamID: e2.ID, EmployeeName: "Jane Doe", Score: 4, TotalQuestions: 4, Percentage: "100.0"}); err != nil {
		t.Fatalf("result on second exam: %v", err)
	}

	all, err := s.ListResults(ctx, "")
	if err != nil {
		t.Fatalf("list all results: %v", err)
	}
	if len(all) != 2 || all[0].ExamTitle != "Quiz" {
		t.Fatalf("unexpected results: %+v", all)
	}

	only, err := s.ListResults(ctx, e2.ID)
	if err != nil {
		t.Fatalf("list by exam: %v", err)
	}
	if len(only) != 1 || only[0].Percentage != "100.0" {
		t.Fatalf("unexpected per-exam results: %+v", only)
	}
}
