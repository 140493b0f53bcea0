package session

import (
	"context"
	"io"
	"strings"

	"github.com/study-portal/study-portal/internal/exam"
)

// pruneSelection drops selected ids that no longer appear in the material
// list, so a stale selection can never feed exam generation.
func pruneSelection(sel map[string]bool, mats []exam.Material) map[string]bool {
	live := map[string]bool{}
	for _, m := range mats {
		if sel[m.ID] {
			live[m.ID] = true
		}
	}
	return live
}

// ToggleMaterial flips a material in or out of the generation selection.
// Unknown ids are ignored.
func (s *Session) ToggleMaterial(id string) error {
	st, err := s.employer()
	if err != nil {
		return err
	}
	known := false
	for _, m := range st.Materials {
		if m.ID == id {
			known = true
			break
		}
	}
	if !known {
		return validationf("unknown material %q", id)
	}
	if st.Selected[id] {
		delete(st.Selected, id)
	} else {
		st.Selected[id] = true
	}
	s.setState(st)
	return nil
}

// RefreshMaterials reloads the employer material list on demand.
func (s *Session) RefreshMaterials(ctx context.Context) error {
	if _, err := s.employer(); err != nil {
		return err
	}
	s.refreshEmployer(ctx)
	return nil
}

// UploadMaterial validates locally, uploads, and refreshes the list. Nothing
// is sent when the title or file is missing.
func (s *Session) UploadMaterial(ctx context.Context, title, filename string, content io.Reader) error {
	if _, err := s.employer(); err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		return validationf("title is required")
	}
	if strings.TrimSpace(filename) == "" || content == nil {
		return validationf("a file is required")
	}
	if !s.begin("upload") {
		return ErrInFlight
	}
	defer s.end("upload")

	if err := s.svc.UploadMaterial(ctx, title, filename, content); err != nil {
		s.notes.Error("Upload failed: " + err.Error())
		return err
	}
	s.notes.Success("Material uploaded")
	s.refreshEmployer(ctx)
	return nil
}

// UpdateMaterial edits a material's title, file, or both. At least one field
// must be supplied; an all-empty edit is rejected before any request.
func (s *Session) UpdateMaterial(ctx context.Context, id, newTitle, filename string, content io.Reader) error {
	if _, err := s.employer(); err != nil {
		return err
	}
	if strings.TrimSpace(newTitle) == "" && content == nil {
		return validationf("provide a new title or file")
	}
	if !s.begin("update:" + id) {
		return ErrInFlight
	}
	defer s.end("update:" + id)

	if err := s.svc.UpdateMaterial(ctx, id, newTitle, filename, content); err != nil {
		s.notes.Error("Update failed: " + err.Error())
		return err
	}
	s.notes.Success("Material updated")
	s.refreshEmployer(ctx)
	return nil
}

// DeleteMaterial asks for confirmation, deletes, drops the id from the
// selection, and refreshes.
func (s *Session) DeleteMaterial(ctx context.Context, id string) error {
	if _, err := s.employer(); err != nil {
		return err
	}
	if !s.confirm("Delete this material?") {
		return ErrCancelled
	}
	if !s.begin("delete:" + id) {
		return ErrInFlight
	}
	defer s.end("delete:" + id)

	if err := s.svc.DeleteMaterial(ctx, id); err != nil {
		s.notes.Error("Delete failed: " + err.Error())
		return err
	}
	if st, err := s.employer(); err == nil {
		delete(st.Selected, id)
		s.setState(st)
	}
	s.notes.Success("Material deleted")
	s.refreshEmployer(ctx)
	return nil
}

// DownloadMaterial streams a material's file for the host to save. Available
// from both dashboards; employees get read-only access to study from.
func (s *Session) DownloadMaterial(ctx context.Context, id string) (io.ReadCloser, error) {
	switch s.State().(type) {
	case EmployerDashboard, EmployeeDashboard:
	default:
		return nil, ErrWrongState
	}
	rc, err := s.svc.DownloadMaterial(ctx, id)
	if err != nil {
		s.notes.Error("Download failed: " + err.Error())
		return nil, err
	}
	return rc, nil
}
