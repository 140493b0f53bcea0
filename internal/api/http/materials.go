package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/study-portal/study-portal/internal/exam"
	"github.com/study-portal/study-portal/internal/storage"
)

func ListMaterialsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListMaterials(r.Context())
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, list)
	}
}

func UploadMaterialHandler(store exam.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimSpace(r.URL.Query().Get("title"))
		if title == "" {
			writeDetail(w, 400, "title is required")
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeDetail(w, 400, "file is required")
			return
		}
		defer f.Close()

		id := uuid.NewString()
		key := "materials/" + id + "/" + sanitizeFilename(hdr.Filename)
		if _, err := bs.Put(key, f); err != nil {
			writeDetail(w, 500, "store file: "+err.Error())
			return
		}
		rec := exam.MaterialRecord{
			Material: exam.Material{ID: id, Title: title, Filename: hdr.Filename},
			BlobKey:  key,
		}
		if err := store.PutMaterial(r.Context(), rec); err != nil {
			_ = bs.Delete(key)
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]string{"message": "File uploaded successfully", "material_id": id})
	}
}

func UpdateMaterialHandler(store exam.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "materialID")

		var patch exam.MaterialPatch
		if t := strings.TrimSpace(r.FormValue("title")); t != "" {
			patch.Title = &t
		}

		var oldKey string
		if f, hdr, err := r.FormFile("file"); err == nil {
			defer f.Close()
			prev, err := store.GetMaterial(r.Context(), id)
			if err != nil {
				writeNotFoundOr500(w, err, "Material not found")
				return
			}
			oldKey = prev.BlobKey
			key := "materials/" + id + "/" + sanitizeFilename(hdr.Filename)
			if _, err := bs.Put(key, f); err != nil {
				writeDetail(w, 500, "store file: "+err.Error())
				return
			}
			name := hdr.Filename
			patch.Filename = &name
			patch.BlobKey = &key
		}

		if patch.Empty() {
			writeDetail(w, 400, "provide a new title or file")
			return
		}

		rec, err := store.UpdateMaterial(r.Context(), id, patch)
		if err != nil {
			writeNotFoundOr500(w, err, "Material not found")
			return
		}
		if oldKey != "" && oldKey != rec.BlobKey {
			_ = bs.Delete(oldKey)
		}
		writeJSON(w, 200, map[string]interface{}{
			"message":          "Material updated successfully",
			"updated_material": rec.Material,
		})
	}
}

func DeleteMaterialHandler(store exam.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "materialID")
		rec, err := store.DeleteMaterial(r.Context(), id)
		if err != nil {
			writeNotFoundOr500(w, err, "Material not found")
			return
		}
		_ = bs.Delete(rec.BlobKey)
		writeJSON(w, 200, map[string]string{"message": "Material and file deleted successfully", "material_id": id})
	}
}

func DownloadMaterialHandler(store exam.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "materialID")
		rec, err := store.GetMaterial(r.Context(), id)
		if err != nil {
			writeNotFoundOr500(w, err, "Material not found")
			return
		}
		rc, err := bs.Get(rec.BlobKey)
		if err != nil {
			writeDetail(w, 404, "Material file not found")
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": rec.Filename}))
		_, _ = io.Copy(w, rc)
	}
}

func writeNotFoundOr500(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, exam.ErrNotFound) {
		writeDetail(w, 404, msg)
		return
	}
	writeDetail(w, 500, err.Error())
}

// sanitizeFilename keeps blob keys flat: path separators and parent refs in
// client-supplied filenames must not escape the material's directory.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		name = "upload.bin"
	}
	return name
}
