// Package client consumes the portal service contract: materials CRUD and
// download, exam generation and publication, attempt checks, and result
// submission. Service errors carry the backend "detail" message when one is
// present; callers fall back to their own action-named message otherwise.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/study-portal/study-portal/internal/exam"
)

// APIError is a non-2xx response from the portal service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("service error (status %d)", e.StatusCode)
}

type Client struct {
	baseURL string
	hc      *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 5 * time.Minute}, // generation is slow on local models
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) ListMaterials(ctx context.Context) ([]exam.Material, error) {
	var out []exam.Material
	if err := c.getJSON(ctx, "/materials", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UploadMaterial(ctx context.Context, title, filename string, content io.Reader) error {
	body, contentType, err := fileForm(filename, content)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/materials/upload?title="+url.QueryEscape(title), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, nil)
}

// UpdateMaterial sends only the provided fields: an empty newTitle means the
// title is untouched, a nil content means the file is untouched.
func (c *Client) UpdateMaterial(ctx context.Context, id, newTitle, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if newTitle != "" {
		if err := mw.WriteField("title", newTitle); err != nil {
			return err
		}
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, content); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "PUT",
		c.baseURL+"/materials/"+url.PathEscape(id), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, nil)
}

func (c *Client) DeleteMaterial(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE",
		c.baseURL+"/materials/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DownloadMaterial streams the material's file content. The caller owns the
// returned reader.
func (c *Client) DownloadMaterial(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/materials/download/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode/100 != 2 {
		defer res.Body.Close()
		return nil, apiError(res)
	}
	return res.Body, nil
}

func (c *Client) GenerateExam(ctx context.Context, materialIDs []string, numQuestions int) ([]exam.Question, error) {
	var out struct {
		Exam []exam.Question `json:"exam"`
	}
	err := c.postJSON(ctx, "/exam/create", map[string]interface{}{
		"material_ids":  materialIDs,
		"num_questions": numQuestions,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Exam, nil
}

func (c *Client) PublishExam(ctx context.Context, title string, questions []exam.Question) error {
	return c.postJSON(ctx, "/exam/publish", map[string]interface{}{
		"title":     title,
		"questions": questions,
	}, nil)
}

func (c *Client) ListExams(ctx context.Context) ([]exam.Summary, error) {
	var out []exam.Summary
	if err := c.getJSON(ctx, "/exams", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetExam(ctx context.Context, id string) (exam.Exam, error) {
	var out exam.Exam
	if err := c.getJSON(ctx, "/exam/"+url.PathEscape(id), &out); err != nil {
		return exam.Exam{}, err
	}
	return out, nil
}

func (c *Client) DeleteExam(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE",
		c.baseURL+"/exam/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) CheckAttempt(ctx context.Context, examID, employeeName string) (bool, error) {
	var out struct {
		AlreadyTaken bool `json:"already_taken"`
	}
	p := "/exam/" + url.PathEscape(examID) + "/check-attempt/" + url.PathEscape(employeeName)
	if err := c.getJSON(ctx, p, &out); err != nil {
		return false, err
	}
	return out.AlreadyTaken, nil
}

func (c *Client) SubmitResult(ctx context.Context, examID, employeeName string, score exam.Score) error {
	return c.postJSON(ctx, "/exam/submit", map[string]interface{}{
		"exam_id":         examID,
		"employee_name":   employeeName,
		"score":           score.Correct,
		"total_questions": score.Total,
		"percentage":      score.Percentage,
	}, nil)
}

func (c *Client) ListAllResults(ctx context.Context) ([]exam.Result, error) {
	var out []exam.Result
	if err := c.getJSON(ctx, "/results/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListExamResults(ctx context.Context, examID string) ([]exam.Result, error) {
	var out []exam.Result
	if err := c.getJSON(ctx, "/exam/"+url.PathEscape(examID)+"/results", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) VerifyEmployer(ctx context.Context, passcode string) error {
	return c.postJSON(ctx, "/auth/employer", passcode, nil)
}

// --- plumbing ---

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return apiError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func apiError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

func fileForm(filename string, content io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
