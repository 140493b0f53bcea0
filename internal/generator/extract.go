package generator

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ExtractText pulls plain text out of an uploaded material file. PDFs go
// through pdftotext reading from stdin; anything else is read as-is. Uploads
// are opaque to the rest of the system, so the filename extension is the only
// signal available here.
func ExtractText(filename string, r io.Reader) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return pdfToText(r)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func pdfToText(r io.Reader) (string, error) {
	cmd := exec.Command("pdftotext", "-", "-")
	cmd.Stdin = r
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}
