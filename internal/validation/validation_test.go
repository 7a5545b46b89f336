package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@example.com"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{"", "plain", "a@b", "a b@c.com", "@b.co", "a@@b.co"}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("fullName", "Ada", "email", "a@b.co"); err != nil {
		t.Errorf("ValidateRequired = %v", err)
	}
	err := ValidateRequired("fullName", "Ada", "email", "  ")
	if err == nil || err.Error() != "email is required" {
		t.Errorf("ValidateRequired = %v, want email is required", err)
	}
}

// pngHeader is the 8-byte PNG signature followed by padding
var pngHeader = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestValidateFile(t *testing.T) {
	detected, err := ValidateFile(fileHeader(t, "ref.png", pngHeader), ImageConstraints)
	if err != nil {
		t.Fatalf("ValidateFile(png) = %v", err)
	}
	if detected != "image/png" {
		t.Errorf("detected = %q, want image/png", detected)
	}

	if _, err := ValidateFile(fileHeader(t, "notes.png", []byte("just text")), ImageConstraints); err == nil {
		t.Error("text disguised as png accepted")
	}
	if _, err := ValidateFile(fileHeader(t, "ref.txt", pngHeader), ImageConstraints); err == nil {
		t.Error("png with .txt extension accepted")
	}
	if _, err := ValidateFile(fileHeader(t, "ref.png", pngHeader)); err == nil {
		t.Error("no constraints accepted")
	}
}
