package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	drive "google.golang.org/api/drive/v3"
)

func TestConvertToFileInfo(t *testing.T) {
	modifiedTime := "2023-01-02T15:30:00Z"

	driveFile := &drive.File{
		Id:           "file123",
		Name:         "test.pdf",
		MimeType:     "application/pdf",
		Size:         1024,
		ModifiedTime: modifiedTime,
		WebViewLink:  "https://drive.google.com/file/d/file123/view",
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file123" {
		t.Errorf("Expected ID file123, got %s", fileInfo.ID)
	}
	if fileInfo.Name != "test.pdf" {
		t.Errorf("Expected Name test.pdf, got %s", fileInfo.Name)
	}
	if fileInfo.MimeType != "application/pdf" {
		t.Errorf("Expected MimeType application/pdf, got %s", fileInfo.MimeType)
	}
	if fileInfo.Size != 1024 {
		t.Errorf("Expected Size 1024, got %d", fileInfo.Size)
	}
	if fileInfo.WebViewLink != "https://drive.google.com/file/d/file123/view" {
		t.Errorf("Expected WebViewLink, got %s", fileInfo.WebViewLink)
	}

	expectedModified, _ := time.Parse(time.RFC3339, modifiedTime)
	if !fileInfo.ModifiedTime.Equal(expectedModified) {
		t.Errorf("Expected ModifiedTime %v, got %v", expectedModified, fileInfo.ModifiedTime)
	}
}

func TestConvertToFileInfo_MinimalData(t *testing.T) {
	driveFile := &drive.File{
		Id:       "file456",
		Name:     "minimal.txt",
		MimeType: "text/plain",
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file456" {
		t.Errorf("Expected ID file456, got %s", fileInfo.ID)
	}
	if fileInfo.Size != 0 {
		t.Errorf("Expected Size 0, got %d", fileInfo.Size)
	}
	if !fileInfo.ModifiedTime.IsZero() {
		t.Errorf("Expected zero ModifiedTime, got %v", fileInfo.ModifiedTime)
	}
}

func TestListFiles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" {
			t.Errorf("Expected path /files, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Expected Bearer tok-123, got %s", got)
		}
		query := r.URL.Query()
		if got := query.Get("q"); got != "name contains 'report'" {
			t.Errorf("Expected query filter, got %q", got)
		}
		if got := query.Get("pageSize"); got != "5" {
			t.Errorf("Expected pageSize 5, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"files": [
				{"id": "f1", "name": "report.pdf", "mimeType": "application/pdf", "size": "2048", "modifiedTime": "2025-01-02T03:04:05Z"},
				{"id": "f2", "name": "report-draft.docx", "mimeType": "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
			],
			"nextPageToken": "page-2"
		}`))
	}))
	defer ts.Close()

	client := NewClient(WithEndpoint(ts.URL))
	files, nextPage, err := client.ListFiles(context.Background(), "tok-123", &ListOptions{
		Query:    "name contains 'report'",
		PageSize: 5,
	})
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	if files[0].ID != "f1" || files[0].Name != "report.pdf" {
		t.Errorf("Unexpected first file: %+v", files[0])
	}
	if files[0].Size != 2048 {
		t.Errorf("Expected Size 2048, got %d", files[0].Size)
	}
	if nextPage != "page-2" {
		t.Errorf("Expected nextPageToken page-2, got %s", nextPage)
	}
}

func TestListFilesDefaultPageSize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageSize"); got != "10" {
			t.Errorf("Expected default pageSize 10, got %s", got)
		}
		_, _ = w.Write([]byte(`{"files": []}`))
	}))
	defer ts.Close()

	client := NewClient(WithEndpoint(ts.URL))
	files, nextPage, err := client.ListFiles(context.Background(), "tok", nil)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files, got %d", len(files))
	}
	if nextPage != "" {
		t.Errorf("Expected empty nextPageToken, got %s", nextPage)
	}
}

func TestFolderMimeType(t *testing.T) {
	expectedMimeType := "application/vnd.google-apps.folder"
	if FolderMimeType != expectedMimeType {
		t.Errorf("Expected FolderMimeType %s, got %s", expectedMimeType, FolderMimeType)
	}
}
