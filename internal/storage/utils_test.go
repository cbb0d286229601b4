package storage

import (
	"context"
	"testing"
	"time"
)

func TestChartFilePath(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 5, 2, 0, time.UTC)
	tests := []struct {
		ext  string
		want string
	}{
		{"svg", "2026/03/07/BulletRow-2026-03-07-09-05-02.svg"},
		{".png", "2026/03/07/BulletRow-2026-03-07-09-05-02.png"},
	}
	for _, tt := range tests {
		if got := ChartFilePath(ts, tt.ext); got != tt.want {
			t.Errorf("ChartFilePath(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}

	local := time.Date(2026, 3, 7, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	if got, want := ChartBaseName(local), "2026/03/08/BulletRow-2026-03-08-01-30-00"; got != want {
		t.Errorf("ChartBaseName = %q, want %q", got, want)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"row.svg":   "image/svg+xml",
		"row.PNG":   "image/png",
		"row.html":  "text/html; charset=utf-8",
		"data.json": "application/json",
		"row.bin":   "application/octet-stream",
		"no-ext":    "application/octet-stream",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestParseDestination(t *testing.T) {
	tests := []struct {
		dest     string
		wantMode DeploymentMode
		wantRoot string
		wantPath string
		wantErr  bool
	}{
		{"gs://bucket/daily/row.svg", DeploymentGCS, "bucket", "daily/row.svg", false},
		{"out/row.svg", DeploymentLocal, "out/", "row.svg", false},
		{"row.png", DeploymentLocal, ".", "row.png", false},
		{"gs://bucket", "", "", "", true},
		{"gs:///row.svg", "", "", "", true},
		{"out/", "", "", "", true},
		{"", "", "", "", true},
	}
	for _, tt := range tests {
		mode, root, p, err := ParseDestination(tt.dest)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDestination(%q) expected error", tt.dest)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDestination(%q) unexpected error: %v", tt.dest, err)
			continue
		}
		if mode != tt.wantMode || root != tt.wantRoot || p != tt.wantPath {
			t.Errorf("ParseDestination(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.dest, mode, root, p, tt.wantMode, tt.wantRoot, tt.wantPath)
		}
	}
}

func TestFreeFilePath(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage client: %v", err)
	}

	base := "2026/10/15/BulletRow-2026-10-15-12-00-00"
	want := []string{base + ".svg", base + "-1.svg", base + "-2.svg"}
	for i, w := range want {
		got, err := FreeFilePath(ctx, client, base, ".svg")
		if err != nil {
			t.Fatalf("FreeFilePath #%d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("FreeFilePath #%d = %q, want %q", i, got, w)
		}
		if err := client.StoreFile(ctx, got, []byte("x")); err != nil {
			t.Fatalf("StoreFile failed: %v", err)
		}
	}

	got, err := FreeFilePath(ctx, client, base, "png")
	if err != nil {
		t.Fatalf("FreeFilePath failed: %v", err)
	}
	if got != base+".png" {
		t.Errorf("FreeFilePath for another extension = %q, want %q", got, base+".png")
	}
}
