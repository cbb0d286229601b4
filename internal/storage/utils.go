package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// ChartBaseName generates a dated path for a rendered chart, without extension
// Format: YYYY/MM/DD/BulletRow-YYYY-MM-DD-HH-MM-SS
func ChartBaseName(timestamp time.Time) string {
	ts := timestamp.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/BulletRow-%s",
		ts.Year(), ts.Month(), ts.Day(),
		ts.Format("2006-01-02-15-04-05"))
}

// ChartFilePath is ChartBaseName with the given extension
func ChartFilePath(timestamp time.Time, ext string) string {
	return ChartBaseName(timestamp) + "." + strings.TrimPrefix(ext, ".")
}

// maxNameAttempts bounds the suffixes FreeFilePath tries
const maxNameAttempts = 1000

// FreeFilePath returns base.ext, or the first base-N.ext (N from 1) that
// does not exist yet in c. Callers that store concurrently must serialize
// the lookup and the write.
func FreeFilePath(ctx context.Context, c StorageClient, base, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	for n := 0; n < maxNameAttempts; n++ {
		name := base + "." + ext
		if n > 0 {
			name = fmt.Sprintf("%s-%d.%s", base, n, ext)
		}
		exists, err := c.FileExists(ctx, name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s.%s after %d attempts", base, ext, maxNameAttempts)
}

// ContentType determines the MIME content type based on file extension
func ContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ParseDestination splits an output target into a mode, a root and a path.
// "gs://bucket/dir/file.svg" selects GCS; anything else is a local path
// whose directory becomes the root.
func ParseDestination(dest string) (DeploymentMode, string, string, error) {
	if rest, ok := strings.CutPrefix(dest, "gs://"); ok {
		bucket, object, found := strings.Cut(rest, "/")
		if bucket == "" || !found || object == "" {
			return "", "", "", fmt.Errorf("invalid gcs destination %q (want gs://bucket/object)", dest)
		}
		return DeploymentGCS, bucket, object, nil
	}
	if dest == "" {
		return "", "", "", fmt.Errorf("empty destination")
	}
	dir, file := path.Split(strings.ReplaceAll(dest, "\\", "/"))
	if file == "" {
		return "", "", "", fmt.Errorf("destination %q has no file name", dest)
	}
	if dir == "" {
		dir = "."
	}
	return DeploymentLocal, dir, file, nil
}
