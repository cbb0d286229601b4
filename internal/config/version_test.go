package config

import "testing"

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name         string
		envVersion   string
		buildVersion string
		want         string
	}{
		{
			name:         "version from environment variable",
			envVersion:   "1.2.3",
			buildVersion: "9.9.9",
			want:         "1.2.3",
		},
		{
			name:         "version stamped at build time",
			buildVersion: "2.0.0-beta.1",
			want:         "2.0.0-beta.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_VERSION", tt.envVersion)
			if got := GetVersion(tt.buildVersion); got != tt.want {
				t.Errorf("GetVersion(%q) = %q, want %q", tt.buildVersion, got, tt.want)
			}
		})
	}
}

func TestGetVersionDevBuild(t *testing.T) {
	t.Setenv("APP_VERSION", "")
	if got := GetVersion("dev"); got == "" || got == "dev" {
		t.Errorf("GetVersion(dev) = %q, want a resolved version", got)
	}
}
