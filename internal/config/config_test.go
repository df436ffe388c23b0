package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MaxFileSize != 10*MiB {
		t.Fatalf("max file size = %d", c.MaxFileSize)
	}
	p, ok := c.Downloads["500mb"]
	if !ok || p.TotalBytes != 25*MiB || p.ChunkBytes != 5*MiB {
		t.Fatalf("unexpected 500mb profile: %+v", p)
	}
	if c.TextStream.Interval != 50*time.Millisecond {
		t.Fatalf("text interval = %s", c.TextStream.Interval)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
listen_addr: ":9000"
uploads_dir: "/tmp/up"
downloads:
  1gb:
    total_bytes: 1024
    chunk_bytes: 100
text_stream:
  text: "hi\n"
  repeat: 3
  chunk_bytes: 2
  interval: 10ms
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LISTEN_ADDR", ":9100")
	t.Setenv("MAX_FILE_SIZE", "2048")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ListenAddr != ":9100" {
		t.Fatalf("listen addr = %q", c.ListenAddr)
	}
	if c.UploadsDir != "/tmp/up" {
		t.Fatalf("uploads dir = %q", c.UploadsDir)
	}
	if c.MaxFileSize != 2048 {
		t.Fatalf("max file size = %d", c.MaxFileSize)
	}
	if p := c.Downloads["1gb"]; p.TotalBytes != 1024 || p.ChunkBytes != 100 {
		t.Fatalf("1gb profile = %+v", p)
	}
	if c.TextStream.Interval != 10*time.Millisecond || c.TextStream.Repeat != 3 {
		t.Fatalf("text stream = %+v", c.TextStream)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }},
		{"empty uploads dir", func(c *Config) { c.UploadsDir = " " }},
		{"zero chunk", func(c *Config) { c.Downloads["x"] = DownloadProfile{TotalBytes: 1} }},
		{"zero json chunk", func(c *Config) { c.JSONStream.ChunkBytes = 0 }},
		{"negative interval", func(c *Config) { c.TextStream.Interval = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
}
