package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hirejourne/prep-agent/internal/config"
)

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		bucket  string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "path style",
			url:     "http://localhost:9000/resumes/user-1/abc.pdf",
			bucket:  "resumes",
			wantKey: "user-1/abc.pdf",
			wantOK:  true,
		},
		{
			name:    "virtual hosted",
			url:     "https://resumes.s3.us-east-1.amazonaws.com/user-1/abc.pdf",
			bucket:  "resumes",
			wantKey: "user-1/abc.pdf",
			wantOK:  true,
		},
		{
			name:    "legacy public object path",
			url:     "https://example.co/storage/v1/object/public/resumes/uploads/old.pdf",
			bucket:  "resumes",
			wantKey: "uploads/old.pdf",
			wantOK:  true,
		},
		{
			name:   "wrong bucket",
			url:    "http://localhost:9000/reports/abc.pdf",
			bucket: "resumes",
			wantOK: false,
		},
		{
			name:   "empty key",
			url:    "http://localhost:9000/resumes/",
			bucket: "resumes",
			wantOK: false,
		},
		{
			name:   "not a url",
			url:    "://bad",
			bucket: "resumes",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromURL(tt.url, tt.bucket)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, key)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	t.Run("custom endpoint uses path style", func(t *testing.T) {
		c := &Client{cfg: config.StorageConfig{Endpoint: "http://localhost:9000/", Region: "us-east-1"}}
		got := c.PublicURL("resumes", "u/f.pdf")
		assert.Equal(t, "http://localhost:9000/resumes/u/f.pdf", got)
	})

	t.Run("aws default uses virtual hosted style", func(t *testing.T) {
		c := &Client{cfg: config.StorageConfig{Region: "us-west-2"}}
		got := c.PublicURL("reports", "r.pdf")
		assert.Equal(t, "https://reports.s3.us-west-2.amazonaws.com/r.pdf", got)
	})
}

func TestPublicURLRoundTripsThroughKeyFromURL(t *testing.T) {
	c := &Client{cfg: config.StorageConfig{Endpoint: "http://localhost:9000", Region: "us-east-1"}}
	url := c.PublicURL("resumes", "user-9/cv.docx")
	key, ok := KeyFromURL(url, "resumes")
	assert.True(t, ok)
	assert.Equal(t, "user-9/cv.docx", key)
}
