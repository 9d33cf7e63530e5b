//go:build integration

package github

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFetchManifest_Integration(t *testing.T) {
	client := NewRawClient(RawConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, branch, err := client.FetchManifest(ctx, "expressjs", "express", "")
	if err != nil {
		t.Fatalf("FetchManifest() error: %v", err)
	}
	if branch == "" || !strings.Contains(text, `"name"`) {
		t.Errorf("unexpected manifest from %q: %.80s", branch, text)
	}
}
