package mcpserver

import (
	"context"
	"fmt"
	"testing"
)

func TestServerStartStop(t *testing.T) {
	srv := setupTestServer(t)

	port, err := srv.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if port == 0 {
		t.Error("Expected a bound port")
	}
	if want := fmt.Sprintf("http://localhost:%d/mcp", port); srv.URL() != want {
		t.Errorf("URL = %q, expected %q", srv.URL(), want)
	}

	// Double start is rejected.
	if _, err := srv.Start(context.Background()); err == nil {
		t.Error("Expected error on second Start")
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	// Stop is idempotent.
	if err := srv.Stop(); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}
}
