package dump

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/telebackup/mongobot/internal/job"
)

func TestRestoreRejectsUnknownExtension(t *testing.T) {
	r := &Runner{Dir: t.TempDir()}

	err := r.Restore(context.Background(), "mongodb://localhost", "/tmp/backup.zip")
	if err == nil {
		t.Fatal("Restore accepted a .zip file")
	}
	if !strings.Contains(err.Error(), ".gz or .json") {
		t.Errorf("error %q does not mention accepted extensions", err)
	}
}

func TestDumpRejectsUnknownFormat(t *testing.T) {
	r := &Runner{Dir: t.TempDir()}

	if _, err := r.Dump(context.Background(), "mongodb://localhost", job.Format("tar"), ""); err == nil {
		t.Fatal("Dump accepted an unknown format")
	}
}

func TestDiagnosticPrefersToolOutput(t *testing.T) {
	if got := diagnostic([]byte("  Failed: bad auth  \n"), errors.New("exit status 1")); got != "Failed: bad auth" {
		t.Errorf("diagnostic = %q, want tool output", got)
	}
	if got := diagnostic(nil, errors.New("exit status 1")); got != "exit status 1" {
		t.Errorf("diagnostic = %q, want exit error", got)
	}
}
