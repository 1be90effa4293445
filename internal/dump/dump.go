// Package dump shells out to the MongoDB database tools. mongodump and
// mongorestore do the real work; this package only builds their command
// lines, names the artifacts, and turns non-zero exits into diagnostics.
package dump

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/telebackup/mongobot/internal/job"
	"github.com/telebackup/mongobot/internal/mongouri"
)

// Runner executes mongodump/mongorestore with artifacts rooted in Dir.
type Runner struct {
	Dir string
	Log *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Dump backs up the server at uri into a fresh artifact under r.Dir and
// returns its path. An empty db targets every database; otherwise only the
// named one. The subprocess runs to completion or failure; there is no
// internal timeout.
func (r *Runner) Dump(ctx context.Context, uri string, format job.Format, db string) (string, error) {
	timestamp := time.Now().Format("20060102-150405")

	var path string
	args := []string{"--uri=" + uri}
	switch format {
	case job.FormatArchive:
		path = filepath.Join(r.Dir, "mongo_backup_"+timestamp+".gz")
		args = append(args, "--archive="+path, "--gzip")
	case job.FormatPlain:
		path = filepath.Join(r.Dir, "mongo_backup_"+timestamp)
		args = append(args, "--out="+path)
	default:
		return "", fmt.Errorf("unsupported backup format %q", format)
	}
	if db != "" {
		args = append(args, "--db="+db)
	}

	log := r.logger()
	log.Info("running mongodump", "uri", mongouri.Mask(uri), "format", format, "db", db, "path", path)

	cmd := exec.CommandContext(ctx, "mongodump", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		diag := diagnostic(output, err)
		log.Error("mongodump failed", "uri", mongouri.Mask(uri), "error", diag)
		return "", fmt.Errorf("mongodump failed: %s", diag)
	}

	log.Info("mongodump completed", "path", path)
	return path, nil
}

// Restore loads the artifact at path into the server at uri. The file
// extension selects the mode: .gz is a gzipped archive, .json a plain one.
func (r *Runner) Restore(ctx context.Context, uri, path string) error {
	args := []string{"--uri=" + uri, "--archive=" + path}
	switch {
	case strings.HasSuffix(path, ".gz"):
		args = append(args, "--gzip")
	case strings.HasSuffix(path, ".json"):
	default:
		return fmt.Errorf("unsupported backup file %q: expected a .gz or .json archive", filepath.Base(path))
	}

	log := r.logger()
	log.Info("running mongorestore", "uri", mongouri.Mask(uri), "path", path)

	cmd := exec.CommandContext(ctx, "mongorestore", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		diag := diagnostic(output, err)
		log.Error("mongorestore failed", "uri", mongouri.Mask(uri), "error", diag)
		return fmt.Errorf("mongorestore failed: %s", diag)
	}

	log.Info("mongorestore completed", "path", path)
	return nil
}

// diagnostic prefers the tool's own output over the bare exit error.
func diagnostic(output []byte, err error) string {
	if s := strings.TrimSpace(string(output)); s != "" {
		return s
	}
	return err.Error()
}
