// Package job holds the in-memory state of in-flight backup/restore/delete
// workflows. A Job is created when a user issues the /mongo command and is
// removed on the first terminal transition (cancel, completed execution, or
// confirmed deletion). Nothing is persisted: an in-flight job is lost on
// process restart.
package job

import (
	"sync"

	"github.com/google/uuid"
)

// Format selects the mongodump output shape requested by the user.
type Format string

const (
	// FormatArchive is a single gzipped archive file (the default).
	FormatArchive Format = "gz"
	// FormatPlain is an uncompressed directory tree of BSON/JSON files.
	FormatPlain Format = "json"
)

// Job is one user-initiated workflow. Fields other than the database index
// are set at creation and never change; the index is populated lazily the
// first time the user asks to pick a single database. The design assumes at
// most one in-flight callback per job, so Job itself carries no lock.
type Job struct {
	ID      string
	URI     string
	Format  Format
	ChatID  int64
	OwnerID int64

	// MessageID is the menu message the bot edits as the job advances.
	MessageID int

	// Databases maps short keys (slice positions) to database names. Keys
	// are stable for the lifetime of the job and keep callback payloads
	// small regardless of database name length.
	Databases []string
	Page      int

	reverse map[string]int
}

// SetDatabases installs the database index and rebuilds the reverse map.
func (j *Job) SetDatabases(names []string) {
	j.Databases = names
	j.reverse = make(map[string]int, len(names))
	for i, name := range names {
		j.reverse[name] = i
	}
}

// NameFor resolves a short key to a database name.
func (j *Job) NameFor(key int) (string, bool) {
	if key < 0 || key >= len(j.Databases) {
		return "", false
	}
	return j.Databases[key], true
}

// KeyFor resolves a database name to its short key.
func (j *Job) KeyFor(name string) (int, bool) {
	key, ok := j.reverse[name]
	return key, ok
}

// Registry is the process-wide mapping from job ID to live job. It is
// shared by every update handler goroutine, so all access goes through the
// mutex; there is no cross-job locking beyond the map itself.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create inserts a new job with a fresh unique ID and returns it.
func (r *Registry) Create(uri string, format Format, chatID, ownerID int64) *Job {
	j := &Job{
		ID:      uuid.New().String(),
		URI:     uri,
		Format:  format,
		ChatID:  chatID,
		OwnerID: ownerID,
	}

	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()

	return j
}

// Get returns the live job with the given ID, or nil if there is none.
// A stale callback for an already-removed job therefore resolves to nil
// rather than re-executing anything.
func (r *Registry) Get(id string) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobs[id]
}

// Remove deletes the job from the registry. It reports whether the job was
// present, so exactly one caller observes true per job.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return false
	}
	delete(r.jobs, id)
	return true
}

// Count returns the number of live jobs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
