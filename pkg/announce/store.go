package announce

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Store keeps jobs by id in insertion order. It does no locking of its own;
// the Scheduler serializes every access.
type Store struct {
	jobs  map[string]*Job
	order []string
	newID func() string
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		jobs:  make(map[string]*Job),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (s *Store) Create(schedule Schedule, target snowflake.ID, payload string, nextRunAt time.Time) string {
	id := s.newID()
	for _, ok := s.jobs[id]; ok; _, ok = s.jobs[id] {
		id = s.newID()
	}
	s.jobs[id] = &Job{
		ID:        id,
		Schedule:  schedule,
		Target:    target,
		Payload:   payload,
		NextRunAt: nextRunAt,
		Status:    StatusPending,
		CreatedAt: s.now(),
	}
	s.order = append(s.order, id)
	return id
}

func (s *Store) Get(id string) (Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, errors.Wrapf(ErrNotFound, "job %q", id)
	}
	return *job, nil
}

func (s *Store) UpdatePayload(id string, payload string) error {
	job, ok := s.jobs[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "job %q", id)
	}
	job.Payload = payload
	return nil
}

func (s *Store) Remove(id string) (Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, errors.Wrapf(ErrNotFound, "job %q", id)
	}
	delete(s.jobs, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool {
		return o == id
	})
	return *job, nil
}

func (s *Store) List() []Job {
	jobs := make([]Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, *s.jobs[id])
	}
	return jobs
}

func (s *Store) Len() int {
	return len(s.order)
}

// rearm moves a pending job to its next occurrence.
func (s *Store) rearm(id string, next time.Time) {
	if job, ok := s.jobs[id]; ok {
		job.NextRunAt = next
	}
}
