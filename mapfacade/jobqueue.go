package mapfacade

import "sync"

// jobQueue is the main-thread job queue spec §4.10 requires: every client
// mutation (marker/tile-source/camera calls) enqueues a closure here
// instead of mutating scene state directly, so Update drains them all at
// one fixed point per frame and the scene thread never observes a
// partially-applied batch of client edits.
type jobQueue struct {
	mu   sync.Mutex
	jobs []func()
}

func (q *jobQueue) post(job func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
}

// drain runs every job queued since the last drain, in submission order,
// and clears the queue. Jobs posted by a job mid-drain run on the next
// drain, not this one — keeps one Update call's work bounded.
func (q *jobQueue) drain() {
	q.mu.Lock()
	jobs := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	for _, job := range jobs {
		job()
	}
}
