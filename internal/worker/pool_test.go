package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type echoJob struct {
	id      int
	sleep   time.Duration
	fail    error
	started func()
}

type echoResult struct {
	id  int
	err error
}

func (r *echoResult) GetError() error { return r.err }

func (j *echoJob) Execute(ctx context.Context) Result {
	if j.started != nil {
		j.started()
	}
	if j.sleep > 0 {
		select {
		case <-time.After(j.sleep):
		case <-ctx.Done():
			return &echoResult{id: j.id, err: ctx.Err()}
		}
	}
	return &echoResult{id: j.id, err: j.fail}
}

func TestPool_ResultsLineUpWithJobs(t *testing.T) {
	jobs := make([]Job, 50)
	for i := range jobs {
		jobs[i] = &echoJob{id: i}
	}

	results := NewPool(8).Run(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results for %d jobs", len(results), len(jobs))
	}
	for i, res := range results {
		er, ok := res.(*echoResult)
		if !ok {
			t.Fatalf("result %d has unexpected type %T", i, res)
		}
		if er.id != i {
			t.Errorf("result %d carries job %d", i, er.id)
		}
	}
}

func TestPool_ErrorsStayWithTheirJob(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		&echoJob{id: 0},
		&echoJob{id: 1, fail: boom},
		&echoJob{id: 2},
	}

	results := NewPool(2).Run(context.Background(), jobs)
	if err := results[0].GetError(); err != nil {
		t.Errorf("job 0: unexpected error %v", err)
	}
	if err := results[1].GetError(); !errors.Is(err, boom) {
		t.Errorf("job 1: error = %v, want boom", err)
	}
	if err := results[2].GetError(); err != nil {
		t.Errorf("job 2: unexpected error %v", err)
	}
}

type gaugeJob struct {
	active *int64
	peak   *int64
	mu     *sync.Mutex
}

func (j *gaugeJob) Execute(ctx context.Context) Result {
	j.mu.Lock()
	*j.active++
	if *j.active > *j.peak {
		*j.peak = *j.active
	}
	j.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	j.mu.Lock()
	*j.active--
	j.mu.Unlock()
	return &echoResult{}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 3

	var active, peak int64
	var mu sync.Mutex
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = &gaugeJob{active: &active, peak: &peak, mu: &mu}
	}

	NewPool(workers).Run(context.Background(), jobs)

	mu.Lock()
	defer mu.Unlock()
	if peak > int64(workers) {
		t.Errorf("observed %d concurrent jobs, limit is %d", peak, workers)
	}
}

func TestPool_CancelledJobsDoNotExecute(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int64
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = &echoJob{id: i, started: func() { atomic.AddInt64(&executed, 1) }}
	}

	results := NewPool(2).Run(ctx, jobs)
	for i, res := range results {
		if res == nil {
			t.Fatalf("result %d is nil", i)
		}
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("result %d: error = %v, want context.Canceled", i, res.GetError())
		}
	}
	if n := atomic.LoadInt64(&executed); n != 0 {
		t.Errorf("%d jobs executed after cancellation", n)
	}
}

func TestPool_ZeroWorkersStillRuns(t *testing.T) {
	results := NewPool(0).Run(context.Background(), []Job{&echoJob{id: 7}})
	if len(results) != 1 || results[0].GetError() != nil {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestPool_NoJobs(t *testing.T) {
	results := NewPool(4).Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestLimiter_SeparatesDomains(t *testing.T) {
	l := NewLimiter(0.001, 1)

	if !l.Allow("https://one.example.com/a") {
		t.Error("first request to a fresh domain should pass")
	}
	if l.Allow("https://one.example.com/b") {
		t.Error("second request should be throttled at this rate")
	}
	if !l.Allow("https://two.example.com/a") {
		t.Error("another domain must have its own budget")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	if err := l.Wait(context.Background(), "https://slow.example.com/"); err != nil {
		t.Fatalf("first wait should pass immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "https://slow.example.com/"); err == nil {
		t.Error("expected a context error while throttled")
	}
}

func TestLimiter_RejectsUnparsableURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if l.Allow("ht tp://bad url") {
		t.Error("unparsable URL should not be allowed")
	}
}

func TestPool_LargeBatchCompletes(t *testing.T) {
	jobs := make([]Job, 500)
	for i := range jobs {
		jobs[i] = &echoJob{id: i}
	}

	done := make(chan []Result, 1)
	go func() { done <- NewPool(16).Run(context.Background(), jobs) }()

	select {
	case results := <-done:
		for i, res := range results {
			if res == nil {
				t.Fatalf("result %d is nil", i)
			}
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool did not finish")
	}
}
