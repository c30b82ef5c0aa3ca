package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Checker reports whether a dependency is reachable
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker
type CheckerFunc func(ctx context.Context) error

// HealthCheck calls f
func (f CheckerFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// Status of a single check
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of one named check
type Result struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// Report aggregates every check of a registry
type Report struct {
	Healthy bool     `json:"healthy"`
	Checks  []Result `json:"checks"`
}

// Registry manages named dependency checks
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
}

// NewRegistry creates a registry that bounds each check by timeout
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Registry{
		checkers: make(map[string]Checker),
		timeout:  timeout,
	}
}

// Register adds a named checker, replacing any previous one
func (r *Registry) Register(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// List returns the registered names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckAll runs every check concurrently and reports them by name
func (r *Registry) CheckAll(ctx context.Context) Report {
	r.mu.RLock()
	checkers := make(map[string]Checker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	results := make([]Result, 0, len(checkers))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := r.run(ctx, name, c)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	report := Report{Healthy: true, Checks: results}
	for _, res := range results {
		if res.Status != StatusUp {
			report.Healthy = false
		}
	}
	return report
}

func (r *Registry) run(ctx context.Context, name string, c Checker) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := c.HealthCheck(ctx)
	res := Result{
		Name:       name,
		Status:     StatusUp,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		res.Status = StatusDown
		res.Error = err.Error()
	}
	return res
}
