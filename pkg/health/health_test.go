package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func staticCheck(status Status) CheckFunc {
	return func() Check { return Check{Status: status} }
}

func TestRegister_DefaultScope(t *testing.T) {
	c := NewChecker("v1")
	c.Register("solvers", staticCheck(StatusHealthy))

	if resp := c.Run(ScopeOverall); len(resp.Checks) != 1 {
		t.Errorf("expected 1 overall check, got %d", len(resp.Checks))
	}
	if resp := c.Run(ScopeReadiness); len(resp.Checks) != 0 {
		t.Errorf("expected no readiness checks, got %d", len(resp.Checks))
	}
}

func TestRegister_MultipleScopes(t *testing.T) {
	c := NewChecker("v1")
	c.Register("solvers", staticCheck(StatusHealthy), ScopeOverall, ScopeReadiness)
	c.Register("process", staticCheck(StatusHealthy), ScopeLiveness)

	tests := []struct {
		scope    Scope
		expected []string
	}{
		{ScopeOverall, []string{"solvers"}},
		{ScopeReadiness, []string{"solvers"}},
		{ScopeLiveness, []string{"process"}},
		{ScopeReadiness | ScopeLiveness, []string{"process", "solvers"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("scope %d", tt.scope), func(t *testing.T) {
			resp := c.Run(tt.scope)
			if len(resp.Checks) != len(tt.expected) {
				t.Fatalf("expected %d checks, got %d", len(tt.expected), len(resp.Checks))
			}
			for _, name := range tt.expected {
				if _, ok := resp.Checks[name]; !ok {
					t.Errorf("expected check %q in response", name)
				}
			}
		})
	}
}

func TestRegister_Replaces(t *testing.T) {
	c := NewChecker("")
	c.Register("solvers", staticCheck(StatusUnhealthy))
	c.Register("solvers", staticCheck(StatusHealthy))

	if resp := c.Run(ScopeOverall); resp.Status != StatusHealthy {
		t.Errorf("expected the second registration to win, got %s", resp.Status)
	}
}

func TestRun_StatusAggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		expected Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("")
			for i, status := range tt.statuses {
				c.Register(fmt.Sprintf("check-%d", i), staticCheck(status))
			}

			if resp := c.Run(ScopeOverall); resp.Status != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, resp.Status)
			}
		})
	}
}

func TestRun_FillsCheckMetadata(t *testing.T) {
	c := NewChecker("1.2.3")
	c.Register("slow", func() Check {
		time.Sleep(10 * time.Millisecond)
		return Check{Status: StatusHealthy}
	})
	time.Sleep(5 * time.Millisecond)

	resp := c.Run(ScopeOverall)
	check := resp.Checks["slow"]

	if check.Name != "slow" {
		t.Errorf("expected the registered name, got %q", check.Name)
	}
	if check.Duration < 10*time.Millisecond {
		t.Errorf("expected duration >= 10ms, got %v", check.Duration)
	}
	if check.LastChecked.IsZero() {
		t.Error("LastChecked not set")
	}
	if resp.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", resp.Version)
	}
	if resp.Uptime <= 0 {
		t.Errorf("expected positive uptime, got %v", resp.Uptime)
	}
}

func TestRun_Concurrent(t *testing.T) {
	c := NewChecker("")

	// Every check waits until all of them have started
	const n = 4
	var started sync.WaitGroup
	started.Add(n)
	for i := 0; i < n; i++ {
		c.Register(fmt.Sprintf("remote-%d", i), func() Check {
			started.Done()
			started.Wait()
			return Check{Status: StatusHealthy}
		})
	}

	done := make(chan Response, 1)
	go func() { done <- c.Run(ScopeOverall) }()

	select {
	case resp := <-done:
		if len(resp.Checks) != n {
			t.Errorf("expected %d checks, got %d", n, len(resp.Checks))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("checks did not run concurrently")
	}
}

func TestRegister_ConcurrentWithRun(t *testing.T) {
	c := NewChecker("")
	var calls atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			c.Register(fmt.Sprintf("check-%d", id), func() Check {
				calls.Add(1)
				return Check{Status: StatusHealthy}
			})
		}(i)
		go func() {
			defer wg.Done()
			c.Run(ScopeOverall)
		}()
	}
	wg.Wait()

	if resp := c.Run(ScopeOverall); len(resp.Checks) != 10 {
		t.Errorf("expected 10 checks, got %d", len(resp.Checks))
	}
}

func TestHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name         string
		scope        Scope
		checkStatus  Status
		expectedCode int
	}{
		{"overall healthy", ScopeOverall, StatusHealthy, http.StatusOK},
		{"overall degraded", ScopeOverall, StatusDegraded, http.StatusOK},
		{"overall unhealthy", ScopeOverall, StatusUnhealthy, http.StatusServiceUnavailable},
		{"ready healthy", ScopeReadiness, StatusHealthy, http.StatusOK},
		{"ready degraded", ScopeReadiness, StatusDegraded, http.StatusServiceUnavailable},
		{"live degraded", ScopeLiveness, StatusDegraded, http.StatusServiceUnavailable},
		{"live unhealthy", ScopeLiveness, StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("v1")
			c.Register("test", staticCheck(tt.checkStatus), tt.scope)

			rec := httptest.NewRecorder()
			c.Handler(tt.scope)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.expectedCode {
				t.Errorf("expected status code %d, got %d", tt.expectedCode, rec.Code)
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Error("expected Content-Type application/json")
			}

			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.checkStatus {
				t.Errorf("expected response status %s, got %s", tt.checkStatus, resp.Status)
			}
		})
	}
}

func TestResponseJSON(t *testing.T) {
	c := NewChecker("v1")
	c.Register("solvers", func() Check {
		return Check{
			Status:  StatusHealthy,
			Message: "2 solvers available",
			Details: map[string]any{"default": "local simulator"},
		}
	})

	data, err := json.Marshal(c.Run(ScopeOverall))
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, key := range []string{"status", "version", "timestamp", "checks", "uptime_seconds"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in response", key)
		}
	}
	checks := decoded["checks"].(map[string]any)
	solvers := checks["solvers"].(map[string]any)
	if solvers["message"] != "2 solvers available" {
		t.Errorf("unexpected message %v", solvers["message"])
	}
}
