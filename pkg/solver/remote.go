package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dd0wney/graphqubo/pkg/qubo"
)

// DefaultRemoteTimeout bounds a remote sampling call
const DefaultRemoteTimeout = 5 * time.Minute

// maxResponseBytes caps the body read from a remote solver
const maxResponseBytes = 64 << 20

// RemoteConfig describes a remote sampling endpoint
type RemoteConfig struct {
	// Endpoint receives the problem as a JSON POST
	Endpoint string
	// Device is sent as the "solver" field, e.g. "Advantage_system6.4"
	Device string
	// Token is sent as a bearer token unless Params.Token is set
	Token   string
	Timeout time.Duration
}

// Remote submits problems to an HTTP sampling service
type Remote struct {
	name       string
	cfg        RemoteConfig
	httpClient *http.Client
}

// NewRemote creates a remote solver registered under name
func NewRemote(name string, cfg RemoteConfig) *Remote {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteTimeout
	}
	if cfg.Device == "" {
		cfg.Device = name
	}
	return &Remote{
		name: name,
		cfg:  cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the registered name
func (r *Remote) Name() string { return r.name }

// RemoteTerm is a quadratic coefficient between two variable indices
type RemoteTerm struct {
	U    int     `json:"u"`
	V    int     `json:"v"`
	Bias float64 `json:"bias"`
}

// RemoteRequest is the body posted to a remote solver
type RemoteRequest struct {
	Solver    string       `json:"solver"`
	NumReads  int          `json:"num_reads"`
	Variables []qubo.Label `json:"variables"`
	Linear    []float64    `json:"linear"`
	Quadratic []RemoteTerm `json:"quadratic"`
	Offset    float64      `json:"offset"`
}

// RemoteResponse is the body a remote solver answers with. Solutions are
// indexed like RemoteRequest.Variables. Energies and NumOccurrences are
// optional.
type RemoteResponse struct {
	Solutions      [][]int8  `json:"solutions"`
	Energies       []float64 `json:"energies,omitempty"`
	NumOccurrences []int     `json:"num_occurrences,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// StatusError is returned for a non-2xx answer
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote solver answered %d", e.StatusCode)
	}
	return fmt.Sprintf("remote solver answered %d: %s", e.StatusCode, e.Message)
}

// Sample posts the model and decodes the returned solutions. Energies are
// recomputed locally when the service omits them.
func (r *Remote) Sample(ctx context.Context, m *qubo.Model, p Params) (*qubo.SampleSet, error) {
	body, err := json.Marshal(r.request(m, p))
	if err != nil {
		return nil, wrap(r.name, fmt.Errorf("encode problem: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, wrap(r.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	token := r.cfg.Token
	if p.Token != "" {
		token = p.Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, wrap(r.name, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, wrap(r.name, fmt.Errorf("read response: %w", err))
	}

	var out RemoteResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = string(bytes.TrimSpace(data))
		}
		return nil, wrap(r.name, &StatusError{StatusCode: resp.StatusCode, Message: msg})
	}
	if decodeErr != nil {
		return nil, wrap(r.name, fmt.Errorf("%w: %v", ErrBadResponse, decodeErr))
	}

	set, err := decode(m, &out)
	if err != nil {
		return nil, wrap(r.name, err)
	}
	return set, nil
}

func (r *Remote) request(m *qubo.Model, p Params) *RemoteRequest {
	req := &RemoteRequest{
		Solver:    r.cfg.Device,
		NumReads:  p.NumReads,
		Variables: m.Variables,
		Linear:    make([]float64, m.NumVariables()),
		Quadratic: make([]RemoteTerm, 0, m.NumInteractions()),
		Offset:    m.Offset,
	}
	for _, t := range m.Terms() {
		if t.I == t.J {
			req.Linear[t.I] = t.Value
			continue
		}
		req.Quadratic = append(req.Quadratic, RemoteTerm{U: t.I, V: t.J, Bias: t.Value})
	}
	return req
}

func decode(m *qubo.Model, out *RemoteResponse) (*qubo.SampleSet, error) {
	if len(out.Solutions) == 0 {
		return nil, ErrNoSamples
	}
	if len(out.Energies) != 0 && len(out.Energies) != len(out.Solutions) {
		return nil, fmt.Errorf("%w: %d energies for %d solutions", ErrBadResponse, len(out.Energies), len(out.Solutions))
	}
	if len(out.NumOccurrences) != 0 && len(out.NumOccurrences) != len(out.Solutions) {
		return nil, fmt.Errorf("%w: %d occurrence counts for %d solutions", ErrBadResponse, len(out.NumOccurrences), len(out.Solutions))
	}

	n := m.NumVariables()
	samples := make([]qubo.Sample, len(out.Solutions))
	for i, x := range out.Solutions {
		if len(x) != n {
			return nil, fmt.Errorf("%w: solution %d has %d values, want %d", ErrBadResponse, i, len(x), n)
		}
		for j, v := range x {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("%w: solution %d value %d is %d", ErrBadResponse, i, j, v)
			}
		}
		s := qubo.Sample{Assignment: m.Assignment(x), Occurrences: 1}
		if len(out.Energies) > 0 {
			s.Energy = out.Energies[i]
		} else {
			s.Energy = m.EnergyOf(x)
		}
		if len(out.NumOccurrences) > 0 {
			s.Occurrences = out.NumOccurrences[i]
		}
		samples[i] = s
	}
	return qubo.NewSampleSet(samples), nil
}

// Ping checks that the endpoint answers. Any status below 500 counts as
// reachable, since sampling endpoints commonly refuse GET.
func (r *Remote) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Endpoint, nil)
	if err != nil {
		return wrap(r.name, fmt.Errorf("create request: %w", err))
	}
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return wrap(r.name, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= http.StatusInternalServerError {
		return wrap(r.name, &StatusError{StatusCode: resp.StatusCode})
	}
	return nil
}
