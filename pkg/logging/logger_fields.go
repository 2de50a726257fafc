package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration is written in milliseconds
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: float64(value.Microseconds()) / 1000}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

func Latency(d time.Duration) Field {
	return Duration("duration_ms", d)
}

// Run fields

func RequestID(id string) Field {
	return String("request_id", id)
}

func RunID(id string) Field {
	return String("run_id", id)
}

// Problem is "community-detection" or "isomorphism"
func Problem(name string) Field {
	return String("problem", name)
}

func Solver(name string) Field {
	return String("solver", name)
}

func Vertices(n int) Field {
	return Int("vertices", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Variables(n int) Field {
	return Int("variables", n)
}

func Interactions(n int) Field {
	return Int("interactions", n)
}

func Reads(n int) Field {
	return Int("num_reads", n)
}

func Energy(e float64) Field {
	return Float64("energy", e)
}

func Verdict(v string) Field {
	return String("verdict", v)
}
