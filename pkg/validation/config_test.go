package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_MaxInt(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.MaxInt("Reads", 10001, 10000)

	if !cv.HasErrors() {
		t.Error("Expected error for value above maximum")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.MaxInt("Reads", 10000, 10000)

	if cv2.HasErrors() {
		t.Error("Expected no error for value at maximum")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		value       int
		expectError bool
	}{
		{4, true},
		{5, false},
		{30, false},
		{60, false},
		{61, true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("TestConfig")
		cv.RangeInt("Vertices", tt.value, 5, 60)

		if cv.HasErrors() != tt.expectError {
			t.Errorf("RangeInt(%d, 5, 60): expected error=%v, got error=%v",
				tt.value, tt.expectError, cv.HasErrors())
		}
	}
}

func TestConfigValidator_Positive(t *testing.T) {
	for _, v := range []int{0, -1} {
		cv := NewConfigValidator("TestConfig")
		cv.Positive("Sweeps", v)
		if !cv.HasErrors() {
			t.Errorf("Expected error for %d", v)
		}
	}

	cv := NewConfigValidator("TestConfig")
	cv.Positive("Sweeps", 1)
	if cv.HasErrors() {
		t.Error("Expected no error for positive value")
	}
}

func TestConfigValidator_PositiveFloat(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.PositiveFloat("Penalty", 0)
	if !cv.HasErrors() {
		t.Error("Expected error for zero penalty")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.PositiveFloat("Penalty", 0.1)
	if cv2.HasErrors() {
		t.Error("Expected no error for positive penalty")
	}
}

func TestConfigValidator_MinDuration(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.MinDuration("Timeout", 500*time.Millisecond, time.Second)

	if !cv.HasErrors() {
		t.Error("Expected error for duration below minimum")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.MinDuration("Timeout", 2*time.Second, time.Second)

	if cv2.HasErrors() {
		t.Error("Expected no error for duration above minimum")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"greedy", "louvain"}

	cv := NewConfigValidator("TestConfig")
	cv.OneOf("Reference", "spectral", allowed)
	if !cv.HasErrors() {
		t.Error("Expected error for value not in allowed list")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.OneOf("Reference", "louvain", allowed)
	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_URL(t *testing.T) {
	tests := []struct {
		value       string
		expectError bool
	}{
		{"https://solver.example.com/sample", false},
		{"http://localhost:9000", false},
		{"ftp://solver.example.com", true},
		{"/relative/path", true},
		{"", true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("TestConfig")
		cv.URL("Endpoint", tt.value)
		if cv.HasErrors() != tt.expectError {
			t.Errorf("URL(%q): expected error=%v, got error=%v", tt.value, tt.expectError, cv.HasErrors())
		}
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Custom("Field", func() error {
		return errors.New("custom validation failed")
	})

	if !cv.HasErrors() {
		t.Error("Expected error from custom validation")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Custom("Field", func() error {
		return nil
	})

	if cv2.HasErrors() {
		t.Error("Expected no error when custom validation passes")
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.When(true, func(v *ConfigValidator) {
		v.Required("Token", "")
	})

	if !cv.HasErrors() {
		t.Error("Expected error when condition is true")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.When(false, func(v *ConfigValidator) {
		v.Required("Token", "")
	})

	if cv2.HasErrors() {
		t.Error("Expected no error when condition is false")
	}
}

func TestConfigValidator_MultipleErrors(t *testing.T) {
	cv := NewConfigValidator("TestConfig").
		Required("Name", "").
		RangeInt("Vertices", 0, 5, 60).
		Positive("Sweeps", -1)

	if len(cv.Errors()) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(cv.Errors()))
	}

	err := cv.Validate()
	if err == nil {
		t.Fatal("Expected error from Validate")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected joined error to match ErrValidation, got %v", err)
	}
	for _, field := range []string{"TestConfig.Name", "TestConfig.Vertices", "TestConfig.Sweeps"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Expected %q in %q", field, err.Error())
		}
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	cv := NewConfigValidator("TestConfig").Required("Name", "value")

	if err := cv.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	err := NewConfigValidator("TestConfig").Required("Name", "").Validate()
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FieldError, got %T", err)
	}
	if fe.Field != "TestConfig.Name" {
		t.Errorf("Expected field TestConfig.Name, got %s", fe.Field)
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "local simulator"); got != "local simulator" {
		t.Errorf("Expected default, got %q", got)
	}
	if got := DefaultOr(2000, 10); got != 2000 {
		t.Errorf("Expected value, got %d", got)
	}
	if got := DefaultOr(time.Duration(0), time.Minute); got != time.Minute {
		t.Errorf("Expected default duration, got %v", got)
	}
}

// Example of a validatable config struct
type ExampleConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

func (c *ExampleConfig) Validate() error {
	return NewConfigValidator("ExampleConfig").
		Required("Host", c.Host).
		RangeInt("Port", c.Port, 1, 65535).
		MinDuration("Timeout", c.Timeout, 1*time.Second).
		Validate()
}

func TestValidateConfig(t *testing.T) {
	validConfig := &ExampleConfig{
		Host:    "localhost",
		Port:    8080,
		Timeout: 30 * time.Second,
	}

	if err := ValidateConfig(validConfig); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}

	invalidConfig := &ExampleConfig{
		Host:    "",
		Port:    0,
		Timeout: 0,
	}

	if err := ValidateConfig(invalidConfig); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	err := ValidateConfig(nil)
	if err == nil {
		t.Error("Expected error for nil config")
	}
}
