package models

import "testing"

func TestHealthStatusValid(t *testing.T) {
	for _, s := range []HealthStatus{StatusHealthy, StatusWarning, StatusCritical, StatusError} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if HealthStatus("degraded").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestSeverityOrdering(t *testing.T) {
	if StatusError.Severity() <= StatusCritical.Severity() {
		t.Error("error should outrank critical")
	}
	if StatusCritical.Severity() <= StatusWarning.Severity() {
		t.Error("critical should outrank warning")
	}
	if StatusWarning.Severity() <= StatusHealthy.Severity() {
		t.Error("warning should outrank healthy")
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		statuses []HealthStatus
		want     HealthStatus
	}{
		{"all healthy", []HealthStatus{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"warning wins over healthy", []HealthStatus{StatusHealthy, StatusWarning}, StatusWarning},
		{"critical wins over warning", []HealthStatus{StatusWarning, StatusCritical, StatusHealthy}, StatusCritical},
		{"error wins over everything", []HealthStatus{StatusCritical, StatusError, StatusHealthy}, StatusError},
	}
	for _, c := range cases {
		results := make(map[string]*DiagnosticResult, len(c.statuses))
		for i, s := range c.statuses {
			results[string(rune('a'+i))] = &DiagnosticResult{Status: s}
		}
		if got := DeriveStatus(results); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestDeriveStatusEmpty(t *testing.T) {
	if got := DeriveStatus(nil); got != StatusError {
		t.Errorf("empty result set should derive error, got %s", got)
	}
}

func TestDeriveStatusNilEntry(t *testing.T) {
	results := map[string]*DiagnosticResult{
		"a": {Status: StatusHealthy},
		"b": nil,
	}
	if got := DeriveStatus(results); got != StatusError {
		t.Errorf("nil entry should derive error, got %s", got)
	}
}

func TestDiagnosticResultDetail(t *testing.T) {
	r := &DiagnosticResult{}
	if r.Detail("anything") != nil {
		t.Error("missing details map should read as nil")
	}
	r.Details = map[string]any{DetailExecutor: "rule-based"}
	if r.Detail(DetailExecutor) != "rule-based" {
		t.Errorf("got %v", r.Detail(DetailExecutor))
	}
	if r.Detail("absent") != nil {
		t.Error("absent key should read as nil")
	}
}
