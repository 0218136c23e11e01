package classify

import "testing"

func TestCategorize_StatusCodePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawError
		statusCode int
		expected   ErrorCategory
	}{
		{"401 wins over message", RawError{Message: "Unauthorized"}, 401, CategoryAuthentication},
		{"403 wins over message", RawError{Message: "Forbidden"}, 403, CategoryAuthorization},
		{"500 is server", RawError{Message: "boom"}, 500, CategoryServer},
		{"503 is server", RawError{Message: "unavailable"}, 503, CategoryServer},
		{"404 is client", RawError{Message: "not found"}, 404, CategoryClient},
		{"422 is client", RawError{Message: "unprocessable"}, 422, CategoryClient},
		{"status beats network phrase", RawError{Message: "network down"}, 400, CategoryClient},
		{"status with no raw error", RawError{}, 401, CategoryAuthentication},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Categorize(test.raw, test.statusCode)
			if result != test.expected {
				t.Errorf("Categorize() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestCategorize_ContentFallback(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawError
		expected ErrorCategory
	}{
		{"NetworkError name", RawError{Name: "NetworkError", Message: "x"}, CategoryNetwork},
		{"network substring", RawError{Message: "Network request failed"}, CategoryNetwork},
		{"fetch failed substring", RawError{Message: "TypeError: fetch failed"}, CategoryNetwork},
		{"connection substring", RawError{Message: "Connection refused"}, CategoryNetwork},
		{"validation substring", RawError{Message: "Validation failed: field required"}, CategoryValidation},
		{"case insensitive", RawError{Message: "VALIDATION error on save"}, CategoryValidation},
		{"no signal", RawError{Message: "Something weird"}, CategoryUnknown},
		{"empty message", RawError{}, CategoryUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Categorize(test.raw, 0)
			if result != test.expected {
				t.Errorf("Categorize() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestCategorize_ExtraPhrases(t *testing.T) {
	c := New([]string{"socket hang up"}, []string{"ongeldig"})

	if got := c.Categorize(RawError{Message: "socket hang up mid-request"}, 0); got != CategoryNetwork {
		t.Errorf("extra network phrase: got %v, want %v", got, CategoryNetwork)
	}
	if got := c.Categorize(RawError{Message: "veld is ongeldig"}, 0); got != CategoryValidation {
		t.Errorf("extra validation phrase: got %v, want %v", got, CategoryValidation)
	}
	// Built-ins still apply.
	if got := c.Categorize(RawError{Message: "network gone"}, 0); got != CategoryNetwork {
		t.Errorf("built-in phrase: got %v, want %v", got, CategoryNetwork)
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected ErrorSeverity
	}{
		{CategoryServer, SeverityCritical},
		{CategoryNetwork, SeverityHigh},
		{CategoryAuthentication, SeverityHigh},
		{CategoryAuthorization, SeverityMedium},
		{CategoryValidation, SeverityMedium},
		{CategoryClient, SeverityMedium},
		{CategoryUnknown, SeverityLow},
	}

	for _, test := range tests {
		t.Run(string(test.category), func(t *testing.T) {
			if got := SeverityFor(test.category); got != test.expected {
				t.Errorf("SeverityFor(%v) = %v, want %v", test.category, got, test.expected)
			}
			// Pure: a second call yields the same result.
			if got := SeverityFor(test.category); got != test.expected {
				t.Errorf("SeverityFor(%v) second call = %v, want %v", test.category, got, test.expected)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	// SERVER must stay the most severe and UNKNOWN the least.
	server := SeverityFor(CategoryServer).Rank()
	unknown := SeverityFor(CategoryUnknown).Rank()
	for _, c := range Categories {
		rank := SeverityFor(c).Rank()
		if rank > server {
			t.Errorf("category %v outranks SERVER", c)
		}
		if rank < unknown {
			t.Errorf("category %v ranks below UNKNOWN", c)
		}
	}
	if server <= unknown {
		t.Errorf("SERVER rank %d not above UNKNOWN rank %d", server, unknown)
	}
}

func TestSeverityFor_UnrecognizedCategory(t *testing.T) {
	if got := SeverityFor(ErrorCategory("bogus")); got != SeverityLow {
		t.Errorf("SeverityFor(bogus) = %v, want %v", got, SeverityLow)
	}
}

func TestStrategyFor(t *testing.T) {
	if !Retryable(CategoryNetwork) {
		t.Error("NETWORK should be retryable")
	}
	if !Retryable(CategoryServer) {
		t.Error("SERVER should be retryable")
	}
	if Retryable(CategoryValidation) {
		t.Error("VALIDATION should not be retryable")
	}
	if StrategyFor(CategoryAuthentication) != RetryUserAction {
		t.Errorf("AUTHENTICATION strategy = %v, want %v", StrategyFor(CategoryAuthentication), RetryUserAction)
	}
	if StrategyFor(ErrorCategory("bogus")) != RetryNever {
		t.Errorf("unrecognized category strategy = %v, want %v", StrategyFor(ErrorCategory("bogus")), RetryNever)
	}
}
