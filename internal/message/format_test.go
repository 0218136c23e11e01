package message

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/greenlane/errwatch/internal/classify"
)

func TestFormat_TotalOverCategories(t *testing.T) {
	f := NewFormatter("nl")

	for _, category := range classify.Categories {
		t.Run(string(category), func(t *testing.T) {
			got := f.Format(category, classify.RawError{Message: "test"}, nil)

			if got.Title == "" {
				t.Error("Title should not be empty")
			}
			if got.Message == "" {
				t.Error("Message should not be empty")
			}
			if len(got.Suggestions) < 1 {
				t.Error("Suggestions should have at least one entry")
			}
			if got.Category != category {
				t.Errorf("Category = %v, want %v", got.Category, category)
			}
			if got.Severity != classify.SeverityFor(category) {
				t.Errorf("Severity = %v, want %v", got.Severity, classify.SeverityFor(category))
			}
			if got.OriginalError != "test" {
				t.Errorf("OriginalError = %q, want %q", got.OriginalError, "test")
			}
			if _, err := time.Parse(time.RFC3339, got.Timestamp); err != nil {
				t.Errorf("Timestamp %q is not RFC3339: %v", got.Timestamp, err)
			}
		})
	}
}

func TestFormat_ContextInjection(t *testing.T) {
	f := NewFormatter("nl")

	got := f.Format(classify.CategoryValidation, classify.RawError{Message: "x"}, map[string]any{
		"component": "TestComponent",
		"action":    "save",
	})

	if !strings.Contains(got.Message, "(TestComponent)") {
		t.Errorf("Message %q should contain component parenthetical", got.Message)
	}
	if !strings.Contains(got.Suggestions[0], "save") {
		t.Errorf("First suggestion %q should mention the action", got.Suggestions[0])
	}
}

func TestFormat_ContextNotMutated(t *testing.T) {
	f := NewFormatter("nl")
	ctx := map[string]any{"component": "Clients", "endpoint": "/api/clients"}

	got := f.Format(classify.CategoryServer, classify.RawError{Message: "boom"}, ctx)

	got.Context["injected"] = true
	if _, ok := ctx["injected"]; ok {
		t.Error("caller's context map was mutated")
	}
	if got.Context["endpoint"] != "/api/clients" {
		t.Errorf("Context[endpoint] = %v, want /api/clients", got.Context["endpoint"])
	}
}

func TestFormat_OriginalErrorFallback(t *testing.T) {
	f := NewFormatter("nl")

	got := f.Format(classify.CategoryServer, classify.RawError{}, nil)
	if got.OriginalError != InvalidResponseFallback {
		t.Errorf("OriginalError = %q, want %q", got.OriginalError, InvalidResponseFallback)
	}
}

func TestFormat_InvalidCategoryFailsClosed(t *testing.T) {
	f := NewFormatter("nl")

	got := f.Format(classify.ErrorCategory("bogus"), classify.RawError{Message: "x"}, nil)
	if got.Category != classify.CategoryUnknown {
		t.Errorf("Category = %v, want %v", got.Category, classify.CategoryUnknown)
	}
	if got.Severity != classify.SeverityLow {
		t.Errorf("Severity = %v, want %v", got.Severity, classify.SeverityLow)
	}
	if got.Title == "" || len(got.Suggestions) == 0 {
		t.Error("fails-closed template should still be fully populated")
	}
}

func TestFormat_RetryHint(t *testing.T) {
	f := NewFormatter("nl")

	retryable := f.Format(classify.CategoryNetwork, classify.RawError{Message: "x"}, nil)
	if !retryable.Retryable {
		t.Error("NETWORK should carry a retry hint")
	}
	if !strings.Contains(retryable.Message, "[") {
		t.Errorf("Message %q should carry the bracketed retry hint", retryable.Message)
	}

	fixed := f.Format(classify.CategoryValidation, classify.RawError{Message: "x"}, nil)
	if fixed.Retryable {
		t.Error("VALIDATION should not carry a retry hint")
	}
}

func TestResolveCatalog(t *testing.T) {
	tests := []struct {
		locale   string
		expected language.Tag
	}{
		{"nl", language.Dutch},
		{"nl-NL", language.Dutch},
		{"en-US", language.Dutch}, // no English catalog: fallback
		{"", language.Dutch},
		{"not a locale", language.Dutch},
	}

	for _, test := range tests {
		t.Run(test.locale, func(t *testing.T) {
			_, tag := ResolveCatalog(test.locale)
			if tag != test.expected {
				t.Errorf("ResolveCatalog(%q) tag = %v, want %v", test.locale, tag, test.expected)
			}
		})
	}
}

func TestCatalogNL_Complete(t *testing.T) {
	catalog, _ := ResolveCatalog("nl")
	for _, category := range classify.Categories {
		tpl, ok := catalog[category]
		if !ok {
			t.Errorf("catalog missing template for %v", category)
			continue
		}
		if tpl.Title == "" || tpl.Message == "" || len(tpl.Suggestions) == 0 {
			t.Errorf("template for %v is incomplete", category)
		}
	}
}
