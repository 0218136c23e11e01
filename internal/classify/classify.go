package classify

import "strings"

// RawError is the error-like shape the classifier consumes: the name and
// message of a failure as captured by the frontend, plus an optional stack.
// Any field may be empty.
type RawError struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// NetworkErrorName is the error name browsers attach to fetch-level failures.
const NetworkErrorName = "NetworkError"

// NetworkPhrases are the case-insensitive substrings that mark a message as
// a network failure. Kept as data (not control flow) so deployments can add
// phrases via configuration.
var NetworkPhrases = []string{
	"network",
	"fetch failed",
	"connection",
	"timeout",
	"dns",
}

// ValidationPhrases mark a message as a validation failure.
var ValidationPhrases = []string{
	"validation",
}

// Classifier categorizes raw failures. The zero value uses the built-in
// phrase lists; extra phrases from configuration extend (never replace) them.
type Classifier struct {
	networkPhrases    []string
	validationPhrases []string
}

// New returns a Classifier with the built-in phrase lists plus the given
// extensions.
func New(extraNetwork, extraValidation []string) *Classifier {
	return &Classifier{
		networkPhrases:    append(append([]string{}, NetworkPhrases...), extraNetwork...),
		validationPhrases: append(append([]string{}, ValidationPhrases...), extraValidation...),
	}
}

// Categorize maps a raw failure to a category. Total: it never panics and
// always returns a taxonomy member. statusCode 0 means no HTTP status is
// available; a non-zero status wins over any message content.
func (c *Classifier) Categorize(raw RawError, statusCode int) ErrorCategory {
	if statusCode != 0 {
		switch {
		case statusCode == 401:
			return CategoryAuthentication
		case statusCode == 403:
			return CategoryAuthorization
		case statusCode >= 500:
			return CategoryServer
		case statusCode >= 400:
			return CategoryClient
		}
		// Informational/redirect statuses carry no signal; fall through to
		// message heuristics.
	}

	msg := strings.ToLower(raw.Message)

	if raw.Name == NetworkErrorName || containsAny(msg, c.netPhrases()) {
		return CategoryNetwork
	}
	if containsAny(msg, c.valPhrases()) {
		return CategoryValidation
	}
	return CategoryUnknown
}

// Categorize classifies with the built-in phrase lists only.
func Categorize(raw RawError, statusCode int) ErrorCategory {
	return defaultClassifier.Categorize(raw, statusCode)
}

var defaultClassifier = &Classifier{}

func (c *Classifier) netPhrases() []string {
	if len(c.networkPhrases) == 0 {
		return NetworkPhrases
	}
	return c.networkPhrases
}

func (c *Classifier) valPhrases() []string {
	if len(c.validationPhrases) == 0 {
		return ValidationPhrases
	}
	return c.validationPhrases
}

func containsAny(lowered string, phrases []string) bool {
	if lowered == "" {
		return false
	}
	for _, p := range phrases {
		if p != "" && strings.Contains(lowered, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
