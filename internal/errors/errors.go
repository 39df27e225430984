package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeTracker       ErrorType = "TRACKER"
	TypeProposals     ErrorType = "PROPOSALS"
	TypeRender        ErrorType = "RENDER"
	TypeInternal      ErrorType = "INTERNAL"
)

// maxBodyInMessage caps how much of a raw response body ends up in Error().
const maxBodyInMessage = 2048

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if endpoint, ok := e.Context["endpoint"].(string); ok && endpoint != "" {
			msg += fmt.Sprintf(" [%s]", endpoint)
		}
		if body, ok := e.Context["body"].(string); ok && body != "" {
			if len(body) > maxBodyInMessage {
				body = body[:maxBodyInMessage] + "..."
			}
			msg += fmt.Sprintf("\nResponse:\n%s", body)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError of the same type and message, so sentinels
// keep working with errors.Is after WithError/WithContext copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// Body returns the raw response body attached to the error, if any.
func (e *AppError) Body() string {
	if body, ok := e.Context["body"].(string); ok {
		return body
	}
	return ""
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrConfigRead = NewAppError(TypeConfiguration, "Failed to read configuration file", nil).
			WithSuggestion("Check ~/.agenda-generator/config.toml is valid TOML")

	ErrConfigEnv = NewAppError(TypeConfiguration, "Failed to parse environment variables", nil).
			WithSuggestion("Check the AGENDA_* and GITHUB_TOKEN variables")

	ErrConfigInvalid = NewAppError(TypeConfiguration, "Configuration is invalid", nil)

	ErrConfigWrite = NewAppError(TypeConfiguration, "Failed to write configuration file", nil)

	ErrConfigExists = NewAppError(TypeConfiguration, "Configuration file already exists", nil).
			WithSuggestion("Run 'agenda-generator config init --force' to overwrite it")

	ErrUnknownVariant = NewAppError(TypeConfiguration, "Unknown agenda variant", nil).
				WithSuggestion("Use one of: libs-api, libs, error-handling")
)

// Issue tracker errors
var (
	ErrTrackerRequest = NewAppError(TypeTracker, "GitHub request failed", nil).
				WithSuggestion("Check your network connection and try again")

	ErrTrackerStatus = NewAppError(TypeTracker, "GitHub returned an error response", nil)

	ErrTrackerDecode = NewAppError(TypeTracker, "GitHub response body cannot be deserialized", nil)

	ErrTrackerRateLimit = NewAppError(TypeTracker, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or export GITHUB_TOKEN for higher limits")
)

// Proposal service errors
var (
	ErrProposalsRequest = NewAppError(TypeProposals, "rfcbot request failed", nil).
				WithSuggestion("Check your network connection and try again")

	ErrProposalsStatus = NewAppError(TypeProposals, "rfcbot returned an error response", nil)

	ErrProposalsDecode = NewAppError(TypeProposals, "rfcbot response body cannot be deserialized", nil)
)

var (
	ErrRenderWrite = NewAppError(TypeRender, "Failed to write agenda", nil)
)
