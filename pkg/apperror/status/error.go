package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges by domain:
//   0-999:     client/validation errors
//   1000-1999: Extract
//   2000-2999: Ask / Retrieve

// Client/validation errors
const (
	InvalidRequestBody ErrorCode = iota // 0
	MissingParams                       // 1
	MissingAPIKey                       // 2
	InvalidAPIKeyFormat                 // 3
	RateLimited                         // 4
)

// Extract internal errors start at 1000
const (
	ExtractInternal    ErrorCode = 1000 + iota // 1000
	ExtractFetchFailed                         // 1001
	ExtractParseFailed                         // 1002
	ExtractEmptyText                           // 1003
)

// Ask/Retrieve internal errors start at 2000
const (
	AskInternal          ErrorCode = 2000 + iota // 2000
	AskEmbeddingFailed                           // 2001
	AskGenerationFailed                          // 2002
	AskInvalidVector                             // 2003
	AskUpstreamAuth                              // 2004
	AskUpstreamRateLimit                         // 2005
	AskUpstreamTimeout                           // 2006
)

const ErrorCodeInternal ErrorCode = 9000

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}
