package remote

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes of the categorised remote errors.
const (
	TextCodeNotConfigured  = "NOT_CONFIGURED"
	TextCodeRemoteRejected = "REMOTE_REJECTED"
	TextCodeTransport      = "TRANSPORT"
	TextCodeNotFound       = "NOT_FOUND"
)

// NotConfigured reports that op needs a token and a repository.
func NotConfigured(op string) *goerrors.Error {
	return goerrors.New(op+": token and repository must be configured", goerrors.CategoryValidation).
		WithTextCode(TextCodeNotConfigured)
}

// Classify maps a client error onto the remote error taxonomy:
// a 404 becomes not_found, any other API error external with the HTTP
// status as its code, and transport failures operation. Errors that are
// already categorised are returned unchanged.
func Classify(err error, op string) error {
	return classify(err, op, true)
}

// ClassifyWrite is Classify for requests that create objects. A missing
// folder is not an error there, so every non-2xx status, 404 included, is a
// rejection.
func ClassifyWrite(err error, op string) error {
	return classify(err, op, false)
}

func classify(err error, op string, notFound bool) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if notFound && apiErr.Status == http.StatusNotFound {
			return goerrors.Wrap(err, goerrors.CategoryNotFound, op).
				WithCode(apiErr.Status).
				WithTextCode(TextCodeNotFound)
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, op).
			WithCode(apiErr.Status).
			WithTextCode(TextCodeRemoteRejected)
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, op).
			WithTextCode(TextCodeTransport)
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, op)
}

// IsNotConfigured reports whether err is a NotConfigured error.
func IsNotConfigured(err error) bool {
	return hasTextCode(err, TextCodeNotConfigured)
}

// IsRemoteRejected reports whether err was classified as a rejection, or is
// an unclassified API error with a status other than 404.
func IsRemoteRejected(err error) bool {
	if hasTextCode(err, TextCodeRemoteRejected) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status != http.StatusNotFound
}

// IsTransport reports whether err is a network failure or timeout.
func IsTransport(err error) bool {
	if hasTextCode(err, TextCodeTransport) {
		return true
	}
	var te *TransportError
	return errors.As(err, &te)
}

// RejectionMessage returns the server's message of a rejected request, or "".
func RejectionMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// RejectionStatus returns the HTTP status of a rejected request, or 0.
func RejectionStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func hasTextCode(err error, code string) bool {
	var e *goerrors.Error
	return errors.As(err, &e) && e.TextCode == code
}
