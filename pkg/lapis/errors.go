package lapis

import "fmt"

// UnavailableError means LAPIS could not be reached at all.
type UnavailableError struct {
	Endpoint string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("LAPIS endpoint %s is unavailable: %s", e.Endpoint, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ResponseError is a non-2xx answer from LAPIS.
type ResponseError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("LAPIS endpoint %s answered %d: %s", e.Endpoint, e.Status, e.Body)
}

// DowngradedRedirectError is returned when LAPIS redirects from HTTPS to HTTP.
type DowngradedRedirectError struct {
	Endpoint string
}

func (e *DowngradedRedirectError) Error() string {
	return fmt.Sprintf("the endpoint %s is attempting to downgrade an HTTPS request to HTTP", e.Endpoint)
}
