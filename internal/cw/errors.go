package cw

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrUpstream marks any transport, auth, or throttling failure from the logs
// API. Callers treat it as recoverable and retry with back-off.
var ErrUpstream = errors.New("cw: upstream unavailable")

// upstreamErr wraps an SDK error with ErrUpstream, surfacing the AWS error
// code when one is present.
func upstreamErr(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s: %s", ErrUpstream, op, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}
