// Package errors provides coded errors that HTTP handlers can turn into JSON
// responses with the right status.
//
//	err := errors.New(errors.ErrCodeInvalidCredentials, "invalid username or password")
//	err := errors.Wrap(dbErr, errors.ErrCodeInternal, "failed to load settings")
//
//	if errors.IsCode(err, errors.ErrCodeInvalidCredentials) { ... }
//	status := errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
//
// Errors that are not *Error map to ErrCodeInternal.
package errors
