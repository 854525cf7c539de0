// Package errs holds the error types shared by every layer of the baggage service.
//
// Each kind pairs a sentinel (ErrObjectNotFound, ErrValueIsRequired, ...) with a struct
// carrying details. The struct unwraps to its sentinel so callers branch with errors.Is
// and read details with errors.As:
//
//	var notFound *errs.ObjectNotFoundError
//	if errors.As(err, &notFound) {
//	    log.Printf("no %s %v", notFound.ParamName, notFound.ID)
//	}
//
// PersistenceFailureError marks store failures that the caller may retry. It unwraps to
// both ErrPersistenceFailure and the driver error.
package errs
