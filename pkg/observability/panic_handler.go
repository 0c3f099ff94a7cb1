package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverError converts a recovered panic into an error and logs its stack.
// Call it in a deferred function with the named error result:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        err = observability.RecoverError(log, "task worker", r)
//	    }
//	}()
func RecoverError(log logrus.FieldLogger, where string, r interface{}) error {
	OrDiscard(log).WithFields(logrus.Fields{
		"panic":   r,
		"stack":   string(debug.Stack()),
		"context": where,
	}).Error("PANIC recovered")
	return MustRecover(r)
}

// MustRecover converts a recovered value into an error; nil stays nil
func MustRecover(r interface{}) error {
	if r != nil {
		return fmt.Errorf("panic: %v", r)
	}
	return nil
}
