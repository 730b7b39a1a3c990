package monitor

import (
	"errors"
	"strings"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// TickError collects every failure that occurred during one tick.
type TickError struct {
	Failures []*model.Error
}

func (e *TickError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return "tick failed: " + strings.Join(msgs, "; ")
}

func (e *TickError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Has reports whether any failure in the tick was of the given kind.
func (e *TickError) Has(kind model.ErrorKind) bool {
	for _, f := range e.Failures {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

func (e *TickError) add(kind model.ErrorKind, msg string, err error) {
	var me *model.Error
	if errors.As(err, &me) {
		e.Failures = append(e.Failures, me)
		return
	}
	e.Failures = append(e.Failures, &model.Error{Kind: kind, Msg: msg, Err: err})
}

func (e *TickError) errOrNil() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e
}
