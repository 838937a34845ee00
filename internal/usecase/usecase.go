// Package usecase holds what the workflow packages share: input validation,
// error normalisation and outcome reporting.
package usecase

import (
	"go.uber.org/zap"

	appErrors "donatello-backend/pkg/errors"
)

// Observer receives one call per finished write workflow.
type Observer interface {
	ObserveWorkflow(operation, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveWorkflow(string, string) {}

// OrNop returns o, or an observer that drops everything when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

// Wrap normalises err: typed errors pass through, anything else becomes Internal.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return appErrors.FromError(err)
}

// Finish logs and reports the outcome of a write workflow and returns the
// normalised error.
func Finish(log *zap.Logger, obs Observer, op string, err error, fields ...zap.Field) error {
	if err == nil {
		log.Info(op+" succeeded", fields...)
		obs.ObserveWorkflow(op, "ok")
		return nil
	}
	e := appErrors.FromError(err)
	fields = append(fields, zap.String("kind", string(e.Kind)), zap.Error(e))
	if e.Kind == appErrors.KindInternal {
		log.Error(op+" failed", fields...)
	} else {
		log.Warn(op+" rejected", fields...)
	}
	obs.ObserveWorkflow(op, string(e.Kind))
	return e
}
