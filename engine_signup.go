package authcore

import (
	"context"
	"errors"
	"fmt"
)

// SignUp validates the credentials, hashes the password, and creates the
// user through the credential store. An email uniqueness conflict returns
// [ErrAccountExists]; any other store failure propagates unchanged so the
// caller can distinguish outages from collisions.
func (e *Engine) SignUp(ctx context.Context, email, password string) (*UserIdentity, error) {
	if e.users == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	if err := (Credentials{Email: email, Password: password}).Validate(); err != nil {
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, "", ErrValidation, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "invalid_input",
			}
		})
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	passwordHash, err := e.hasher.Hash(password)
	if err != nil {
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "hash_failed",
			}
		})
		return nil, err
	}
	password = ""

	user, err := e.users.CreateUser(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricSignUpDuplicate)
			e.emitAudit(ctx, auditEventSignUpDuplicate, false, "", ErrAccountExists, func() map[string]string {
				return map[string]string{
					"email": email,
				}
			})
			return nil, ErrAccountExists
		}
		e.metricInc(MetricSignUpFailure)
		e.emitAudit(ctx, auditEventSignUpFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "store_create_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricSignUpSuccess)
	e.emitAudit(ctx, auditEventSignUpSuccess, true, user.ID, nil, func() map[string]string {
		return map[string]string{
			"email": email,
		}
	})

	return user, nil
}
