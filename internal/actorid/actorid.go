// Package actorid mints opaque actor identities for causal.Actor,
// following the teacher's use of uuid.New() for dot/message identity
// (drone/pkg/sensor/delta_set.go).
package actorid

import (
	"github.com/google/uuid"

	"github.com/nimbusdb/crdt/pkg/causal"
)

// New mints a fresh, globally unique actor identity.
func New() causal.Actor {
	return causal.Actor(uuid.New().String())
}

// Parse validates that s is a well-formed UUID actor token, returning
// an error if it is not.
func Parse(s string) (causal.Actor, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return causal.Actor(id.String()), nil
}
