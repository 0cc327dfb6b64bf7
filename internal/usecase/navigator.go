package usecase

import (
	"fmt"

	"trifoody/internal/domain/entity"
	"trifoody/pkg/errors"
)

// Navigator is the session routing state machine. It has no state of its own.
type Navigator struct{}

func (Navigator) Next(state entity.SessionState, event entity.SessionEvent) (entity.SessionState, error) {
	if event.Type == entity.EventSignedOut && state != entity.StateFirstLaunch {
		return entity.StateUnauthenticated, nil
	}

	switch state {
	case entity.StateFirstLaunch:
		if event.Type == entity.EventLaunched {
			if event.FirstLaunch {
				return entity.StateUnauthenticated, nil
			}
			return entity.StateRoleResolving, nil
		}

	case entity.StateUnauthenticated:
		if event.Type == entity.EventSignInRequested || event.Type == entity.EventSignUpRequested {
			return entity.StateAuthenticating, nil
		}

	case entity.StateAuthenticating:
		switch event.Type {
		case entity.EventAuthenticated:
			return entity.StateRoleResolving, nil
		case entity.EventFailed:
			return entity.StateUnauthenticated, nil
		}

	case entity.StateRoleResolving:
		switch event.Type {
		case entity.EventRoleResolved:
			if _, err := entity.ParseRole(string(event.Role)); err != nil {
				return state, errors.BadRequest("Cannot route an unknown role", err)
			}
			return entity.HomeState(event.Role), nil
		case entity.EventFailed:
			return entity.StateUnauthenticated, nil
		}
	}

	return state, errors.BadRequest(fmt.Sprintf("No transition from %s on %s", state, event.Type), nil)
}

// Run applies events in order, stopping at the first rejected one.
func (n Navigator) Run(state entity.SessionState, events ...entity.SessionEvent) (entity.SessionState, error) {
	for _, ev := range events {
		next, err := n.Next(state, ev)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}
