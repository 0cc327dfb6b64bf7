package entity

type Screen string

const (
	ScreenStart          Screen = "start"
	ScreenIndividualHome Screen = "individual_home"
	ScreenBusinessHome   Screen = "business_home"
	ScreenCharityHome    Screen = "charity_home"
)

type SessionState string

const (
	StateFirstLaunch     SessionState = "first_launch"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateRoleResolving   SessionState = "role_resolving"
	StateIndividualHome  SessionState = "individual_home"
	StateBusinessHome    SessionState = "business_home"
	StateCharityHome     SessionState = "charity_home"
)

type SessionEventType string

const (
	EventLaunched        SessionEventType = "launched"
	EventSignInRequested SessionEventType = "sign_in_requested"
	EventSignUpRequested SessionEventType = "sign_up_requested"
	EventAuthenticated   SessionEventType = "authenticated"
	EventRoleResolved    SessionEventType = "role_resolved"
	EventFailed          SessionEventType = "failed"
	EventSignedOut       SessionEventType = "signed_out"
)

type SessionEvent struct {
	Type        SessionEventType
	FirstLaunch bool
	Role        Role
}

// Screen is the screen shown in a state. Transitional states keep the start screen.
func (s SessionState) Screen() Screen {
	switch s {
	case StateIndividualHome:
		return ScreenIndividualHome
	case StateBusinessHome:
		return ScreenBusinessHome
	case StateCharityHome:
		return ScreenCharityHome
	}
	return ScreenStart
}

func (s SessionState) IsHome() bool {
	return s == StateIndividualHome || s == StateBusinessHome || s == StateCharityHome
}

func HomeState(role Role) SessionState {
	switch role {
	case RoleBusiness:
		return StateBusinessHome
	case RoleCharity:
		return StateCharityHome
	}
	return StateIndividualHome
}

// AuthSession is the credential pair handed to a client after sign-in.
type AuthSession struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
}
