package identity

import "errors"

var (
	// ErrLockedMutation reports a field write attempted while the instance is
	// locked. It signals a programming error in the calling layer and is never
	// retried; changes must go through a registered update entry point or an
	// explicit unlock scope.
	ErrLockedMutation = errors.New("identity: instance is locked")

	// ErrConfiguration reports an invalid wrapper or type-spec configuration,
	// detected at wrap or registration time rather than at call time.
	ErrConfiguration = errors.New("identity: invalid configuration")

	// ErrInvocation reports call arguments that cannot be bound to a wrapped
	// callable's declared parameters.
	ErrInvocation = errors.New("identity: arguments do not bind to parameters")

	// ErrUnsupportedOperation reports a generic update invoked on a type that
	// does not define an update entry point.
	ErrUnsupportedOperation = errors.New("identity: type defines no update entry point")

	// ErrConflictingRegistration reports an attempt to register a concrete
	// type that is already registered.
	ErrConflictingRegistration = errors.New("identity: conflicting type registration")
)
