package goOrg

import "errors"

var (
	// ErrUnauthorized is returned when a request carries no usable session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when an authenticated caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned when login email or password do not match a stored account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid is returned when a presented token fails verification for a reason other than expiry.
	ErrTokenInvalid = errors.New("token verification failed")
	// ErrAccountNotFound is returned when an account lookup by id, name or email misses.
	ErrAccountNotFound = errors.New("account not found")
	// ErrGroupNotFound is returned when a group lookup by id or name misses.
	ErrGroupNotFound = errors.New("group not found")
	// ErrAccountExists is returned when account creation collides with an existing email.
	ErrAccountExists = errors.New("account already exists")
	// ErrGroupExists is returned when group creation collides with an existing name.
	ErrGroupExists = errors.New("group already exists")
	// ErrAlreadyMember is returned when a membership edge to be added already exists on either side.
	ErrAlreadyMember = errors.New("account is already a member of group")
	// ErrNotMember is returned when a membership edge to be removed does not exist.
	ErrNotMember = errors.New("account is not a member of group")
	// ErrAccountRoleInvalid is returned when a role outside the known set is supplied.
	ErrAccountRoleInvalid = errors.New("invalid account role")
	// ErrAccountInvalid is returned when an account create or update request fails validation.
	ErrAccountInvalid = errors.New("invalid account request")
	// ErrGroupInvalid is returned when a group create or update request fails validation.
	ErrGroupInvalid = errors.New("invalid group request")
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
