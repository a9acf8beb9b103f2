package identity

import (
	"errors"

	apperrors "github.com/tendant/simple-loginlogout/pkg/errors"
)

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords and disabled
	// accounts alike so callers cannot tell them apart.
	ErrInvalidCredentials = apperrors.New(apperrors.ErrCodeInvalidCredentials, "invalid username or password")
	ErrUserNotFound       = apperrors.New(apperrors.ErrCodeUserNotFound, "user not found")
	ErrUsernameRequired   = errors.New("username is required")
)
