package service

import (
	"fmt"

	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
)

// requireOwner rejects writes by anyone other than the creator of a resource.
func requireOwner(actorID, ownerID, action, resource string) error {
	if actorID == "" {
		return appErrors.ErrUnauthorized
	}
	if actorID != ownerID {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("Not authorized to %s %s", action, resource))
	}
	return nil
}

func applyString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
