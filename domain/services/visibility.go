package services

import (
	"context"

	"karnalix/domain/entities"
	"karnalix/domain/interfaces"
)

// visibleUserIDs resolves the rank-scoped visibility set for a principal.
// Admins and above see everything, expressed as a nil slice. Agents see
// themselves plus the users they created. Regular users see only
// themselves.
func visibleUserIDs(ctx context.Context, userRepo interfaces.UserRepository, principal entities.Principal) ([]int64, error) {
	if principal.Role.Rank() >= entities.RoleAdmin.Rank() {
		return nil, nil
	}
	if principal.Role == entities.RoleAgent {
		createdIDs, err := userRepo.GetCreatedUserIDs(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		return append([]int64{principal.UserID}, createdIDs...), nil
	}
	return []int64{principal.UserID}, nil
}

// canSeeUser reports whether a principal's visibility set covers userID
func canSeeUser(ctx context.Context, userRepo interfaces.UserRepository, principal entities.Principal, userID int64) (bool, error) {
	ids, err := visibleUserIDs(ctx, userRepo, principal)
	if err != nil {
		return false, err
	}
	if ids == nil {
		return true, nil
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
