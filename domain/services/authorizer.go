package services

import (
	"karnalix/domain"
	"karnalix/domain/entities"
)

// Authorization rules for ledger operations. Permission failures are
// PermissionDenied; failures caused by the actor/target rank relation
// are HierarchyViolation.

// canMint allows only the top rank to issue new coins
func canMint(actor entities.Principal) error {
	if actor.Role != entities.RoleMasterAdmin {
		return domain.NewError(domain.CodePermissionDenied, "role %s cannot mint", actor.Role)
	}
	return nil
}

// canGrantBonus allows admins and above to credit bonus wallets
func canGrantBonus(actor entities.Principal) error {
	if actor.Role.Rank() < entities.RoleAdmin.Rank() {
		return domain.NewError(domain.CodePermissionDenied, "role %s cannot grant bonuses", actor.Role)
	}
	return nil
}

// canTransfer enforces the downward-only transfer rule: the actor must
// hold agent rank or above, may not transfer to itself, and must
// strictly outrank the recipient.
func canTransfer(actor entities.Principal, target *entities.User) error {
	if actor.Role.Rank() < entities.RoleAgent.Rank() {
		return domain.NewError(domain.CodePermissionDenied, "role %s cannot transfer", actor.Role)
	}
	if actor.UserID == target.ID {
		return domain.NewError(domain.CodeHierarchyViolation, "cannot transfer to self")
	}
	if !actor.Role.Outranks(target.Role) {
		return domain.NewError(domain.CodeHierarchyViolation,
			"role %s does not outrank %s", actor.Role, target.Role)
	}
	return nil
}

// canReview allows admins and above to decide payments and settle bets
func canReview(actor entities.Principal) error {
	if actor.Role.Rank() < entities.RoleAdmin.Rank() {
		return domain.NewError(domain.CodePermissionDenied, "role %s cannot review", actor.Role)
	}
	return nil
}

// canReverse allows only the top rank to write compensating entries
func canReverse(actor entities.Principal) error {
	if actor.Role != entities.RoleMasterAdmin {
		return domain.NewError(domain.CodePermissionDenied, "role %s cannot reverse entries", actor.Role)
	}
	return nil
}

// canCreateRole requires the actor to strictly outrank the role it creates
func canCreateRole(actor entities.Principal, role entities.Role) error {
	if !role.IsValid() {
		return domain.NewError(domain.CodeNotFound, "unknown role %q", role)
	}
	if actor.Role.Rank() <= role.Rank() {
		return domain.NewError(domain.CodeHierarchyViolation,
			"role %s cannot create role %s", actor.Role, role)
	}
	return nil
}

// validateAmount rejects zero and negative amounts up front
func validateAmount(amount int64) error {
	if amount <= 0 {
		return domain.NewError(domain.CodeInvalidAmount, "amount must be positive, got %d", amount)
	}
	return nil
}
