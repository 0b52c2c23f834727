package services

import (
	"testing"

	"karnalix/domain/entities"
	"karnalix/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestMasterAdminID = int64(1)
	TestAdminID       = int64(10)
	TestAgentID       = int64(100)
	TestUserID        = int64(1000)
	TestUser2ID       = int64(2000)
)

var (
	testMasterAdmin = entities.Principal{UserID: TestMasterAdminID, Role: entities.RoleMasterAdmin}
	testAdmin       = entities.Principal{UserID: TestAdminID, Role: entities.RoleAdmin}
	testAgent       = entities.Principal{UserID: TestAgentID, Role: entities.RoleAgent}
	testUser        = entities.Principal{UserID: TestUserID, Role: entities.RoleUser}
)

// newTestUoW creates a fake unit of work and its factory
func newTestUoW() (*testhelpers.FakeUnitOfWork, *testhelpers.FakeUoWFactory) {
	uow := testhelpers.NewFakeUnitOfWork()
	return uow, testhelpers.NewFakeUoWFactory(uow)
}

// assertUoWExpectations verifies every repository mock inside the fake
func assertUoWExpectations(t *testing.T, uow *testhelpers.FakeUnitOfWork) {
	t.Helper()
	uow.UserRepo.AssertExpectations(t)
	uow.WalletRepo.AssertExpectations(t)
	uow.EntryRepo.AssertExpectations(t)
	uow.BetRepo.AssertExpectations(t)
	uow.DepositRepo.AssertExpectations(t)
	uow.WithdrawalRepo.AssertExpectations(t)
}

// wallet builds a wallet fixture
func wallet(userID int64, kind entities.WalletKind, balance int64) *entities.Wallet {
	return &entities.Wallet{UserID: userID, Kind: kind, Balance: balance}
}

// storedUser builds a user fixture
func storedUser(id int64, role entities.Role) *entities.User {
	return &entities.User{ID: id, Username: "u", Role: role}
}
