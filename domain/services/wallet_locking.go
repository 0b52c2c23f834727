package services

import (
	"context"
	"sort"

	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/interfaces"
)

// lockWallets row-locks the given wallets in canonical (user, kind)
// order. Every multi-wallet operation must acquire its locks through
// this helper so concurrent operations touching overlapping accounts
// cannot deadlock.
func lockWallets(ctx context.Context, walletRepo interfaces.WalletRepository, refs ...entities.AccountRef) (map[entities.AccountRef]*entities.Wallet, error) {
	ordered := make([]entities.AccountRef, len(refs))
	copy(ordered, refs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Less(ordered[j])
	})

	locked := make(map[entities.AccountRef]*entities.Wallet, len(ordered))
	for _, ref := range ordered {
		if _, seen := locked[ref]; seen {
			continue
		}
		wallet, err := walletRepo.GetForUpdate(ctx, ref.UserID, ref.Kind)
		if err != nil {
			return nil, err
		}
		locked[ref] = wallet
	}
	return locked, nil
}

// moveFunds debits from and credits to under already-held locks,
// recording both new balances. The debit runs first so an insufficient
// source fails before any credit is applied.
func moveFunds(ctx context.Context, walletRepo interfaces.WalletRepository, from, to entities.AccountRef, amount int64) (fromBalance, toBalance int64, err error) {
	fromBalance, err = walletRepo.ApplyDelta(ctx, from.UserID, from.Kind, -amount)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeInsufficientFunds {
			return 0, 0, domain.NewError(domain.CodeInsufficientFunds,
				"account %s cannot cover %d", from, amount)
		}
		return 0, 0, err
	}
	toBalance, err = walletRepo.ApplyDelta(ctx, to.UserID, to.Kind, amount)
	if err != nil {
		return 0, 0, err
	}
	return fromBalance, toBalance, nil
}
