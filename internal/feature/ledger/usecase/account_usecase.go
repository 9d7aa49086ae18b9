package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"papertrade_backend/internal/feature/ledger/domain/entity"
	"papertrade_backend/internal/shared/apperr"
)

// DefaultStartingBalance は新規口座の初期資金です。
const DefaultStartingBalance = 100000.0

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// NormalizeUserID validates a user id (legajo).
func NormalizeUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if !userIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: invalid user id %q", apperr.ErrValidation, raw)
	}
	return id, nil
}

// AccountUsecase は口座の参照と初回アクセス時の作成を扱います。
type AccountUsecase struct {
	repo            AccountRepository
	startingBalance float64
}

// NewAccountUsecase は新しい AccountUsecase を作成します。startingBalance が0以下の場合はデフォルト値を使います。
func NewAccountUsecase(repo AccountRepository, startingBalance float64) *AccountUsecase {
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	return &AccountUsecase{repo: repo, startingBalance: startingBalance}
}

// GetOrCreate は口座を返します。存在しない場合は初期資金で作成します。
func (u *AccountUsecase) GetOrCreate(ctx context.Context, rawID string) (*entity.Account, error) {
	id, err := NormalizeUserID(rawID)
	if err != nil {
		return nil, err
	}

	acct, err := u.repo.Find(ctx, id)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	acct = entity.NewAccount(id, u.startingBalance)
	if err := u.repo.Create(ctx, acct); err != nil {
		// 同時の初回アクセスで先に作成された場合はそちらを返す
		if errors.Is(err, apperr.ErrDuplicate) {
			return u.repo.Find(ctx, id)
		}
		return nil, err
	}
	slog.Info("account created", "user_id", id, "balance", u.startingBalance)
	return acct, nil
}
