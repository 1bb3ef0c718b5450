package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/krishkalaria12/imageworld/models"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique column (email, username) already holds the value.
var ErrDuplicate = errors.New("duplicate record")

// AccountRepository persists accounts. Lookups return (nil, nil) when nothing matches.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateProStatus(ctx context.Context, id string, isPro bool, subscriptionID, subscriptionStatus string) (*models.Account, error)
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *accountRepo) first(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("creating account: %w", ErrDuplicate)
		}
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

// UpdateProStatus sets the plan fields in one statement. Empty strings are stored as NULL.
func (r *accountRepo) UpdateProStatus(ctx context.Context, id string, isPro bool, subscriptionID, subscriptionStatus string) (*models.Account, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_pro":              isPro,
			"subscription_id":     nullable(subscriptionID),
			"subscription_status": nullable(subscriptionStatus),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("updating pro status for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
