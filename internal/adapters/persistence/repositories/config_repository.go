package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// configRepository implements ConfigRepository interface
type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new app_config repository
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// Get reads the singleton row
func (r *configRepository) Get(ctx context.Context) (*domain.AppConfig, error) {
	var row models.AppConfig
	if err := r.db.WithContext(ctx).Where("id = ?", domain.ConfigID).First(&row).Error; err != nil {
		return nil, wrap("get config", err)
	}
	return row.ToDomain(), nil
}

// GetForUpdate reads the singleton row holding a lock until commit
func (r *configRepository) GetForUpdate(ctx context.Context) (*domain.AppConfig, error) {
	var row models.AppConfig
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", domain.ConfigID).First(&row).Error; err != nil {
		return nil, wrap("lock config", err)
	}
	return row.ToDomain(), nil
}

// EnsureDefaults inserts the singleton row unless it already exists
func (r *configRepository) EnsureDefaults(ctx context.Context, defaults *domain.AppConfig) error {
	row := models.AppConfigFromDomain(defaults)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(row).Error
	return wrap("seed config", err)
}

// AddBalance applies delta with a single atomic increment
func (r *configRepository) AddBalance(ctx context.Context, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return r.set(ctx, "add balance", map[string]interface{}{
		"admin_balance": gorm.Expr("admin_balance + ?", delta),
	})
}

// SetBalance overwrites the balance
func (r *configRepository) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	return r.set(ctx, "set balance", map[string]interface{}{"admin_balance": balance})
}

// SetActiveSeason activates a season; nil deactivates
func (r *configRepository) SetActiveSeason(ctx context.Context, seasonID *string) error {
	return r.set(ctx, "set season", map[string]interface{}{"active_season_id": seasonID})
}

// IncrementBannerClicks counts one banner click atomically
func (r *configRepository) IncrementBannerClicks(ctx context.Context) error {
	return r.set(ctx, "banner click", map[string]interface{}{
		"banner_clicks": gorm.Expr("banner_clicks + ?", 1),
	})
}

// SetInvestmentMode stores the goal allocation mode
func (r *configRepository) SetInvestmentMode(ctx context.Context, mode domain.InvestmentMode) error {
	return r.set(ctx, "set investment mode", map[string]interface{}{"investment_mode": string(mode)})
}

// SetVerificationPin stores the verification panel PIN hash
func (r *configRepository) SetVerificationPin(ctx context.Context, pinHash string) error {
	return r.set(ctx, "set verification pin", map[string]interface{}{"admin_verification_pin": pinHash})
}

// SetDashboardPin stores the dashboard panel PIN hash
func (r *configRepository) SetDashboardPin(ctx context.Context, pinHash string) error {
	return r.set(ctx, "set dashboard pin", map[string]interface{}{"dashboard_access_pin": pinHash})
}

// errConfigMissing means the singleton row is gone; writes against it fail
// instead of silently updating nothing.
var errConfigMissing = errors.New("app_config row missing")

func (r *configRepository) set(ctx context.Context, op string, values map[string]interface{}) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.AppConfig{}).
		Where("id = ?", domain.ConfigID).
		Updates(values)
	err := matched(db, &models.AppConfig{}, domain.ConfigID, res)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Persist(op, errConfigMissing)
	}
	return wrap(op, err)
}
