package services

import (
	"context"
	"strconv"
	"strings"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/metrics"
	"homework-desk/internal/pkg/password"

	"github.com/shopspring/decimal"
)

// PinKind names one of the owner's PINs
type PinKind string

const (
	PinLogin     PinKind = "login"
	PinAdmin     PinKind = "admin"
	PinDashboard PinKind = "dashboard"
)

// Length is the exact digit count of the PIN
func (k PinKind) Length() int {
	if k == PinLogin {
		return domain.LoginPinLength
	}
	return domain.PanelPinLength
}

func (k PinKind) Valid() bool {
	return k == PinLogin || k == PinAdmin || k == PinDashboard
}

// Settings errors
var (
	ErrUnknownSeason  = domain.Invalid("seasonId", "unknown season")
	ErrUnknownMode    = domain.Invalid("mode", "unknown investment mode")
	ErrUnknownPinKind = domain.Invalid("kind", "must be login, admin or dashboard")
	ErrPinMismatch    = domain.Invalid("confirmPin", "PINs do not match")
	ErrPinUnchanged   = domain.Invalid("pin", "must differ from the current PIN")
	ErrWrongPanelPin  = &domain.AuthorizationError{Reason: "incorrect PIN"}
)

// SettingsService manages the singleton config: seasons, PINs, the balance
// and the investment goals.
type SettingsService struct {
	store    *repositories.Store
	notifier Notifier
}

// NewSettingsService creates a new settings service
func NewSettingsService(store *repositories.Store, notifier Notifier) *SettingsService {
	return &SettingsService{store: store, notifier: notifier}
}

// SeasonCatalog is the fixed offer list plus the active one
type SeasonCatalog struct {
	Seasons []domain.SeasonOffer `json:"seasons"`
	Active  *domain.SeasonOffer  `json:"active"`
}

// PinChangeInput is a PIN replacement
type PinChangeInput struct {
	Pin        string `json:"pin"`
	ConfirmPin string `json:"confirmPin"`
}

// Config returns the singleton row
func (s *SettingsService) Config(ctx context.Context) (*domain.AppConfig, error) {
	return s.store.Config.Get(ctx)
}

// Seasons returns the catalog and the active season
func (s *SettingsService) Seasons(ctx context.Context) (*SeasonCatalog, error) {
	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &SeasonCatalog{Seasons: domain.Seasons(), Active: cfg.ActiveSeason()}, nil
}

// SetSeason activates the season with id; an empty id deactivates
func (s *SettingsService) SetSeason(ctx context.Context, id string) (*SeasonCatalog, error) {
	id = strings.TrimSpace(id)

	var seasonID *string
	if id != "" {
		if _, ok := domain.FindSeason(id); !ok {
			return nil, ErrUnknownSeason
		}
		seasonID = &id
	}

	if err := s.store.Config.SetActiveSeason(ctx, seasonID); err != nil {
		return nil, err
	}

	logger.Log.Info().Str("season", id).Msg("✅ Active season changed")
	s.notifier.Invalidate(EntityConfig)
	return s.Seasons(ctx)
}

// BannerClick counts one click on the season banner
func (s *SettingsService) BannerClick(ctx context.Context) error {
	if err := s.store.Config.IncrementBannerClicks(ctx); err != nil {
		return err
	}
	metrics.BannerClicks.Inc()
	s.notifier.Invalidate(EntityConfig)
	return nil
}

// Investment attributes the balance over the savings goals
func (s *SettingsService) Investment(ctx context.Context) (*domain.InvestmentSummary, error) {
	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return nil, err
	}
	summary := domain.Allocate(cfg.InvestmentMode, cfg.AdminBalance)
	return &summary, nil
}

// SetInvestmentMode selects the goal allocation
func (s *SettingsService) SetInvestmentMode(ctx context.Context, mode domain.InvestmentMode) (*domain.InvestmentSummary, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}
	if err := s.store.Config.SetInvestmentMode(ctx, mode); err != nil {
		return nil, err
	}
	s.notifier.Invalidate(EntityConfig)
	return s.Investment(ctx)
}

// VerifyPanelPin checks one of the two 4-digit panel PINs
func (s *SettingsService) VerifyPanelPin(ctx context.Context, kind PinKind, pin string) error {
	if kind != PinAdmin && kind != PinDashboard {
		return ErrUnknownPinKind
	}
	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return err
	}

	hash := cfg.AdminVerificationPinHash
	if kind == PinDashboard {
		hash = cfg.DashboardAccessPinHash
	}
	if !password.IsPin(pin, kind.Length()) || !password.Verify(pin, hash) {
		return ErrWrongPanelPin
	}
	return nil
}

// ChangePin replaces one of the owner's PINs. ownerID identifies the owner
// account for the login PIN.
func (s *SettingsService) ChangePin(ctx context.Context, ownerID string, kind PinKind, input *PinChangeInput) error {
	if !kind.Valid() {
		return ErrUnknownPinKind
	}
	if !password.IsPin(input.Pin, kind.Length()) {
		return domain.Invalid("pin", "must be exactly "+strconv.Itoa(kind.Length())+" digits")
	}
	if input.Pin != input.ConfirmPin {
		return ErrPinMismatch
	}

	current, err := s.currentPinHash(ctx, ownerID, kind)
	if err != nil {
		return err
	}
	if password.Verify(input.Pin, current) {
		return ErrPinUnchanged
	}

	hash, err := password.Hash(input.Pin)
	if err != nil {
		return err
	}

	switch kind {
	case PinLogin:
		err = s.store.Users.UpdatePin(ctx, ownerID, hash)
	case PinAdmin:
		err = s.store.Config.SetVerificationPin(ctx, hash)
	case PinDashboard:
		err = s.store.Config.SetDashboardPin(ctx, hash)
	}
	if err != nil {
		return err
	}

	logger.Log.Info().Str("kind", string(kind)).Msg("✅ Owner PIN changed")
	return nil
}

func (s *SettingsService) currentPinHash(ctx context.Context, ownerID string, kind PinKind) (string, error) {
	if kind == PinLogin {
		owner, err := s.store.Users.GetByID(ctx, ownerID)
		if err != nil {
			return "", err
		}
		return owner.PinHash, nil
	}

	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return "", err
	}
	if kind == PinAdmin {
		return cfg.AdminVerificationPinHash, nil
	}
	return cfg.DashboardAccessPinHash, nil
}

// ResyncBalance recomputes the balance as the sum of approved payments and
// returns the corrected value with the drift that was removed.
func (s *SettingsService) ResyncBalance(ctx context.Context) (balance, drift decimal.Decimal, err error) {
	err = s.store.Atomic(ctx, func(store *repositories.Store) error {
		// approvals add to the balance under this lock, so none land between
		// the sum and the write
		cfg, err := store.Config.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		sum, err := store.Transactions.SumApproved(ctx)
		if err != nil {
			return err
		}

		balance = sum
		drift = cfg.AdminBalance.Sub(sum)
		if drift.IsZero() {
			return nil
		}
		return store.Config.SetBalance(ctx, sum)
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	metrics.AdminBalance.Set(balance.InexactFloat64())
	if !drift.IsZero() {
		logger.Log.Warn().
			Str("balance", balance.StringFixed(2)).
			Str("drift", drift.StringFixed(2)).
			Msg("⚠️ Admin balance drift corrected")
		s.notifier.Invalidate(EntityConfig)
	}
	return balance, drift, nil
}
