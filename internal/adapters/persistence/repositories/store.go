package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homework-desk/internal/core/domain"
)

// Store groups the repositories that share one database handle.
type Store struct {
	db *gorm.DB

	Users        UserRepository
	Requests     RequestRepository
	Transactions TransactionRepository
	Config       ConfigRepository
	Messages     MessageRepository
}

// NewStore creates repositories bound to db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Requests:     NewRequestRepository(db),
		Transactions: NewTransactionRepository(db),
		Config:       NewConfigRepository(db),
		Messages:     NewMessageRepository(db),
	}
}

// Atomic runs fn inside one database transaction. The store passed to fn is
// bound to that transaction; a returned error rolls everything back.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(NewStore(db))
	})
	if err == nil {
		return nil
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) || isDomainError(err) {
		return err
	}
	return domain.Persist("transaction", err)
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// forUpdate adds a row lock on dialects that support it. SQLite serialises
// writers on its own.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "mysql" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// matched returns gorm.ErrRecordNotFound when an update touched no row with
// the given id. MySQL reports changed rows only, so a zero is confirmed with
// a lookup before it counts as missing.
func matched(db *gorm.DB, model interface{}, id interface{}, res *gorm.DB) error {
	if res.Error != nil || res.RowsAffected > 0 {
		return res.Error
	}
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// wrap converts gorm errors into the domain taxonomy.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.DuplicateError{Field: "record"}
	}
	return domain.Persist(op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrDuplicateEntry,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
