package repositories

import (
	"context"

	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new profile
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return phoneConflict(wrap("create profile", err))
	}
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID gets a profile by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, wrap("get profile", err)
	}
	return row.ToDomain(), nil
}

// GetByPhone gets a profile by phone number
func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&row).Error; err != nil {
		return nil, wrap("get profile by phone", err)
	}
	return row.ToDomain(), nil
}

// GetOwner gets the admin profile
func (r *userRepository) GetOwner(ctx context.Context) (*domain.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).Where("is_admin = ?", true).Order("created_at ASC").First(&row).Error; err != nil {
		return nil, wrap("get owner", err)
	}
	return row.ToDomain(), nil
}

// Update updates name and phone number
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"full_name":    user.FullName,
			"phone_number": user.PhoneNumber,
		}).Error
	return phoneConflict(wrap("update profile", err))
}

// UpdatePin replaces the login PIN hash
func (r *userRepository) UpdatePin(ctx context.Context, id, pinHash string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("pin", pinHash).Error
	return wrap("update pin", err)
}

// List lists all profiles, oldest first
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []*models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, wrap("list profiles", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.ToDomain())
	}
	return users, nil
}

// ExistsByPhone checks if a phone number is taken by anyone but exceptID
func (r *userRepository) ExistsByPhone(ctx context.Context, phone, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("phone_number = ?", phone)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, wrap("check phone", err)
}

// CountStudents counts non-admin profiles
func (r *userRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", false).Count(&count).Error
	return count, wrap("count students", err)
}

// phoneConflict names the phone number as the duplicate field; it is the only
// unique column on profiles.
func phoneConflict(err error) error {
	if _, ok := err.(*domain.DuplicateError); ok {
		return &domain.DuplicateError{Field: "phoneNumber"}
	}
	return err
}
