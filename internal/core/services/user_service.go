package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/password"
	"homework-desk/internal/pkg/validate"
)

// User errors
var (
	ErrOwnerPhoneReserved = domain.Invalid("phoneNumber", "this number is reserved")
	ErrOwnerPhoneFixed    = domain.Invalid("phoneNumber", "the owner account keeps its phone number")
)

// PresenceSource reports whether a user is connected
type PresenceSource interface {
	Presence(userID string) (online bool, lastSeen *time.Time)
}

// UserService handles profiles and the owner's student directory
type UserService struct {
	users    repositories.UserRepository
	requests repositories.RequestRepository
	presence PresenceSource
	notifier Notifier
}

// NewUserService creates a new user service
func NewUserService(
	users repositories.UserRepository,
	requests repositories.RequestRepository,
	presence PresenceSource,
	notifier Notifier,
) *UserService {
	return &UserService{
		users:    users,
		requests: requests,
		presence: presence,
		notifier: notifier,
	}
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	FullName    string `json:"fullName" validate:"notblank,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"len=10,digits"`
}

// ChangePinInput represents login PIN change input
type ChangePinInput struct {
	Pin        string `json:"pin" validate:"len=6,digits"`
	ConfirmPin string `json:"confirmPin" validate:"eqfield=Pin"`
}

// StudentSummary is one row of the owner's student directory
type StudentSummary struct {
	User     *domain.User        `json:"user"`
	Stats    domain.StudentStats `json:"stats"`
	Online   bool                `json:"online"`
	LastSeen *time.Time          `json:"lastSeen,omitempty"`
}

// StudentDetail adds the student's requests to the summary
type StudentDetail struct {
	StudentSummary
	Requests []*domain.HomeworkRequest `json:"requests"`
}

// GetProfile returns the caller's account
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile changes name and phone number
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input *UpdateProfileInput) (*domain.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin && input.PhoneNumber != domain.OwnerPhone {
		return nil, ErrOwnerPhoneFixed
	}
	if !user.IsAdmin && input.PhoneNumber == domain.OwnerPhone {
		return nil, ErrOwnerPhoneReserved
	}

	if input.PhoneNumber != user.PhoneNumber {
		exists, err := s.users.ExistsByPhone(ctx, input.PhoneNumber, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrPhoneTaken
		}
	}

	user.FullName = input.FullName
	user.PhoneNumber = input.PhoneNumber
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Invalidate(EntityUsers)
	return user, nil
}

// ChangePin replaces the caller's login PIN
func (s *UserService) ChangePin(ctx context.Context, userID string, input *ChangePinInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	pinHash, err := password.Hash(input.Pin)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePin(ctx, userID, pinHash); err != nil {
		return err
	}

	logger.Log.Info().Str("user", userID).Msg("✅ Login PIN changed")
	return nil
}

// ListStudents lists every account with fee totals, the owner first and
// then students by name.
func (s *UserService) ListStudents(ctx context.Context) ([]*StudentSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]*domain.HomeworkRequest)
	for _, r := range reqs {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	out := make([]*StudentSummary, 0, len(users))
	for _, u := range users {
		out = append(out, s.summary(u, byUser[u.ID]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].User, out[j].User
		if a.IsAdmin != b.IsAdmin {
			return a.IsAdmin
		}
		return strings.ToLower(a.FullName) < strings.ToLower(b.FullName)
	})
	return out, nil
}

// GetStudent returns one account with its requests
func (s *UserService) GetStudent(ctx context.Context, userID string) (*StudentDetail, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StudentDetail{
		StudentSummary: *s.summary(user, reqs),
		Requests:       reqs,
	}, nil
}

func (s *UserService) summary(u *domain.User, reqs []*domain.HomeworkRequest) *StudentSummary {
	online, lastSeen := s.presence.Presence(u.ID)
	return &StudentSummary{
		User:     u,
		Stats:    domain.StatsFor(reqs),
		Online:   online,
		LastSeen: lastSeen,
	}
}
