package postgres

import (
	"context"
	"time"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements repository.UserRepository using GORM.
type userRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db:  db,
		now: time.Now,
	}
}

// Create inserts the user, assigning a fresh UUID and creation time.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	userM.ID = uuid.New().String()
	userM.CreatedAt = repo.now().UTC()

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return domainerrors.NewStoreError(err, writeErrorDetails("failed to create user", err))
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt

	return nil
}

// FindOne returns the first user, in insertion order, that matches every non-empty filter field.
// An empty filter matches nothing.
func (repo *userRepository) FindOne(ctx context.Context, filter repository.UserFilter) (*entity.User, error) {
	if filter.IsZero() {
		return nil, repository.ErrUserNotFound
	}

	query := repo.db.WithContext(ctx)
	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return nil, repository.ErrUserNotFound
		}
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var userM model.UserModel
	err := query.Order("created_at").Take(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewStoreError(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

// FindAll returns every user in insertion order.
func (repo *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var userMs []*model.UserModel
	if err := repo.db.WithContext(ctx).Order("created_at").Find(&userMs).Error; err != nil {
		return nil, domainerrors.NewStoreError(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for _, userM := range userMs {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

func fromUserDomain(user *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		PhoneNumber:  user.PhoneNumber,
		CreatedAt:    user.CreatedAt,
	}
}

func toUserDomain(userM *model.UserModel) *entity.User {
	if userM == nil {
		return nil
	}

	return &entity.User{
		ID:           userM.ID,
		FirstName:    userM.FirstName,
		LastName:     userM.LastName,
		Email:        userM.Email,
		PasswordHash: userM.PasswordHash,
		PhoneNumber:  userM.PhoneNumber,
		CreatedAt:    userM.CreatedAt,
	}
}
