package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories"
	"github.com/quasydwekat2/task-management-system/utils"
)

type UserService struct {
	users     repositories.UserRepository
	blackList map[string]bool
}

func NewUserService(users repositories.UserRepository, blackList map[string]bool) *UserService {
	return &UserService{users: users, blackList: blackList}
}

type RegisterInput struct {
	Username     string      `json:"username"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
	UniversityID string      `json:"universityId"`
}

// Register creates a new account. Role is fixed at creation; there is no
// promotion flow.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	switch {
	case input.Username == "":
		return nil, models.NewValidationError("Username is required")
	case input.Password == "":
		return nil, models.NewValidationError("Password is required")
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleStudent {
		return nil, models.NewValidationError("Role must be admin or student")
	}
	if input.Role != models.RoleStudent && input.UniversityID != "" {
		return nil, models.NewValidationError("University ID is only valid for students")
	}
	if s.blackList[input.Password] {
		return nil, models.NewValidationError("Password is too common, choose another one")
	}

	_, err := s.users.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, models.NewValidationError("Username is already taken")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewStoreError("Server error", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}

	user := &models.User{
		Username:     input.Username,
		Password:     string(hashedPassword),
		Role:         input.Role,
		UniversityID: input.UniversityID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.Username, user.Role)
	return user, nil
}

// Login verifies the credentials and returns the user with a signed token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", models.NewValidationError("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", models.NewAuthenticationError("Invalid username or password")
	}
	if err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewAuthenticationError("Invalid username or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Username, string(user.Role))
	if err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}
	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.Username)
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return user, nil
}

func (s *UserService) GetStudents(ctx context.Context) ([]models.User, error) {
	students, err := s.users.GetByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return students, nil
}

func (s *UserService) GetAdmin(ctx context.Context) (*models.User, error) {
	admin, err := s.users.GetOneByRole(ctx, models.RoleAdmin)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Admin not found")
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return admin, nil
}
