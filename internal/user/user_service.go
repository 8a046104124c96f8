package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"estante/internal/common"
	"estante/internal/dbmysql"
	"estante/internal/friendship"
)

// SnapshotRefresher propagates profile changes into the denormalized edges of
// the friendship graph.
type SnapshotRefresher interface {
	RefreshSnapshots(ctx context.Context, userID string, p friendship.Profile) error
}

type UserService interface {
	RegisterUser(ctx context.Context, handle, displayName, email, password string) (*dbmysql.User, string, error)
	LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID string) (*dbmysql.User, error)
	UpdateProfile(ctx context.Context, userID, displayName, nickname, bio, avatarFileID string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]*dbmysql.User, error)

	// ProfileSnapshot implements the profile source consumed by the
	// friendship store when denormalizing edges.
	ProfileSnapshot(ctx context.Context, userID string) (friendship.Profile, error)
}

type userService struct {
	userRepo  UserRepository
	refresher SnapshotRefresher
}

func NewUserService(userRepo UserRepository, refresher SnapshotRefresher) UserService {
	return &userService{userRepo: userRepo, refresher: refresher}
}

func (s *userService) RegisterUser(ctx context.Context, handle, displayName, email, password string) (*dbmysql.User, string, error) {
	if err := common.ValidateHandle(handle); err != nil {
		return nil, "", err
	}
	if err := common.ValidateDisplayName(displayName); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.userRepo.CheckUserExists(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", errors.New("handle already exists")
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		UserID:       uuid.NewString(),
		Handle:       handle,
		DisplayName:  strings.TrimSpace(displayName),
		Email:        email,
		PasswordHash: hashed,
		Status:       "active",
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := common.GenerateToken(user.UserID, user.Handle, user.Admin)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userService) LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error) {
	if handle == "" || password == "" {
		return nil, "", errors.New("handle and password required")
	}

	user, err := s.userRepo.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, "", err
	}

	if user.Status != "active" {
		return nil, "", errors.New("user is not active")
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", errors.New("invalid password")
	}

	token, err := common.GenerateToken(user.UserID, user.Handle, user.Admin)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dbmysql.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// UpdateProfile saves the changed fields and pushes the new snapshot into
// every friendship edge that denormalizes this user.
func (s *userService) UpdateProfile(ctx context.Context, userID, displayName, nickname, bio, avatarFileID string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if displayName != "" {
		if err := common.ValidateDisplayName(displayName); err != nil {
			return err
		}
		user.DisplayName = strings.TrimSpace(displayName)
	}
	if nickname != "" {
		user.Nickname = nickname
	}
	if bio != "" {
		user.Bio = bio
	}
	if avatarFileID != "" {
		user.AvatarFileID = avatarFileID
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	if s.refresher != nil {
		return s.refresher.RefreshSnapshots(ctx, userID, snapshotOf(user))
	}
	return nil
}

func (s *userService) SearchUsers(ctx context.Context, query string, limit int) ([]*dbmysql.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.SearchByHandle(ctx, query, limit)
}

func (s *userService) ProfileSnapshot(ctx context.Context, userID string) (friendship.Profile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return friendship.Profile{}, err
	}
	return snapshotOf(user), nil
}

// ProfileSource serves denormalized profile snapshots straight from the user
// repository. The friendship store consumes it when writing edges; using the
// repository directly keeps construction order simple, since the full user
// service itself depends on the friendship store for snapshot refreshes.
type ProfileSource struct {
	repo UserRepository
}

func NewProfileSource(repo UserRepository) *ProfileSource {
	return &ProfileSource{repo: repo}
}

func (p *ProfileSource) ProfileSnapshot(ctx context.Context, userID string) (friendship.Profile, error) {
	u, err := p.repo.GetUserByID(ctx, userID)
	if err != nil {
		return friendship.Profile{}, err
	}
	return snapshotOf(u), nil
}

func snapshotOf(u *dbmysql.User) friendship.Profile {
	avatarURL := ""
	if u.AvatarFileID != "" {
		avatarURL = "/avatars/" + u.AvatarFileID
	}
	return friendship.Profile{
		DisplayName: u.DisplayName,
		Nickname:    u.Nickname,
		AvatarURL:   avatarURL,
	}
}
