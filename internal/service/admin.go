package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/myportfolify/backend/internal/models"
)

// AdminUserEntry is one row of the admin user listing: public user fields
// joined in application code with the owned profile's username and project
// count.
type AdminUserEntry struct {
	User         models.User `json:"user"`
	Username     string      `json:"username,omitempty"`
	HasProfile   bool        `json:"hasProfile"`
	ProjectCount int         `json:"projectCount"`
}

// AdminUserStats is the full listing plus aggregate counts.
type AdminUserStats struct {
	TotalUsers       int              `json:"totalUsers"`
	VerifiedUsers    int              `json:"verifiedUsers"`
	UsersWithProfile int              `json:"usersWithProfile"`
	TotalProjects    int              `json:"totalProjects"`
	Users            []AdminUserEntry `json:"users"`
}

// AdminService implements the privileged management operations. Every
// mutation appends an AuditLog row; audit failures are logged, never fatal.
type AdminService struct {
	db               *gorm.DB
	sessions         SessionStrategy
	logger           *zap.Logger
	allowImpersonate bool
}

func NewAdminService(db *gorm.DB, sessions SessionStrategy, logger *zap.Logger, allowImpersonate bool) *AdminService {
	return &AdminService{
		db:               db,
		sessions:         sessions,
		logger:           logger,
		allowImpersonate: allowImpersonate,
	}
}

// ListUsersWithStats loads every user and profile and joins them in
// application code.
func (s *AdminService) ListUsersWithStats(ctx context.Context) (*AdminUserStats, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	byOwner := make(map[uuid.UUID]*models.Profile, len(profiles))
	for i := range profiles {
		byOwner[profiles[i].UserID] = &profiles[i]
	}

	stats := &AdminUserStats{
		TotalUsers: len(users),
		Users:      make([]AdminUserEntry, 0, len(users)),
	}
	for _, u := range users {
		entry := AdminUserEntry{User: u}
		if u.IsVerified {
			stats.VerifiedUsers++
		}
		if p, ok := byOwner[u.ID]; ok {
			entry.HasProfile = true
			entry.Username = p.Username
			entry.ProjectCount = len(p.Projects)
			stats.UsersWithProfile++
			stats.TotalProjects += len(p.Projects)
		}
		stats.Users = append(stats.Users, entry)
	}

	return stats, nil
}

// DeleteUser removes the account and cascades to its profile.
func (s *AdminService) DeleteUser(ctx context.Context, actor string, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", userID).Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return fmt.Errorf("failed to delete owned profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit(ctx, actor, "user.delete", userID.String(), "")
	return nil
}

// VerifyUser marks the account verified without a token round-trip.
func (s *AdminService) VerifyUser(ctx context.Context, actor string, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verification_token": "",
		})
	if res.Error != nil {
		return fmt.Errorf("failed to verify user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.audit(ctx, actor, "user.verify", userID.String(), "")
	return nil
}

// ResetUserPassword sets a new password directly and clears any pending
// reset token.
func (s *AdminService) ResetUserPassword(ctx context.Context, actor string, userID uuid.UUID, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":      string(hashed),
			"reset_token":        "",
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.audit(ctx, actor, "user.reset-password", userID.String(), "")
	return nil
}

// UpdateUserEmail changes the login email, subject to uniqueness.
func (s *AdminService) UpdateUserEmail(ctx context.Context, actor string, userID uuid.UUID, newEmail string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("email", newEmail)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to update email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.audit(ctx, actor, "user.update-email", userID.String(), newEmail)
	return nil
}

// Impersonate issues a session for the target account. Development only.
func (s *AdminService) Impersonate(ctx context.Context, actor string, userID uuid.UUID) (string, error) {
	if !s.allowImpersonate {
		return "", ErrImpersonationDisabled
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	tok, err := s.sessions.Issue(ctx, &user)
	if err != nil {
		return "", fmt.Errorf("failed to issue session: %w", err)
	}

	s.audit(ctx, actor, "user.impersonate", userID.String(), "")
	return tok, nil
}

// DeleteProfile removes a profile without touching its owner account.
func (s *AdminService) DeleteProfile(ctx context.Context, actor string, profileID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", profileID).Delete(&models.Profile{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	s.audit(ctx, actor, "profile.delete", profileID.String(), "")
	return nil
}

// UpdateProfileDetails replaces the nested details of any profile.
func (s *AdminService) UpdateProfileDetails(ctx context.Context, actor string, profileID uuid.UUID, details models.ProfileDetails) error {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("details", details)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	s.audit(ctx, actor, "profile.update", profileID.String(), "")
	return nil
}

// FeatureProject toggles the featured flag on one project of a profile. The
// rewrite of the project list holds the same row lock the owner's project
// mutations take, so neither side can lose the other's update.
func (s *AdminService) FeatureProject(ctx context.Context, actor string, profileID, projectID uuid.UUID, featured bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := lockProfile(tx, "id = ?", profileID)
		if err != nil {
			return err
		}

		i := profile.Projects.IndexOf(projectID)
		if i < 0 {
			return ErrProjectNotFound
		}
		profile.Projects[i].Featured = featured

		return tx.Model(profile).Update("projects", profile.Projects).Error
	})
	if err != nil {
		return err
	}

	s.audit(ctx, actor, "profile.feature-project", profileID.String(), projectID.String())
	return nil
}

// TransferOwnership re-homes a profile onto another existing user.
func (s *AdminService) TransferOwnership(ctx context.Context, actor string, profileID, newOwnerID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Where("id = ?", newOwnerID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load target user: %w", err)
		}

		res := tx.Model(&models.Profile{}).
			Where("id = ?", profileID).
			Update("user_id", newOwnerID)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return ErrProfileExists
			}
			return fmt.Errorf("failed to transfer profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProfileNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit(ctx, actor, "profile.transfer-ownership", profileID.String(), newOwnerID.String())
	return nil
}

func (s *AdminService) audit(ctx context.Context, actor, action, target, detail string) {
	entry := models.AuditLog{
		ActorEmail: actor,
		Action:     action,
		TargetID:   target,
		Detail:     detail,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("failed to write audit log",
			zap.String("action", action),
			zap.String("target", target),
			zap.Error(err),
		)
	}
}
