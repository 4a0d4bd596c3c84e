package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/myportfolify/backend/internal/models"
)

// Usernames become public URL path segments, so they are constrained to a
// lowercase slug.
var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,49}$`)

// ProjectInput carries the client-supplied fields of a new project. The id
// and creation timestamp are server-assigned.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Images      []string `json:"images"`
	LiveURL     string   `json:"liveUrl"`
	GithubURL   string   `json:"githubUrl"`
	Category    string   `json:"category"`
	Featured    bool     `json:"featured"`
}

// ProjectPatch updates an existing project. Nil fields are left untouched
// (shallow merge).
type ProjectPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	TechStack   *[]string `json:"techStack"`
	Images      *[]string `json:"images"`
	LiveURL     *string   `json:"liveUrl"`
	GithubURL   *string   `json:"githubUrl"`
	Category    *string   `json:"category"`
	Featured    *bool     `json:"featured"`
}

// ProfileService owns the portfolio documents: one profile row per user with
// the embedded project list.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// CheckUsername reports whether a profile with the given username exists.
func (s *ProfileService) CheckUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Create claims a username and creates the profile pre-populated with empty
// sub-fields. The unique index on username is the arbiter under concurrent
// claims: exactly one request wins, the rest get ErrUsernameTaken.
func (s *ProfileService) Create(ctx context.Context, userID uuid.UUID, email, username string) (*models.Profile, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	taken, err := s.CheckUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	profile := models.Profile{
		UserID:   userID,
		Username: username,
		Details: models.ProfileDetails{
			Name:           localPart(email),
			Skills:         []models.SkillGroup{},
			Education:      []models.Education{},
			WorkExperience: []models.WorkExperience{},
		},
		Projects: models.ProjectList{},
	}

	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &profile, nil
}

// GetByUser returns the caller's own profile.
func (s *ProfileService) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// GetByUsername returns the public profile document. Once a username exists
// the whole document is public; there is no field-level redaction.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// UpdateDetails replaces the nested profile sub-document wholesale.
func (s *ProfileService) UpdateDetails(ctx context.Context, userID uuid.UUID, details models.ProfileDetails) (*models.Profile, error) {
	profile, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Details = details
	if err := s.db.WithContext(ctx).Model(profile).Update("details", details).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile details: %w", err)
	}

	return profile, nil
}

// UpdateTemplate changes the public rendering theme.
func (s *ProfileService) UpdateTemplate(ctx context.Context, userID uuid.UUID, template string) (*models.Profile, error) {
	if !models.IsValidTemplate(template) {
		return nil, ErrInvalidTemplate
	}

	profile, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Template = template
	if err := s.db.WithContext(ctx).Model(profile).Update("template", template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return profile, nil
}

// AddProject appends a project with a server-assigned id and timestamp and
// returns the created entry.
func (s *ProfileService) AddProject(ctx context.Context, userID uuid.UUID, input ProjectInput) (*models.Project, error) {
	project := models.Project{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		TechStack:   input.TechStack,
		Images:      input.Images,
		LiveURL:     input.LiveURL,
		GithubURL:   input.GithubURL,
		Category:    input.Category,
		Featured:    input.Featured,
		CreatedAt:   time.Now(),
	}

	err := s.withLockedProfile(ctx, userID, func(tx *gorm.DB, profile *models.Profile) error {
		profile.Projects = append(profile.Projects, project)
		return tx.Model(profile).Update("projects", profile.Projects).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// UpdateProject shallow-merges the patch into the matching entry and returns
// the updated profile.
func (s *ProfileService) UpdateProject(ctx context.Context, userID, projectID uuid.UUID, patch ProjectPatch) (*models.Profile, error) {
	var updated *models.Profile
	err := s.withLockedProfile(ctx, userID, func(tx *gorm.DB, profile *models.Profile) error {
		i := profile.Projects.IndexOf(projectID)
		if i < 0 {
			return ErrProjectNotFound
		}

		p := &profile.Projects[i]
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.TechStack != nil {
			p.TechStack = *patch.TechStack
		}
		if patch.Images != nil {
			p.Images = *patch.Images
		}
		if patch.LiveURL != nil {
			p.LiveURL = *patch.LiveURL
		}
		if patch.GithubURL != nil {
			p.GithubURL = *patch.GithubURL
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Featured != nil {
			p.Featured = *patch.Featured
		}

		updated = profile
		return tx.Model(profile).Update("projects", profile.Projects).Error
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProject removes the matching entry. Deleting an absent project is not
// an error; removal is filter-based and idempotent.
func (s *ProfileService) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Profile, error) {
	var updated *models.Profile
	err := s.withLockedProfile(ctx, userID, func(tx *gorm.DB, profile *models.Profile) error {
		kept := profile.Projects[:0:0]
		for _, p := range profile.Projects {
			if p.ID != projectID {
				kept = append(kept, p)
			}
		}
		profile.Projects = kept

		updated = profile
		return tx.Model(profile).Update("projects", profile.Projects).Error
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// withLockedProfile runs fn against the caller's profile row inside a
// transaction holding a row lock, so concurrent project mutations cannot
// lose updates to the embedded list.
func (s *ProfileService) withLockedProfile(ctx context.Context, userID uuid.UUID, fn func(tx *gorm.DB, profile *models.Profile) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := lockProfile(tx, "user_id = ?", userID)
		if err != nil {
			return err
		}
		return fn(tx, profile)
	})
}

// lockProfile loads one profile row inside tx with a row lock, so the caller
// can rewrite the embedded project list without losing concurrent updates.
// SQLite has no row locks but serializes writers on its own.
func lockProfile(tx *gorm.DB, query string, id uuid.UUID) (*models.Profile, error) {
	q := tx.Where(query, id)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var profile models.Profile
	if err := q.First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &profile, nil
}
