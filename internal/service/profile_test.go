package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myportfolify/backend/internal/models"
	"github.com/myportfolify/backend/internal/service"
	"github.com/myportfolify/backend/internal/testhelpers"
)

func newProfileService(t *testing.T) *service.ProfileService {
	t.Helper()
	return service.NewProfileService(testhelpers.SetupTestDatabase(t))
}

func TestCreateProfile(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	profile, err := svc.Create(ctx, userID, "alice@example.com", "alice-dev")
	require.NoError(t, err)

	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, "alice-dev", profile.Username)
	assert.Equal(t, "default", profile.Template)
	// The display name is seeded from the email's local part.
	assert.Equal(t, "alice", profile.Details.Name)
	assert.NotNil(t, profile.Details.Skills)
	assert.NotNil(t, profile.Projects)
	assert.Len(t, profile.Projects, 0)
}

func TestCreateProfileInvalidUsername(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()

	for _, username := range []string{"", "ab", "Has-Upper", "spa ce", "-leading", "way@home"} {
		_, err := svc.Create(ctx, uuid.New(), "a@example.com", username)
		assert.ErrorIs(t, err, service.ErrInvalidUsername, "username %q", username)
	}
}

func TestCreateProfileUsernameTaken(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), "a@example.com", "taken-name")
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.New(), "b@example.com", "taken-name")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestCreateProfileConcurrentClaim(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, uuid.New(), "race@example.com", "contested")
		}(i)
	}
	wg.Wait()

	// Exactly one request wins the username.
	var taken int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, service.ErrUsernameTaken)
			taken++
		}
	}
	assert.Equal(t, 1, taken)
}

func TestCheckUsername(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()

	exists, err := svc.CheckUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Create(ctx, uuid.New(), "a@example.com", "ghost")
	require.NoError(t, err)

	exists, err = svc.CheckUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetProfile(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.GetByUser(ctx, userID)
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
	_, err = svc.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)

	created, err := svc.Create(ctx, userID, "a@example.com", "somebody")
	require.NoError(t, err)

	byUser, err := svc.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUser.ID)

	byName, err := svc.GetByUsername(ctx, "somebody")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestUpdateDetailsReplacesDocument(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "a@example.com", "writer")
	require.NoError(t, err)

	details := models.ProfileDetails{
		Name:           "Alice",
		PassionateText: "I build things",
		Bio:            "Full-stack developer",
		SocialLinks:    models.SocialLinks{Github: "https://github.com/alice"},
		Skills: []models.SkillGroup{
			{TechName: "Backend", SkillsUsed: []string{"Go", "PostgreSQL"}},
		},
		Education: []models.Education{
			{CollegeName: "State University", Branch: "CS", Course: "BTech", YearOfPassout: 2022},
		},
		WorkExperience: []models.WorkExperience{
			{CompanyName: "Acme", Position: "Engineer", Duration: "2022-", CurrentlyWorking: true},
		},
	}

	updated, err := svc.UpdateDetails(ctx, userID, details)
	require.NoError(t, err)
	assert.Equal(t, details, updated.Details)

	reloaded, err := svc.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, details, reloaded.Details)
}

func TestUpdateTemplate(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "a@example.com", "themer")
	require.NoError(t, err)

	_, err = svc.UpdateTemplate(ctx, userID, "neon")
	assert.ErrorIs(t, err, service.ErrInvalidTemplate)

	updated, err := svc.UpdateTemplate(ctx, userID, "professional")
	require.NoError(t, err)
	assert.Equal(t, "professional", updated.Template)

	reloaded, err := svc.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "professional", reloaded.Template)
}

func TestProjectsPreserveInsertionOrder(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "a@example.com", "builder")
	require.NoError(t, err)

	titles := []string{"first", "second", "third"}
	ids := make([]uuid.UUID, 0, len(titles))
	for _, title := range titles {
		p, err := svc.AddProject(ctx, userID, service.ProjectInput{Title: title})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
		ids = append(ids, p.ID)
	}

	profile, err := svc.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, profile.Projects, 3)
	for i, title := range titles {
		assert.Equal(t, title, profile.Projects[i].Title)
	}

	// Removing the middle entry keeps the remaining order intact.
	profile, err = svc.DeleteProject(ctx, userID, ids[1])
	require.NoError(t, err)
	require.Len(t, profile.Projects, 2)
	assert.Equal(t, "first", profile.Projects[0].Title)
	assert.Equal(t, "third", profile.Projects[1].Title)
}

func TestUpdateProjectShallowMerge(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "a@example.com", "merger")
	require.NoError(t, err)

	created, err := svc.AddProject(ctx, userID, service.ProjectInput{
		Title:       "Portfolio",
		Description: "My site",
		TechStack:   []string{"Go"},
		Category:    "web",
	})
	require.NoError(t, err)

	newTitle := "Portfolio v2"
	featured := true
	profile, err := svc.UpdateProject(ctx, userID, created.ID, service.ProjectPatch{
		Title:    &newTitle,
		Featured: &featured,
	})
	require.NoError(t, err)

	require.Len(t, profile.Projects, 1)
	p := profile.Projects[0]
	assert.Equal(t, "Portfolio v2", p.Title)
	assert.True(t, p.Featured)
	// Untouched fields survive the patch.
	assert.Equal(t, "My site", p.Description)
	assert.Equal(t, []string{"Go"}, p.TechStack)
	assert.Equal(t, "web", p.Category)
	assert.Equal(t, created.ID, p.ID)
}

func TestUpdateProjectNotFound(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "a@example.com", "misser")
	require.NoError(t, err)

	_, err = svc.UpdateProject(ctx, userID, uuid.New(), service.ProjectPatch{})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestDeleteProjectIdempotent(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "a@example.com", "remover")
	require.NoError(t, err)

	created, err := svc.AddProject(ctx, userID, service.ProjectInput{Title: "Gone soon"})
	require.NoError(t, err)

	profile, err := svc.DeleteProject(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Projects, 0)

	// Deleting again is not an error.
	profile, err = svc.DeleteProject(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Projects, 0)
}

func TestProjectOperationsWithoutProfile(t *testing.T) {
	svc := newProfileService(t)
	ctx := context.Background()

	_, err := svc.AddProject(ctx, uuid.New(), service.ProjectInput{Title: "orphan"})
	assert.ErrorIs(t, err, service.ErrProfileNotFound)

	_, err = svc.UpdateProject(ctx, uuid.New(), uuid.New(), service.ProjectPatch{})
	assert.ErrorIs(t, err, service.ErrProfileNotFound)

	_, err = svc.DeleteProject(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}
