package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"calmpath/internal/models"
	"calmpath/internal/recommend"
	"calmpath/internal/repository"
	"calmpath/internal/security"
	"calmpath/internal/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendUnknownChildIsEmpty(t *testing.T) {
	svc := NewRecommendationService(repository.NewMemoryChildRepository(), repository.NewDefaultActivityCatalog())

	activities, err := svc.Recommend(42, 6)
	require.NoError(t, err)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestRecommendMatchesEngine(t *testing.T) {
	children := repository.NewMemoryChildRepository(repository.DefaultChildren()...)
	catalog := repository.NewDefaultActivityCatalog()
	svc := NewRecommendationService(children, catalog)

	activities, err := svc.Recommend(1, 0)
	require.NoError(t, err)
	require.Len(t, activities, recommend.DefaultLimit)

	alex, _ := children.GetByID(1)
	assert.Equal(t, recommend.Recommend(alex, catalog.List(), 0), activities)

	ranked, err := svc.Rank(1, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, activities[0].ID, ranked[0].Activity.ID)
	assert.Equal(t, ranked[0].Breakdown.Total(), ranked[0].Score)
}

func TestRecommendReflectsEmotionChange(t *testing.T) {
	children := repository.NewMemoryChildRepository(repository.DefaultChildren()...)
	recs := NewRecommendationService(children, repository.NewDefaultActivityCatalog())
	emotions := NewEmotionService(children, nil)

	before, err := recs.Recommend(1, 15)
	require.NoError(t, err)

	_, err = emotions.ApplyManualEmotion(1, "frustrated", nil)
	require.NoError(t, err)

	after, err := recs.Recommend(1, 15)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCatalogService(t *testing.T) {
	svc := NewCatalogService(repository.NewDefaultActivityCatalog(), repository.NewMemoryChildRepository(repository.DefaultChildren()...))

	assert.Len(t, svc.Activities(""), 15)
	for _, a := range svc.Activities(models.CategorySocial) {
		assert.Equal(t, models.CategorySocial, a.Category)
	}
	assert.Empty(t, svc.Activities("underwater"))
	assert.Equal(t, []string{models.CategorySocial, models.CategoryBehavioral, models.CategoryEmotional}, svc.Categories())

	activity, err := svc.Activity(10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), activity.ID)

	_, err = svc.Activity(99)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	children, err := svc.Children()
	require.NoError(t, err)
	assert.Len(t, children, 3)

	_, err = svc.Child(99)
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestCatalogServiceEmptyChildren(t *testing.T) {
	svc := NewCatalogService(repository.NewDefaultActivityCatalog(), repository.NewMemoryChildRepository())

	children, err := svc.Children()
	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)
}

type fakeSender struct {
	sent []*sesv2.SendEmailInput
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func newTestAuthService(sender EmailSender) *AuthService {
	var email *EmailService
	if sender != nil {
		email = NewEmailServiceWithSender(sender, "hello@calmpath.test", "CalmPath", "http://localhost:3000", false)
	}
	return NewAuthService(repository.NewMemoryCaregiverRepository(), security.NewTokenIssuer("test-secret", time.Hour), email)
}

func TestRegisterAndLogin(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestAuthService(sender)

	caregiver, err := svc.Register(context.Background(), "jamie", " Jamie@Example.com ", "password123", "Jamie")
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", caregiver.Email)
	assert.NotEqual(t, "password123", caregiver.PasswordHash)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"jamie@example.com"}, sender.sent[0].Destination.ToAddresses)
	assert.Equal(t, "CalmPath <hello@calmpath.test>", *sender.sent[0].FromEmailAddress)

	for _, identifier := range []string{"jamie", "JAMIE@example.com"} {
		token, err := svc.Login(identifier, "password123")
		require.NoError(t, err, identifier)
		assert.Equal(t, "bearer", token.TokenType)
		assert.Equal(t, caregiver.ID, token.Caregiver.ID)

		me, err := svc.Authenticate(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "jamie", me.Username)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newTestAuthService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jamie", "jamie@example.com", "password123", "Jamie")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "jamie", "other@example.com", "password123", "Jamie")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "jamie2", "jamie@example.com", "password123", "Jamie")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(nil)

	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		fullName  string
		wantField string
	}{
		{"bad username", "j", "j@example.com", "password123", "Jamie", "username"},
		{"bad email", "jamie", "not-an-email", "password123", "Jamie", "email"},
		{"short password", "jamie", "j@example.com", "short", "Jamie", "password"},
		{"missing name", "jamie", "j@example.com", "password123", " ", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password, tt.fullName)
			var verr validation.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestRegisterSurvivesEmailFailure(t *testing.T) {
	svc := newTestAuthService(&fakeSender{err: errors.New("ses down")})

	_, err := svc.Register(context.Background(), "jamie", "jamie@example.com", "password123", "Jamie")
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	svc := newTestAuthService(nil)
	_, err := svc.Register(context.Background(), "jamie", "jamie@example.com", "password123", "Jamie")
	require.NoError(t, err)

	for _, tc := range [][2]string{{"jamie", "wrong-password"}, {"nobody", "password123"}, {"", "password123"}} {
		_, err := svc.Login(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials, "login %q", tc[0])
	}

	_, err = svc.Authenticate("garbage")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestMe(t *testing.T) {
	svc := newTestAuthService(nil)
	caregiver, err := svc.Register(context.Background(), "jamie", "jamie@example.com", "password123", "Jamie")
	require.NoError(t, err)

	me, err := svc.Me(caregiver.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jamie", me.Name)

	_, err = svc.Me(999)
	assert.ErrorIs(t, err, ErrCaregiverNotFound)
}

func TestDisabledEmailServiceDropsMail(t *testing.T) {
	svc, err := NewEmailService("us-east-1", "", "CalmPath", "http://localhost:3000", false)
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendWelcomeEmail(context.Background(), "a@example.com", "A"))
}

func newTestOutcomeService() *OutcomeService {
	svc := NewOutcomeService(
		repository.NewMemoryOutcomeRepository(),
		repository.NewMemoryChildRepository(repository.DefaultChildren()...),
		repository.NewDefaultActivityCatalog(),
	)
	return svc
}

func TestRecordOutcome(t *testing.T) {
	svc := newTestOutcomeService()

	outcome, err := svc.Record(7, OutcomeInput{ChildID: 1, ActivityID: 4, Engagement: 4, Stress: 2, Success: 5, Notes: "  loved it "})
	require.NoError(t, err)
	assert.NotZero(t, outcome.ID)
	assert.Equal(t, int64(7), outcome.CaregiverID)
	assert.Equal(t, "loved it", outcome.Notes)
	assert.False(t, outcome.CompletedAt.IsZero())

	got, err := svc.Get(outcome.ID)
	require.NoError(t, err)
	assert.Equal(t, outcome.ActivityID, got.ActivityID)

	_, err = svc.Get(999)
	assert.ErrorIs(t, err, ErrOutcomeNotFound)
}

func TestRecordOutcomeValidation(t *testing.T) {
	svc := newTestOutcomeService()

	_, err := svc.Record(1, OutcomeInput{ChildID: 1, ActivityID: 4, Engagement: 6, Stress: 2, Success: 3})
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "engagement", errs[0].Field)

	_, err = svc.Record(1, OutcomeInput{ChildID: 99, ActivityID: 4, Engagement: 3, Stress: 3, Success: 3})
	assert.ErrorIs(t, err, ErrChildNotFound)

	_, err = svc.Record(1, OutcomeInput{ChildID: 1, ActivityID: 99, Engagement: 3, Stress: 3, Success: 3})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestListOutcomesNewestFirst(t *testing.T) {
	svc := newTestOutcomeService()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, activityID := range []int64{1, 2, 1} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Record(1, OutcomeInput{ChildID: 1, ActivityID: activityID, Engagement: 3, Stress: 3, Success: 3})
		require.NoError(t, err)
	}

	all, err := svc.List(models.OutcomeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID)

	onlyFirst, err := svc.List(models.OutcomeFilter{ActivityID: 1})
	require.NoError(t, err)
	assert.Len(t, onlyFirst, 2)

	none, err := svc.List(models.OutcomeFilter{ChildID: 3})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSeedChildren(t *testing.T) {
	children := repository.NewMemoryChildRepository()
	svc := NewSeedService(children)

	n, err := svc.SeedChildren(repository.DefaultChildren())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.SeedChildren(repository.DefaultChildren())
	require.NoError(t, err)
	assert.Zero(t, n, "a populated store is left alone")

	count, _ := children.Count()
	assert.Equal(t, 3, count)
}

func TestChildServiceCreate(t *testing.T) {
	children := repository.NewMemoryChildRepository(repository.DefaultChildren()...)
	svc := NewChildService(children)

	child, err := svc.Create(ChildInput{
		Name:          "  Riley ",
		Age:           9,
		Needs:         map[string]string{models.CategorySocial: models.LevelHigh},
		AutismDetails: AutismDetailsInput{Severity: 4, Type: " ASD-3 "},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), child.ID)
	assert.Equal(t, "Riley", child.Name)
	assert.Equal(t, "ASD-3", child.AutismDetails.Type)
	assert.Equal(t, "neutral", child.CurrentEmotion)

	_, err = svc.Create(ChildInput{Name: " ", Age: 9})
	var fieldErrs validation.Errors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, "name", fieldErrs[0].Field)

	_, err = svc.Create(ChildInput{Name: "Sam", Age: 9, Interests: []string{"music", ""}})
	assert.True(t, errors.As(err, &fieldErrs))
}

func TestChildServiceUpdate(t *testing.T) {
	children := repository.NewMemoryChildRepository(repository.DefaultChildren()...)
	svc := NewChildService(children)
	emotions := NewEmotionService(children, nil)

	_, err := emotions.ApplyManualEmotion(1, "anxious", nil)
	require.NoError(t, err)

	name := "Alexander"
	level := models.LevelHigh
	updated, err := svc.Update(1, ChildUpdate{
		Name:          &name,
		SocialStatus:  &level,
		Interests:     []string{"music"},
		AutismDetails: &AutismDetailsInput{Severity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alexander", updated.Name)
	assert.Equal(t, 7, updated.Age)
	assert.Equal(t, models.LevelHigh, updated.SocialStatus)
	assert.Equal(t, []string{"music"}, updated.Interests)
	assert.Equal(t, 2, updated.AutismDetails.Severity)
	assert.Equal(t, "anxious", updated.CurrentEmotion)
	assert.Equal(t, 1, updated.EmotionHistory.Len())

	_, err = svc.Update(1, ChildUpdate{})
	var fieldErr validation.ValidationError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "no fields to update", fieldErr.Message)

	badAge := 30
	_, err = svc.Update(1, ChildUpdate{Age: &badAge})
	var fieldErrs validation.Errors
	assert.True(t, errors.As(err, &fieldErrs))

	_, err = svc.Update(99, ChildUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrChildNotFound)
}
