package service

import (
	"fmt"
	"strings"

	"calmpath/internal/emotion"
	"calmpath/internal/logging"
	"calmpath/internal/models"
	"calmpath/internal/repository"
	"calmpath/internal/security"
	"calmpath/internal/validation"
)

// AutismDetailsInput is the diagnosis part of a profile request
type AutismDetailsInput struct {
	Severity      int      `json:"severity" validate:"gte=0,lte=5"`
	Type          string   `json:"type" validate:"max=50"`
	SpecificNeeds []string `json:"specificNeeds" validate:"max=20,dive,required,max=100"`
}

// ChildInput describes a new child profile. There is no current emotion
// field: new profiles start neutral and only emotion updates change that.
type ChildInput struct {
	Name            string             `json:"name" validate:"required,max=100"`
	Age             int                `json:"age" validate:"gte=2,lte=18"`
	Needs           map[string]string  `json:"needs" validate:"dive,keys,oneof=social behavioral emotional,endkeys,oneof=low medium high"`
	Preferences     []string           `json:"preferences" validate:"max=20,dive,required,max=100"`
	Strengths       []string           `json:"strengths" validate:"max=20,dive,required,max=100"`
	Challenges      []string           `json:"challenges" validate:"max=20,dive,required,max=100"`
	Interests       []string           `json:"interests" validate:"max=20,dive,required,max=100"`
	SocialStatus    string             `json:"socialStatus" validate:"omitempty,oneof=low medium high"`
	FinancialStatus string             `json:"financialStatus" validate:"omitempty,oneof=low medium high"`
	AutismDetails   AutismDetailsInput `json:"autismDetails"`
}

// ChildUpdate changes selected profile fields. Nil fields are left alone.
type ChildUpdate struct {
	Name            *string             `json:"name" validate:"omitempty,min=1,max=100"`
	Age             *int                `json:"age" validate:"omitempty,gte=2,lte=18"`
	Needs           map[string]string   `json:"needs" validate:"omitempty,dive,keys,oneof=social behavioral emotional,endkeys,oneof=low medium high"`
	Preferences     []string            `json:"preferences" validate:"omitempty,max=20,dive,required,max=100"`
	Strengths       []string            `json:"strengths" validate:"omitempty,max=20,dive,required,max=100"`
	Challenges      []string            `json:"challenges" validate:"omitempty,max=20,dive,required,max=100"`
	Interests       []string            `json:"interests" validate:"omitempty,max=20,dive,required,max=100"`
	SocialStatus    *string             `json:"socialStatus" validate:"omitempty,oneof=low medium high"`
	FinancialStatus *string             `json:"financialStatus" validate:"omitempty,oneof=low medium high"`
	AutismDetails   *AutismDetailsInput `json:"autismDetails"`
}

func (u *ChildUpdate) empty() bool {
	return u.Name == nil && u.Age == nil && u.Needs == nil && u.Preferences == nil &&
		u.Strengths == nil && u.Challenges == nil && u.Interests == nil &&
		u.SocialStatus == nil && u.FinancialStatus == nil && u.AutismDetails == nil
}

// ChildService manages child profiles. Emotion state is owned by
// EmotionService and is never written here.
type ChildService struct {
	children repository.ChildRepository
	locks    *security.KeyedMutex
}

// NewChildService creates a new child service
func NewChildService(children repository.ChildRepository) *ChildService {
	return &ChildService{
		children: children,
		locks:    security.NewKeyedMutex(),
	}
}

// Create validates and stores a new profile with a neutral current emotion
func (s *ChildService) Create(in ChildInput) (*models.ChildProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	child := &models.ChildProfile{
		Name:            in.Name,
		Age:             in.Age,
		Needs:           in.Needs,
		Preferences:     in.Preferences,
		Strengths:       in.Strengths,
		Challenges:      in.Challenges,
		Interests:       in.Interests,
		SocialStatus:    in.SocialStatus,
		FinancialStatus: in.FinancialStatus,
		AutismDetails:   autismDetails(in.AutismDetails),
		CurrentEmotion:  emotion.Neutral,
	}
	if err := s.children.Create(child); err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	logging.Info().Int64("child_id", child.ID).Msg("child profile created")
	return s.get(child.ID)
}

// Update applies the non-nil fields of upd to the child's profile
func (s *ChildService) Update(childID int64, upd ChildUpdate) (*models.ChildProfile, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		upd.Name = &trimmed
	}
	if err := validation.ValidateStruct(&upd); err != nil {
		return nil, err
	}
	if upd.empty() {
		return nil, validation.ValidationError{Field: "body", Message: "no fields to update"}
	}

	unlock := s.locks.Lock(childID)
	defer unlock()

	child, err := s.get(childID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		child.Name = *upd.Name
	}
	if upd.Age != nil {
		child.Age = *upd.Age
	}
	if upd.Needs != nil {
		child.Needs = upd.Needs
	}
	if upd.Preferences != nil {
		child.Preferences = upd.Preferences
	}
	if upd.Strengths != nil {
		child.Strengths = upd.Strengths
	}
	if upd.Challenges != nil {
		child.Challenges = upd.Challenges
	}
	if upd.Interests != nil {
		child.Interests = upd.Interests
	}
	if upd.SocialStatus != nil {
		child.SocialStatus = *upd.SocialStatus
	}
	if upd.FinancialStatus != nil {
		child.FinancialStatus = *upd.FinancialStatus
	}
	if upd.AutismDetails != nil {
		child.AutismDetails = autismDetails(*upd.AutismDetails)
	}

	if err := s.children.Update(child); err != nil {
		return nil, fmt.Errorf("failed to update child: %w", err)
	}

	logging.Info().Int64("child_id", childID).Msg("child profile updated")
	return s.get(childID)
}

func (s *ChildService) get(childID int64) (*models.ChildProfile, error) {
	child, err := s.children.GetByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}

func autismDetails(in AutismDetailsInput) models.AutismDetails {
	return models.AutismDetails{
		Severity:      in.Severity,
		Type:          strings.TrimSpace(in.Type),
		SpecificNeeds: in.SpecificNeeds,
	}
}
