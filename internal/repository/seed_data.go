package repository

import "calmpath/internal/models"

// DefaultActivities is the built-in activity catalog
func DefaultActivities() []models.Activity {
	return []models.Activity{
		// Social activities
		{
			ID:                1,
			Title:             "Social Story Reading",
			Category:          models.CategorySocial,
			Description:       "Read personalized social stories to help understand social situations and appropriate responses.",
			Duration:          "15-20 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Social story book", "Quiet space"},
			Benefits:          []string{"Understanding social cues", "Empathy development", "Communication skills"},
			AgeRange:          "4-12 years",
			Icon:              "📚",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelLow,
			EmotionMapping:    map[string]float64{"calm": 0.8, "neutral": 0.7, "anxious": 0.6, "sad": 0.5, "happy": 0.5, "excited": 0.3, "frustrated": 0.3},
			InterestTags:      []string{"reading", "quiet", "structured"},
		},
		{
			ID:                2,
			Title:             "Role-Playing Games",
			Category:          models.CategorySocial,
			Description:       "Practice social interactions through role-playing different scenarios like greetings, sharing, or asking for help.",
			Duration:          "20-30 minutes",
			Difficulty:        models.DifficultyMedium,
			Materials:         []string{"Props (optional)", "Scenario cards"},
			Benefits:          []string{"Social confidence", "Conversation skills", "Problem-solving"},
			AgeRange:          "5-14 years",
			Icon:              "🎭",
			CostLevel:         models.LevelFree,
			SocialRequirement: models.LevelHigh,
			EmotionMapping:    map[string]float64{"happy": 0.9, "excited": 0.8, "neutral": 0.6, "calm": 0.5, "sad": 0.3, "anxious": 0.2, "frustrated": 0.2},
			InterestTags:      []string{"pretend", "play-based", "social"},
		},
		{
			ID:                3,
			Title:             "Group Circle Time",
			Category:          models.CategorySocial,
			Description:       "Participate in structured group activities focusing on turn-taking, listening, and sharing.",
			Duration:          "15-25 minutes",
			Difficulty:        models.DifficultyMedium,
			Materials:         []string{"Circle time props", "Visual schedule"},
			Benefits:          []string{"Group interaction", "Turn-taking", "Active listening"},
			AgeRange:          "4-10 years",
			Icon:              "⭕",
			CostLevel:         models.LevelFree,
			SocialRequirement: models.LevelMedium,
			EmotionMapping:    map[string]float64{"happy": 0.8, "calm": 0.6, "neutral": 0.6, "excited": 0.5, "sad": 0.4, "anxious": 0.3, "frustrated": 0.3},
			InterestTags:      []string{"structured", "social", "music"},
		},
		{
			ID:                4,
			Title:             "Peer Buddy System",
			Category:          models.CategorySocial,
			Description:       "Pair with a peer buddy for structured play and social interaction activities.",
			Duration:          "30-45 minutes",
			Difficulty:        models.DifficultyMedium,
			Materials:         []string{"Activity materials", "Visual supports"},
			Benefits:          []string{"Peer relationships", "Social modeling", "Friendship skills"},
			AgeRange:          "6-16 years",
			Icon:              "👫",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelHigh,
			EmotionMapping:    map[string]float64{"happy": 0.8, "excited": 0.7, "neutral": 0.5, "calm": 0.5, "sad": 0.4, "anxious": 0.2, "frustrated": 0.2},
			InterestTags:      []string{"play-based", "social", "movement"},
		},

		// Behavioral activities
		{
			ID:                5,
			Title:             "Visual Schedule Routine",
			Category:          models.CategoryBehavioral,
			Description:       "Use visual schedules to establish predictable routines and reduce anxiety.",
			Duration:          "Ongoing",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Visual schedule board", "Picture cards"},
			Benefits:          []string{"Routine establishment", "Anxiety reduction", "Independence"},
			AgeRange:          "3-12 years",
			Icon:              "📅",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelNone,
			EmotionMapping:    map[string]float64{"anxious": 0.9, "frustrated": 0.7, "neutral": 0.6, "calm": 0.6, "sad": 0.5, "excited": 0.4, "happy": 0.4},
			InterestTags:      []string{"visual", "structured", "routine"},
		},
		{
			ID:                6,
			Title:             "Calm Down Corner",
			Category:          models.CategoryBehavioral,
			Description:       "Create and use a designated safe space with calming tools for emotional regulation.",
			Duration:          "5-15 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Soft seating", "Sensory tools", "Calming visuals"},
			Benefits:          []string{"Self-regulation", "Emotional awareness", "Coping strategies"},
			AgeRange:          "4-16 years",
			Icon:              "🧘",
			CostLevel:         models.LevelMedium,
			SocialRequirement: models.LevelNone,
			EmotionMapping:    map[string]float64{"frustrated": 1.0, "anxious": 0.9, "excited": 0.6, "sad": 0.6, "neutral": 0.4, "calm": 0.3, "happy": 0.2},
			InterestTags:      []string{"sensory", "quiet", "calming"},
		},
		{
			ID:                7,
			Title:             "Token Reward System",
			Category:          models.CategoryBehavioral,
			Description:       "Implement a visual token system to reinforce positive behaviors and track progress.",
			Duration:          "Ongoing",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Token board", "Tokens", "Reward chart"},
			Benefits:          []string{"Positive reinforcement", "Behavior tracking", "Motivation"},
			AgeRange:          "4-14 years",
			Icon:              "⭐",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelLow,
			EmotionMapping:    map[string]float64{"happy": 0.7, "neutral": 0.6, "excited": 0.6, "frustrated": 0.5, "calm": 0.5, "sad": 0.4, "anxious": 0.3},
			InterestTags:      []string{"visual", "structured", "hands-on"},
		},
		{
			ID:                8,
			Title:             "Sensory Break Activities",
			Category:          models.CategoryBehavioral,
			Description:       "Engage in structured sensory activities to help regulate sensory needs and behaviors.",
			Duration:          "10-20 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Sensory tools", "Movement equipment"},
			Benefits:          []string{"Sensory regulation", "Focus improvement", "Stress reduction"},
			AgeRange:          "3-16 years",
			Icon:              "🎨",
			CostLevel:         models.LevelHigh,
			SocialRequirement: models.LevelNone,
			EmotionMapping:    map[string]float64{"excited": 0.9, "frustrated": 0.8, "anxious": 0.7, "neutral": 0.5, "happy": 0.5, "sad": 0.4, "calm": 0.3},
			InterestTags:      []string{"sensory", "movement", "hands-on"},
		},
		{
			ID:                9,
			Title:             "First-Then Board",
			Category:          models.CategoryBehavioral,
			Description:       "Use visual first-then boards to help understand task sequences and expectations.",
			Duration:          "5-10 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"First-then board", "Picture cards"},
			Benefits:          []string{"Task completion", "Transition support", "Understanding expectations"},
			AgeRange:          "3-10 years",
			Icon:              "✅",
			CostLevel:         models.LevelFree,
			SocialRequirement: models.LevelLow,
			EmotionMapping:    map[string]float64{"anxious": 0.7, "frustrated": 0.7, "neutral": 0.6, "calm": 0.5, "sad": 0.4, "happy": 0.4, "excited": 0.3},
			InterestTags:      []string{"visual", "structured", "routine"},
		},

		// Emotional activities
		{
			ID:                10,
			Title:             "Emotion Identification Cards",
			Category:          models.CategoryEmotional,
			Description:       "Practice identifying and labeling different emotions using visual cards and facial expressions.",
			Duration:          "10-15 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Emotion cards", "Mirror"},
			Benefits:          []string{"Emotion recognition", "Self-awareness", "Vocabulary development"},
			AgeRange:          "4-12 years",
			Icon:              "😊",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelLow,
			EmotionMapping:    map[string]float64{"neutral": 0.8, "calm": 0.7, "sad": 0.6, "happy": 0.6, "anxious": 0.5, "excited": 0.4, "frustrated": 0.4},
			InterestTags:      []string{"visual", "structured", "quiet"},
		},
		{
			ID:                11,
			Title:             "Feelings Journal",
			Category:          models.CategoryEmotional,
			Description:       "Create a daily journal to express feelings through drawing, writing, or pictures.",
			Duration:          "10-20 minutes",
			Difficulty:        models.DifficultyMedium,
			Materials:         []string{"Journal", "Art supplies"},
			Benefits:          []string{"Emotional expression", "Self-reflection", "Communication"},
			AgeRange:          "6-16 years",
			Icon:              "📖",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelNone,
			EmotionMapping:    map[string]float64{"sad": 0.9, "frustrated": 0.7, "calm": 0.7, "anxious": 0.6, "neutral": 0.6, "happy": 0.5, "excited": 0.3},
			InterestTags:      []string{"artistic", "reading", "quiet"},
		},
		{
			ID:                12,
			Title:             "Mindfulness Breathing",
			Category:          models.CategoryEmotional,
			Description:       "Practice simple breathing exercises and mindfulness techniques for emotional regulation.",
			Duration:          "5-10 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Breathing visual guide", "Quiet space"},
			Benefits:          []string{"Stress reduction", "Emotional regulation", "Focus"},
			AgeRange:          "5-16 years",
			Icon:              "🌬️",
			CostLevel:         models.LevelFree,
			SocialRequirement: models.LevelNone,
			EmotionMapping:    map[string]float64{"anxious": 1.0, "frustrated": 0.9, "excited": 0.7, "sad": 0.5, "neutral": 0.5, "calm": 0.4, "happy": 0.3},
			InterestTags:      []string{"quiet", "calming", "visual"},
		},
		{
			ID:                13,
			Title:             "Empathy Building Stories",
			Category:          models.CategoryEmotional,
			Description:       "Read and discuss stories that help understand others' feelings and perspectives.",
			Duration:          "15-25 minutes",
			Difficulty:        models.DifficultyMedium,
			Materials:         []string{"Story books", "Discussion prompts"},
			Benefits:          []string{"Empathy development", "Perspective-taking", "Social understanding"},
			AgeRange:          "5-14 years",
			Icon:              "💙",
			CostLevel:         models.LevelLow,
			SocialRequirement: models.LevelMedium,
			EmotionMapping:    map[string]float64{"calm": 0.8, "happy": 0.6, "neutral": 0.6, "sad": 0.5, "anxious": 0.4, "excited": 0.3, "frustrated": 0.3},
			InterestTags:      []string{"reading", "quiet", "social"},
		},
		{
			ID:                14,
			Title:             "Emotion Thermometer",
			Category:          models.CategoryEmotional,
			Description:       "Use a visual emotion thermometer to identify and communicate emotional intensity levels.",
			Duration:          "5-10 minutes",
			Difficulty:        models.DifficultyEasy,
			Materials:         []string{"Emotion thermometer chart", "Markers"},
			Benefits:          []string{"Emotional awareness", "Communication", "Self-regulation"},
			AgeRange:          "5-14 years",
			Icon:              "🌡️",
			CostLevel:         models.LevelFree,
			SocialRequirement: models.LevelLow,
			EmotionMapping:    map[string]float64{"frustrated": 0.9, "anxious": 0.8, "excited": 0.6, "sad": 0.6, "neutral": 0.5, "calm": 0.4, "happy": 0.4},
			InterestTags:      []string{"visual", "structured"},
		},
		{
			ID:                15,
			Title:             "Art Therapy Expression",
			Category:          models.CategoryEmotional,
			Description:       "Express emotions through various art activities like drawing, painting, or sculpting.",
			Duration:          "20-40 minutes",
			Difficulty:        models.DifficultyMedium,
			Materials:         []string{"Art supplies", "Paper/canvas"},
			Benefits:          []string{"Emotional expression", "Creativity", "Stress relief"},
			AgeRange:          "4-16 years",
			Icon:              "🎨",
			CostLevel:         models.LevelMedium,
			SocialRequirement: models.LevelNone,
			EmotionMapping:    map[string]float64{"sad": 0.9, "happy": 0.8, "frustrated": 0.7, "calm": 0.7, "excited": 0.6, "anxious": 0.6, "neutral": 0.6},
			InterestTags:      []string{"artistic", "hands-on", "creative", "sensory"},
		},
	}
}

// DefaultChildren returns the seed child profiles
func DefaultChildren() []*models.ChildProfile {
	return []*models.ChildProfile{
		{
			ID:   1,
			Name: "Alex",
			Age:  7,
			Needs: map[string]string{
				models.CategorySocial:     models.LevelHigh,
				models.CategoryBehavioral: models.LevelMedium,
				models.CategoryEmotional:  models.LevelHigh,
			},
			Preferences:     []string{"visual", "structured", "quiet"},
			Strengths:       []string{"artistic", "detail-oriented"},
			Challenges:      []string{"social interactions", "emotional regulation"},
			SocialStatus:    models.LevelLow,
			FinancialStatus: models.LevelMedium,
			AutismDetails: models.AutismDetails{
				Severity:      3,
				Type:          "ASD-2",
				SpecificNeeds: []string{"communication", "routine"},
			},
			Interests:      []string{"visual", "artistic", "reading", "quiet", "structured"},
			CurrentEmotion: "neutral",
		},
		{
			ID:   2,
			Name: "Sam",
			Age:  9,
			Needs: map[string]string{
				models.CategorySocial:     models.LevelMedium,
				models.CategoryBehavioral: models.LevelHigh,
				models.CategoryEmotional:  models.LevelMedium,
			},
			Preferences:     []string{"movement", "hands-on", "music"},
			Strengths:       []string{"physical activity", "rhythm"},
			Challenges:      []string{"routine transitions", "impulse control"},
			SocialStatus:    models.LevelMedium,
			FinancialStatus: models.LevelLow,
			AutismDetails: models.AutismDetails{
				Severity:      2,
				Type:          "ASD-1",
				SpecificNeeds: []string{"sensory regulation"},
			},
			Interests:      []string{"movement", "music", "hands-on", "play-based"},
			CurrentEmotion: "neutral",
		},
		{
			ID:   3,
			Name: "Jordan",
			Age:  5,
			Needs: map[string]string{
				models.CategorySocial:     models.LevelHigh,
				models.CategoryBehavioral: models.LevelHigh,
				models.CategoryEmotional:  models.LevelHigh,
			},
			Preferences:     []string{"sensory", "play-based", "visual"},
			Strengths:       []string{"curiosity", "imagination"},
			Challenges:      []string{"communication", "emotional expression"},
			SocialStatus:    models.LevelLow,
			FinancialStatus: models.LevelHigh,
			AutismDetails: models.AutismDetails{
				Severity:      4,
				Type:          "ASD-3",
				SpecificNeeds: []string{"sensory", "communication"},
			},
			Interests:      []string{"sensory", "play-based", "visual", "pretend"},
			CurrentEmotion: "neutral",
		},
	}
}
