package cli

import (
	"log"

	"learnhub-quiz/internal/config"
	"learnhub-quiz/internal/domain"
	"learnhub-quiz/internal/infra/memory"
)

// loadCatalog reads the configured catalog file, falling back to the built-in banks.
func loadCatalog(cfg config.Config) (map[string][]domain.QuizQuestion, error) {
	if cfg.Quiz.CatalogPath == "" {
		return defaultCatalog(), nil
	}
	banks, err := memory.LoadCatalogFile(cfg.Quiz.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d subjects from %s", len(banks), cfg.Quiz.CatalogPath)
	return banks, nil
}

// defaultCatalog is a small demo bank so the service runs without any storage configured.
func defaultCatalog() map[string][]domain.QuizQuestion {
	return map[string][]domain.QuizQuestion{
		"Mathematics": {
			{ID: "m1", Question: "What is 15% of 200?", Options: []string{"20", "30", "35", "15"}, CorrectAnswerIndex: 1,
				Explanation: "0.15 x 200 = 30.", Topic: "percentages", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 30},
			{ID: "m2", Question: "Which is the largest: 0.5, 0.45, 0.505 or 0.55?", Options: []string{"0.5", "0.45", "0.505", "0.55"}, CorrectAnswerIndex: 3,
				Explanation: "Compare digit by digit after the point.", Topic: "decimals", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 30},
			{ID: "m3", Question: "Solve for x: 3x + 5 = 20", Options: []string{"3", "5", "15", "25/3"}, CorrectAnswerIndex: 1,
				Explanation: "3x = 15, so x = 5.", Topic: "algebra", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 45},
			{ID: "m4", Question: "What is the derivative of x^3?", Options: []string{"3x^2", "x^2", "3x", "x^4/4"}, CorrectAnswerIndex: 0,
				Explanation: "Power rule: n x^(n-1).", Topic: "calculus", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 45},
			{ID: "m5", Question: "What is the area of a circle with radius 3?", Options: []string{"6pi", "9pi", "3pi", "12pi"}, CorrectAnswerIndex: 1,
				Explanation: "A = pi r^2.", Topic: "geometry", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 45},
			{ID: "m6", Question: "What is the probability of rolling two sixes with two dice?", Options: []string{"1/6", "1/12", "1/36", "1/18"}, CorrectAnswerIndex: 2,
				Explanation: "Independent events multiply: 1/6 x 1/6.", Topic: "probability", Difficulty: domain.DifficultyHard, TimeLimitSeconds: 60},
		},
		"Physics": {
			{ID: "p1", Question: "What is the SI unit of force?", Options: []string{"Joule", "Newton", "Watt", "Pascal"}, CorrectAnswerIndex: 1,
				Explanation: "1 N = 1 kg m/s^2.", Topic: "units", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 30},
			{ID: "p2", Question: "An object at rest stays at rest unless acted on by a force. Which law is this?", Options: []string{"First law", "Second law", "Third law", "Law of gravitation"}, CorrectAnswerIndex: 0,
				Explanation: "Newton's first law describes inertia.", Topic: "mechanics", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 30},
			{ID: "p3", Question: "What is the kinetic energy of a 2 kg mass moving at 3 m/s?", Options: []string{"6 J", "9 J", "18 J", "3 J"}, CorrectAnswerIndex: 1,
				Explanation: "KE = 1/2 m v^2 = 9 J.", Topic: "energy", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 45},
			{ID: "p4", Question: "Which wave property determines pitch?", Options: []string{"Amplitude", "Speed", "Frequency", "Phase"}, CorrectAnswerIndex: 2,
				Explanation: "Higher frequency is heard as higher pitch.", Topic: "waves", Difficulty: domain.DifficultyMedium, TimeLimitSeconds: 45},
		},
		domain.DefaultSubject: {
			{ID: "g1", Question: "How many continents are there?", Options: []string{"5", "6", "7", "8"}, CorrectAnswerIndex: 2,
				Explanation: "Africa, Antarctica, Asia, Australia, Europe and the two Americas.", Topic: "geography", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 30},
			{ID: "g2", Question: "Which gas do plants absorb from the air?", Options: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"}, CorrectAnswerIndex: 2,
				Explanation: "Photosynthesis consumes CO2.", Topic: "biology", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 30},
			{ID: "g3", Question: "What is 7 x 8?", Options: []string{"54", "56", "58", "64"}, CorrectAnswerIndex: 1,
				Explanation: "7 x 8 = 56.", Topic: "arithmetic", Difficulty: domain.DifficultyEasy, TimeLimitSeconds: 20},
		},
	}
}
