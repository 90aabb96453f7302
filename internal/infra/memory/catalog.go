package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"learnhub-quiz/internal/domain"
)

// Catalog is the on-disk layout of question banks, keyed by subject.
type Catalog struct {
	Subjects map[string][]domain.QuizQuestion `yaml:"subjects"`
}

// LoadCatalogFile reads and validates a YAML catalog from path.
func LoadCatalogFile(path string) (map[string][]domain.QuizQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog. Missing per-question subjects are filled from the key.
func ParseCatalog(data []byte) (map[string][]domain.QuizQuestion, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	banks := make(map[string][]domain.QuizQuestion, len(catalog.Subjects))
	for subject, questions := range catalog.Subjects {
		seen := make(map[string]struct{}, len(questions))
		for i := range questions {
			q := &questions[i]
			if q.Subject == "" {
				q.Subject = subject
			}
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("subject %q: %w", subject, err)
			}
			if _, dup := seen[q.ID]; dup {
				return nil, fmt.Errorf("subject %q: %w: duplicate id %q", subject, domain.ErrInvalidQuestion, q.ID)
			}
			seen[q.ID] = struct{}{}
		}
		banks[subject] = questions
	}
	return banks, nil
}
