package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"learnhub-quiz/internal/domain"
)

type questionBankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	Subject   string          `bun:"subject,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

// SeedBanks upserts every subject bank and returns the seeded subjects in sorted order.
func SeedBanks(ctx context.Context, db *bun.DB, banks map[string][]domain.QuizQuestion) ([]string, error) {
	subjects := make([]string, 0, len(banks))
	rows := make([]questionBankRow, 0, len(banks))
	now := time.Now().UTC()
	for subject, questions := range banks {
		for _, q := range questions {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("subject %q: %w", subject, err)
			}
		}
		data, err := json.Marshal(questions)
		if err != nil {
			return nil, fmt.Errorf("marshal bank %q: %w", subject, err)
		}
		subjects = append(subjects, subject)
		rows = append(rows, questionBankRow{Subject: subject, Data: data, UpdatedAt: now})
	}
	if len(rows) == 0 {
		return subjects, nil
	}
	sort.Strings(subjects)

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (subject) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed banks: %w", err)
	}
	return subjects, nil
}
