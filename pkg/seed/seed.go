package seed

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totalawareness/backend/internal/policy"
	"github.com/totalawareness/backend/pkg/db/models"
	"github.com/totalawareness/backend/pkg/logger"
)

// Run inserts the fixed role catalog and the starter FAQ entries. Existing
// rows are left untouched, so the command is safe to re-run.
func Run(ctx context.Context, conn *gorm.DB, logg *logger.Logger) error {
	var errs error
	errs = multierr.Append(errs, seedRoles(ctx, conn))
	errs = multierr.Append(errs, seedFAQs(ctx, conn))
	if errs != nil {
		return errs
	}
	if logg != nil {
		logg.Info(ctx, "seed data applied")
	}
	return nil
}

func seedRoles(ctx context.Context, conn *gorm.DB) error {
	catalog := []models.Role{
		{ID: policy.RoleOwner, Name: "OWNER", Description: "Full control of the company", Level: 1},
		{ID: policy.RoleAdmin, Name: "ADMIN", Description: "Manages members and company details", Level: 2},
		{ID: policy.RoleMember, Name: "MEMBER", Description: "Regular participant", Level: 3},
		{ID: policy.RoleViewer, Name: "VIEWER", Description: "Read-only access", Level: 4},
	}
	return conn.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&catalog).Error
}

func seedFAQs(ctx context.Context, conn *gorm.DB) error {
	answerFor := func(s string) *string { return &s }

	starter := []models.FAQ{
		{
			ID:       uuid.New(),
			Question: "What is Total Awareness?",
			Answer:   answerFor("A platform where companies manage their members and visibility."),
		},
		{
			ID:       uuid.New(),
			Question: "How do I join a company?",
			Answer:   answerFor("Public companies accept you immediately; private ones review your request."),
		},
		{
			ID:       uuid.New(),
			Question: "Who can see a private company?",
			Answer:   answerFor("Only its members, including pending join requests."),
		},
	}

	var errs error
	for i := range starter {
		var count int64
		if err := conn.WithContext(ctx).
			Model(&models.FAQ{}).
			Where("question = ?", starter[i].Question).
			Count(&count).Error; err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := conn.WithContext(ctx).Create(&starter[i]).Error; err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
