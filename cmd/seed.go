package cmd

import (
	"context"

	"peer-feedback/feature/feedback"
	"peer-feedback/feature/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd fills an empty database with demo data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo users and feedback",
	Long: `Creates a demo feedback request. Its owner and authors are created as
unclaimed users, ready to be claimed by identity provider sign-ups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := models.AutoMigrate(rt.db); err != nil {
			return err
		}

		svc := feedback.NewService(rt.db, rt.logger)
		req, err := svc.CreateRequest(ctx, feedback.CreateRequestInput{
			OwnerEmail: "alice@example.com",
			Title:      "Quarterly review",
			Prompts: []string{
				"What should I keep doing?",
				"What should I start doing?",
				"What should I stop doing?",
			},
			AuthorEmails: []string{"bob@example.com", "carol@example.com"},
		})
		if err != nil {
			return err
		}

		rt.logger.Info("Seeded demo data",
			zap.String("request_id", req.ID),
			zap.Int("items", len(req.Items)),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}
