package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <document-file>",
	Short: "Create and send a signing envelope",
	Long:  `Create a signing envelope for the configured signer from a local document file, send it, and print the envelope id`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := buildEnvelope(args[0])
		if err != nil {
			return err
		}

		envelopeID, err := newClient().CreateEnvelope(cmd.Context(), cfg.AccountID, envelope)
		if err != nil {
			return err
		}

		appLogger.Info("envelope sent",
			slog.String("envelope_id", envelopeID),
			slog.String("signer_email", cfg.SignerEmail),
		)

		fmt.Println(envelopeID)
		return nil
	},
}
