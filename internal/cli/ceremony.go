package cli

import (
	"fmt"

	"github.com/esign-demos/embedded-signing/app/internal/config"
	"github.com/esign-demos/embedded-signing/app/internal/esign"
	"github.com/spf13/cobra"
)

var ceremonyCmd = &cobra.Command{
	Use:   "ceremony <document-file>",
	Short: "Create an envelope and print the embedded signing URL",
	Long: `Create and send a signing envelope from a local document file, request an
embedded recipient view for the configured signer, and print the signing
ceremony URL.

The URL is time-limited and single use - open it in a browser promptly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := buildEnvelope(args[0])
		if err != nil {
			return err
		}

		client := newClient()
		ctx := cmd.Context()

		envelopeID, err := client.CreateEnvelope(ctx, cfg.AccountID, envelope)
		if err != nil {
			return err
		}

		baseURL := config.ResolveBaseURL(cfg.BaseURL, cfg.ProjectDomain, cfg.Host, cfg.Port)
		view, err := esign.RecipientViewFromSigner(envelope.Signer(), baseURL+"/dsreturn")
		if err != nil {
			return err
		}

		signingURL, err := client.CreateRecipientView(ctx, cfg.AccountID, envelopeID, view)
		if err != nil {
			return err
		}

		fmt.Println(signingURL)
		return nil
	},
}
