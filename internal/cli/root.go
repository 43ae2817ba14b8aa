package cli

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/esign-demos/embedded-signing/app/internal/config"
	"github.com/esign-demos/embedded-signing/app/internal/esign"
	"github.com/esign-demos/embedded-signing/app/internal/logger"
	"github.com/esign-demos/embedded-signing/app/internal/version"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.ServerEnvironment
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "signing-cli",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Signing API client CLI",
	Long:              `signing-cli creates signing envelopes and embedded ceremony URLs from the terminal, using the same configuration as the signing-server`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewServerConfig()
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(ceremonyCmd)
}

// newClient creates the signing API client from the loaded configuration.
func newClient() *esign.Client {
	return esign.NewClient(cfg.APIBasePath, cfg.AccessToken, cfg.APICallTimeout, appLogger)
}

// buildEnvelope assembles a one-document, one-signer envelope for the
// configured signer identity from a local document file.
func buildEnvelope(documentPath string) (*esign.Envelope, error) {
	doc, err := esign.NewDocumentFromFile(esign.DefaultDocumentID, "Sample document", documentPath)
	if err != nil {
		return nil, err
	}

	clientUserID := cfg.ClientUserID
	if clientUserID == "" {
		clientUserID = uuid.NewString()
	}

	signer := esign.NewSigner(cfg.SignerName, cfg.SignerEmail, esign.DefaultRecipientID, clientUserID).
		WithSignHereTab(esign.NewSignHereTab(
			esign.DefaultDocumentID,
			esign.DefaultRecipientID,
			esign.DefaultTabPage,
			esign.DefaultTabX,
			esign.DefaultTabY,
			esign.DefaultTabLabel,
		))

	return esign.NewEnvelopeBuilder().
		WithEmailSubject("Please sign this document sent from the signing demo").
		WithEmailBlurb("Please sign this document sent from the signing demo.").
		AddDocument(doc).
		AddSigner(signer).
		Build()
}
