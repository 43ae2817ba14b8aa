package server

// ceremony.go implements the embedded signing ceremony routes:
//
//	GET  /         - landing page with a "Sign the document!" form
//	POST /         - assembles the envelope, calls the signing API and
//	                 redirects the browser into the signing ceremony
//	GET  /dsreturn - displays the ceremony outcome reported by the signing
//	                 service after the redirect back

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/esign-demos/embedded-signing/app/internal/config"
	"github.com/esign-demos/embedded-signing/app/internal/esign"
	"github.com/esign-demos/embedded-signing/app/internal/logger"
)

const (
	emailSubject = "Please sign this document sent from the signing demo"
	emailBlurb   = "Please sign this document sent from the signing demo."
	documentName = "Sample document"
)

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en"><body>
<form action="/" method="post">
<input type="submit" value="Sign the document!"/>
</form>
</body></html>
`))

var returnPage = template.Must(template.New("dsreturn").Parse(`<!DOCTYPE html>
<html lang="en"><body>
<p>The signing ceremony was completed with status {{.Event}}</p>
{{if .Treasures}}<p>Treasures: {{.Treasures}}</p>{{end}}
<p>This page can also implement post-signing processing.</p>
</body></html>
`))

var apiErrorPage = template.Must(template.New("apierror").Parse(`<!DOCTYPE html>
<html lang="en"><body>
<h3>API problem</h3>
<p>Status code {{.StatusCode}}</p>
<p>Error message:</p>
<p><pre><code>{{.Body}}</code></pre></p>
</body></html>
`))

// CeremonyHandler orchestrates the signing ceremony: resolve the per-request
// settings, build the envelope, create it remotely, obtain the recipient view
// URL and redirect.
//
// All fields are set once at startup and read-only afterwards - per-request
// state lives on the stack of each handler invocation.
type CeremonyHandler struct {
	cfg    *config.ServerEnvironment
	client *esign.Client

	// baseURL is the externally reachable URL of this app, used to build the
	// /dsreturn returnUrl
	baseURL string

	// clientUserID marks the signer for embedded signing; identical in the
	// envelope and the recipient view request
	clientUserID string
}

// NewCeremonyHandler creates the ceremony handler.
func NewCeremonyHandler(cfg *config.ServerEnvironment, client *esign.Client, baseURL, clientUserID string) *CeremonyHandler {
	return &CeremonyHandler{
		cfg:          cfg,
		client:       client,
		baseURL:      baseURL,
		clientUserID: clientUserID,
	}
}

// ceremonySettings are resolved once per request: environment variable first,
// then request query parameter. Missing values are not rejected locally - the
// signing API rejects them with a structured error the page can display.
type ceremonySettings struct {
	accessToken string
	accountID   string
	signerName  string
	signerEmail string
}

func (h *CeremonyHandler) resolveSettings(r *http.Request) ceremonySettings {
	qp := r.URL.Query()

	pick := func(envValue, queryKey string) string {
		if envValue != "" {
			return envValue
		}
		return qp.Get(queryKey)
	}

	return ceremonySettings{
		accessToken: pick(h.cfg.AccessToken, "ACCESS_TOKEN"),
		accountID:   pick(h.cfg.AccountID, "ACCOUNT_ID"),
		signerName:  pick(h.cfg.SignerName, "USER_FULLNAME"),
		signerEmail: pick(h.cfg.SignerEmail, "USER_EMAIL"),
	}
}

// buildEnvelope assembles the envelope from the configured document source.
//
// File source: read the document, base64-encode it, attach one signer and one
// statically positioned signature tab.
// Fixture source (ENVELOPE_TEMPLATE_PATH set): load the pre-built envelope
// JSON and override the subject, status and the signer's live identity.
func (h *CeremonyHandler) buildEnvelope(settings ceremonySettings) (*esign.Envelope, error) {
	if h.cfg.EnvelopeTemplatePath != "" {
		envelope, err := esign.LoadEnvelopeTemplate(h.cfg.EnvelopeTemplatePath)
		if err != nil {
			return nil, err
		}
		envelope.ApplyOverrides(esign.TemplateOverrides{
			EmailSubject: emailSubject,
			EmailBlurb:   emailBlurb,
			Status:       esign.StatusSent,
			SignerName:   settings.signerName,
			SignerEmail:  settings.signerEmail,
		})
		return envelope, nil
	}

	doc, err := esign.NewDocumentFromFile(esign.DefaultDocumentID, documentName, h.cfg.DocumentPath)
	if err != nil {
		return nil, err
	}

	signer := esign.NewSigner(settings.signerName, settings.signerEmail, esign.DefaultRecipientID, h.clientUserID).
		WithSignHereTab(esign.NewSignHereTab(
			esign.DefaultDocumentID,
			esign.DefaultRecipientID,
			esign.DefaultTabPage,
			esign.DefaultTabX,
			esign.DefaultTabY,
			esign.DefaultTabLabel,
		))

	return esign.NewEnvelopeBuilder().
		WithEmailSubject(emailSubject).
		WithEmailBlurb(emailBlurb).
		AddDocument(doc).
		AddSigner(signer).
		Build()
}

// HandleLanding godoc
//
//	@Summary		Landing page
//	@Description	Renders a minimal HTML form whose submission starts the signing ceremony.
//	@Tags			Ceremony
//	@Produce		html
//	@Success		200	{string}	string	"Landing page"
//	@Router			/ [get]
func (h *CeremonyHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := landingPage.Execute(w, nil); err != nil {
		logger.ContextRequestLogger(r.Context()).Error("Failed to render landing page",
			slog.String("error", err.Error()),
		)
	}
}

// HandleStartCeremony godoc
//
//	@Summary		Start the signing ceremony
//	@Description	Assembles a signing envelope from the configured document source, submits it to
//	@Description	the signing API, requests an embedded recipient view and redirects the browser
//	@Description	to the returned signing URL.
//	@Description
//	@Description	Settings resolution: environment variables win, query parameters fill the gaps.
//	@Description	Missing credentials are not rejected locally - the signing API rejects them and
//	@Description	the structured error is rendered as an HTML page.
//	@Tags			Ceremony
//	@Param			ACCESS_TOKEN	query	string	false	"Bearer token for the signing API"
//	@Param			ACCOUNT_ID		query	string	false	"Signing API account id"
//	@Param			USER_FULLNAME	query	string	false	"Signer name"
//	@Param			USER_EMAIL		query	string	false	"Signer email"
//	@Produce		html
//	@Success		302	{string}	string	"Redirect to the signing ceremony URL"
//	@Failure		502	{string}	string	"HTML page with the signing API's status code and error body"
//	@Failure		500	{string}	string	"Unexpected failure"
//	@Router			/ [post]
func (h *CeremonyHandler) HandleStartCeremony(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqLogger := logger.ContextRequestLogger(ctx)

	settings := h.resolveSettings(r)

	// Step 1. Build the envelope definition: document, signer, tab placement.
	envelope, err := h.buildEnvelope(settings)
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}

	client := h.client.WithAccessToken(settings.accessToken)

	// Step 2. Create/send the envelope.
	envelopeID, err := client.CreateEnvelope(ctx, settings.accountID, envelope)
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(ctx, slog.String("envelope_id", envelopeID))

	// Step 3. Request the recipient view (the signing ceremony URL).
	// The view request is derived from the envelope's signer so the
	// recipientId/clientUserId pairing cannot diverge.
	view, err := esign.RecipientViewFromSigner(envelope.Signer(), h.baseURL+"/dsreturn")
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}

	signingURL, err := client.CreateRecipientView(ctx, settings.accountID, envelopeID, view)
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}

	// Step 4. Redirect the browser to the signing ceremony.
	reqLogger.Info("Redirecting to signing ceremony",
		slog.String("envelope_id", envelopeID),
	)
	http.Redirect(w, r, signingURL, http.StatusFound)
}

// HandleReturn godoc
//
//	@Summary		Ceremony return page
//	@Description	Receives the post-signing redirect and displays the ceremony outcome.
//	@Description	The event parameter is rendered verbatim - no verification is performed
//	@Description	that the callback is genuine (display only).
//	@Tags			Ceremony
//	@Param			event		query	string	false	"Ceremony outcome (e.g. signing_complete, decline, cancel)"
//	@Param			treasures	query	string	false	"Application-defined passthrough value"
//	@Produce		html
//	@Success		200	{string}	string	"Status page"
//	@Router			/dsreturn [get]
func (h *CeremonyHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()

	data := struct {
		Event     string
		Treasures string
	}{
		Event:     qp.Get("event"),
		Treasures: qp.Get("treasures"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := returnPage.Execute(w, data); err != nil {
		logger.ContextRequestLogger(r.Context()).Error("Failed to render return page",
			slog.String("error", err.Error()),
		)
	}
}

// renderFailure maps a failed ceremony to the user-visible response.
//
// Remote API errors with a structured body are rendered as an HTML page
// showing the remote status code and the serialized body. Everything else is
// an opaque server failure: logged in full, generic 500 to the browser.
func (h *CeremonyHandler) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	var apiErr *esign.APIError
	if errors.As(err, &apiErr) {
		reqLogger.Warn("Signing API rejected the request",
			slog.Int("api_status", apiErr.StatusCode),
			slog.String("api_error_code", apiErr.ErrorCode),
			slog.String("api_message", apiErr.Message),
		)

		body := apiErr.Body
		var pretty json.RawMessage
		if json.Unmarshal(body, &pretty) == nil {
			if indented, err := json.MarshalIndent(pretty, "", "    "); err == nil {
				body = indented
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		if err := apiErrorPage.Execute(w, struct {
			StatusCode int
			Body       string
		}{apiErr.StatusCode, string(body)}); err != nil {
			reqLogger.Error("Failed to render API error page",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	reqLogger.Error("Ceremony failed",
		slog.String("error", err.Error()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
