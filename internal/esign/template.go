package esign

// template.go loads a pre-built envelope-shaped JSON fixture and applies the
// per-request overrides. This is the alternative document source: instead of
// reading a file and assembling the envelope, the fixture already embeds the
// document, recipients and tabs and only the subject/status and the signer's
// live identity are overridden.

import (
	"encoding/json"
	"fmt"
	"os"
)

// TemplateOverrides are the fields replaced on a loaded envelope fixture.
// Empty string fields leave the fixture value in place.
type TemplateOverrides struct {
	EmailSubject string
	EmailBlurb   string
	Status       EnvelopeStatus
	SignerName   string
	SignerEmail  string
}

// LoadEnvelopeTemplate reads an envelope fixture from a local JSON file.
//
// The fixture must already contain the document and a signer with a
// clientUserId - ValidateStructure is applied after loading.
func LoadEnvelopeTemplate(path string) (*Envelope, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapDocumentError(err, fmt.Sprintf("failed to read envelope template %s", path))
	}

	var envelope Envelope
	if err := json.Unmarshal(content, &envelope); err != nil {
		return nil, WrapDocumentError(err, fmt.Sprintf("failed to parse envelope template %s", path))
	}

	if err := envelope.ValidateStructure(); err != nil {
		return nil, err
	}

	return &envelope, nil
}

// ApplyOverrides replaces the subject, blurb, status and the signer's live
// name/email on the envelope. The embedded document and tab placement are
// left untouched.
func (e *Envelope) ApplyOverrides(o TemplateOverrides) {
	if o.EmailSubject != "" {
		e.EmailSubject = o.EmailSubject
	}
	if o.EmailBlurb != "" {
		e.EmailBlurb = o.EmailBlurb
	}
	if o.Status != "" {
		e.Status = o.Status
	}

	if e.Recipients != nil && len(e.Recipients.Signers) > 0 {
		if o.SignerName != "" {
			e.Recipients.Signers[0].Name = o.SignerName
		}
		if o.SignerEmail != "" {
			e.Recipients.Signers[0].Email = o.SignerEmail
		}
	}
}
