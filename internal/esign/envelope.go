package esign

// envelope.go includes the envelope wire types and the builders for creating
// signing envelopes.

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvelopeStatus controls whether the envelope is held as a draft or sent
// immediately.
type EnvelopeStatus string

const (
	// StatusCreated holds the envelope as a draft.
	StatusCreated EnvelopeStatus = "created"

	// StatusSent sends the envelope right away. The envelope must be sent for
	// the embedded signing ceremony to be immediately available.
	StatusSent EnvelopeStatus = "sent"
)

// Default tab placement for the file-based document source. The positions are
// literal constants - there is no tab-position computation in this app.
const (
	DefaultDocumentID  = "1"
	DefaultRecipientID = "1"
	DefaultTabLabel    = "SignHereTab"
	DefaultTabPage     = "1"
	DefaultTabX        = "195"
	DefaultTabY        = "147"
)

// Envelope is the signing-service container for the document and its
// recipients. It is created fresh per request and discarded once the API has
// returned an envelope id.
type Envelope struct {
	// EmailSubject is the subject line of the signing request email
	EmailSubject string `json:"emailSubject,omitempty"`

	// EmailBlurb is the message body of the signing request email
	EmailBlurb string `json:"emailBlurb,omitempty"`

	// Documents is the ordered list of documents to sign
	Documents []Document `json:"documents,omitempty"`

	// Recipients lists the envelope recipients by type
	Recipients *Recipients `json:"recipients,omitempty"`

	// Status: "created" for drafts, "sent" to send immediately
	Status EnvelopeStatus `json:"status,omitempty"`
}

// Document is a single document attached to an envelope. Immutable once built.
type Document struct {
	// DocumentBase64 is the base64-encoded document content
	DocumentBase64 string `json:"documentBase64"`

	// Name is the document title shown to the signer
	Name string `json:"name"`

	// FileExtension of the source document (pdf, docx, ...)
	FileExtension string `json:"fileExtension"`

	// DocumentID identifies the document within the envelope
	DocumentID string `json:"documentId"`
}

// Recipients groups the envelope recipients. Only signers are used in this
// flow.
type Recipients struct {
	Signers []Signer `json:"signers"`
}

// Signer is a recipient who applies a signature.
//
// ClientUserID marks the signer for an embedded signing ceremony - signers
// without a clientUserId receive an emailed signing link instead.
type Signer struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	RoutingOrder string `json:"routingOrder"`
	RecipientID  string `json:"recipientId"`
	ClientUserID string `json:"clientUserId,omitempty"`
	Tabs         *Tabs  `json:"tabs,omitempty"`
}

// Tabs holds the form fields placed for a signer. Tabs are relative to
// recipients, not documents.
type Tabs struct {
	SignHereTabs []SignHere `json:"signHereTabs,omitempty"`
}

// SignHere is a placed signature field: purely positional metadata for where
// the signature control renders on a document page.
type SignHere struct {
	DocumentID  string `json:"documentId"`
	PageNumber  string `json:"pageNumber"`
	RecipientID string `json:"recipientId"`
	TabLabel    string `json:"tabLabel"`
	XPosition   string `json:"xPosition"`
	YPosition   string `json:"yPosition"`
}

// NewDocument creates a Document from raw content, base64-encoding it.
func NewDocument(documentID, name, fileExtension string, content []byte) Document {
	return Document{
		DocumentBase64: base64.StdEncoding.EncodeToString(content),
		Name:           name,
		FileExtension:  fileExtension,
		DocumentID:     documentID,
	}
}

// NewDocumentFromFile reads a local file and creates a Document from its
// contents. The file extension is taken from the path.
func NewDocumentFromFile(documentID, name, path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, WrapDocumentError(err, fmt.Sprintf("failed to read document file %s", path))
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return Document{}, NewDocumentError(fmt.Sprintf("document file %s has no extension", path))
	}

	return NewDocument(documentID, name, ext, content), nil
}

// NewSigner creates a Signer for an embedded signing ceremony with routing
// order 1.
func NewSigner(name, email, recipientID, clientUserID string) Signer {
	return Signer{
		Name:         name,
		Email:        email,
		RoutingOrder: "1",
		RecipientID:  recipientID,
		ClientUserID: clientUserID,
	}
}

// WithSignHereTab returns a copy of the signer with the tab appended.
func (s Signer) WithSignHereTab(tab SignHere) Signer {
	tabs := &Tabs{}
	if s.Tabs != nil {
		tabs.SignHereTabs = append(tabs.SignHereTabs, s.Tabs.SignHereTabs...)
	}
	tabs.SignHereTabs = append(tabs.SignHereTabs, tab)
	s.Tabs = tabs
	return s
}

// NewSignHereTab creates a signature tab at a fixed position on a document
// page.
func NewSignHereTab(documentID, recipientID, pageNumber, xPosition, yPosition, label string) SignHere {
	return SignHere{
		DocumentID:  documentID,
		PageNumber:  pageNumber,
		RecipientID: recipientID,
		TabLabel:    label,
		XPosition:   xPosition,
		YPosition:   yPosition,
	}
}

// ValidateStructure checks the envelope invariants for this flow: exactly one
// document, exactly one signer, and a clientUserId on the signer (embedded
// signing).
func (e *Envelope) ValidateStructure() error {
	if len(e.Documents) != 1 {
		return NewValidationError(fmt.Sprintf("envelope must contain exactly one document, got %d", len(e.Documents)))
	}
	if e.Documents[0].DocumentBase64 == "" {
		return NewValidationError("document content is required")
	}
	if e.Recipients == nil || len(e.Recipients.Signers) != 1 {
		return NewValidationError("envelope must contain exactly one signer")
	}
	if e.Recipients.Signers[0].ClientUserID == "" {
		return NewValidationError("signer clientUserId is required for embedded signing")
	}
	if e.Status != StatusCreated && e.Status != StatusSent {
		return NewValidationError(fmt.Sprintf("invalid envelope status %q", e.Status))
	}
	return nil
}

// Signer returns the envelope's signer.
// Only valid after ValidateStructure has passed.
func (e *Envelope) Signer() Signer {
	return e.Recipients.Signers[0]
}

// EnvelopeBuilder helps build an Envelope for an embedded signing ceremony.
type EnvelopeBuilder struct {
	emailSubject string
	emailBlurb   string
	documents    []Document
	signers      []Signer
	status       EnvelopeStatus
}

// NewEnvelopeBuilder creates a new builder for Envelope. The status defaults
// to "sent" so the ceremony is immediately available.
func NewEnvelopeBuilder() *EnvelopeBuilder {
	return &EnvelopeBuilder{
		status: StatusSent,
	}
}

// WithEmailSubject sets the signing request email subject.
func (e *EnvelopeBuilder) WithEmailSubject(subject string) *EnvelopeBuilder {
	e.emailSubject = subject
	return e
}

// WithEmailBlurb sets the signing request email body.
func (e *EnvelopeBuilder) WithEmailBlurb(blurb string) *EnvelopeBuilder {
	e.emailBlurb = blurb
	return e
}

// WithStatus sets the envelope status.
func (e *EnvelopeBuilder) WithStatus(status EnvelopeStatus) *EnvelopeBuilder {
	e.status = status
	return e
}

// AddDocument appends a document to the envelope.
func (e *EnvelopeBuilder) AddDocument(doc Document) *EnvelopeBuilder {
	e.documents = append(e.documents, doc)
	return e
}

// AddSigner appends a signer to the envelope.
func (e *EnvelopeBuilder) AddSigner(signer Signer) *EnvelopeBuilder {
	e.signers = append(e.signers, signer)
	return e
}

// Build creates the Envelope.
func (e *EnvelopeBuilder) Build() (*Envelope, error) {
	envelope := &Envelope{
		EmailSubject: e.emailSubject,
		EmailBlurb:   e.emailBlurb,
		Documents:    e.documents,
		Status:       e.status,
	}
	if len(e.signers) > 0 {
		envelope.Recipients = &Recipients{Signers: e.signers}
	}

	if err := envelope.ValidateStructure(); err != nil {
		return nil, WrapValidationError(err, "invalid envelope")
	}

	return envelope, nil
}
