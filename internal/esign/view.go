package esign

// view.go defines the recipient view request used to obtain the embedded
// signing ceremony URL.

// AuthenticationMethodNone indicates the host application has not separately
// authenticated the signer.
const AuthenticationMethodNone = "None"

// RecipientViewRequest is built only to obtain the redirect URL for the
// embedded signing ceremony. Ephemeral - discarded after the call.
type RecipientViewRequest struct {
	// AuthenticationMethod describes how this application authenticated the
	// signer
	AuthenticationMethod string `json:"authenticationMethod"`

	// ClientUserID must match the clientUserId of the envelope's signer
	ClientUserID string `json:"clientUserId"`

	// RecipientID must match the recipientId of the envelope's signer
	RecipientID string `json:"recipientId"`

	// ReturnURL is where the signing service redirects the browser after the
	// ceremony, with an `event` query parameter describing the outcome
	ReturnURL string `json:"returnUrl"`

	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// RecipientViewFromSigner derives the view request from the signer actually
// attached to the envelope.
//
// Deriving rather than re-stating the ids makes the recipientId/clientUserId
// consistency between envelope creation and the view request a structural
// guarantee.
func RecipientViewFromSigner(signer Signer, returnURL string) (*RecipientViewRequest, error) {
	if signer.ClientUserID == "" {
		return nil, NewValidationError("signer has no clientUserId - cannot create an embedded recipient view")
	}
	if returnURL == "" {
		return nil, NewValidationError("returnUrl is required for a recipient view")
	}

	return &RecipientViewRequest{
		AuthenticationMethod: AuthenticationMethodNone,
		ClientUserID:         signer.ClientUserID,
		RecipientID:          signer.RecipientID,
		ReturnURL:            returnURL,
		UserName:             signer.Name,
		Email:                signer.Email,
	}, nil
}
