// Package esign contains the envelope model and the REST client for the
// e-signature service.
//
// The types in this package mirror the signing API's JSON wire format -
// the API represents numeric fields (page numbers, positions, ids) as
// strings, and so do these structs.
//
// An embedded signing ceremony needs two sequential API calls:
//
//  1. create the envelope (document + signer + tab placement) - returns the
//     envelope id
//  2. create a recipient view for that envelope - returns the time-limited
//     signing URL the browser is redirected to
//
// The signer's clientUserId marks the recipient for embedded signing (as
// opposed to an emailed signing link) and must be identical in the envelope
// and the view request. Use RecipientViewFromSigner to derive the view
// request from the envelope's signer so the two can never diverge.
package esign
