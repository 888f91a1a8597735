// Package payins implements payin messages: requests for inbound
// payments, either interactive (the payer is redirected to approve),
// automated, or expected (a declared incoming transfer to match).
//
// The structure mirrors the payouts package; the notable difference is
// that most debtor fields are optional and the synchronous result may
// carry interactive payment URLs.
package payins
