// Package payouts implements payout messages: batches of outbound
// transfer instructions sent to the platform, and the synchronous HTTP
// result returned when a batch is posted.
//
// A Message is built with NewMessage and functional options,
// serialized with CanonicalJSON, and parsed back with FromJSON. The
// asynchronous outcome of each transaction arrives later as a response
// message (see the responses package).
package payouts
