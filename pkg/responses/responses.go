package responses

import (
	"github.com/google/uuid"

	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
)

// Transaction status values reported by the platform.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// TransactionResponse reports the outcome of one original transaction.
// Unknown extra fields in received documents are ignored, so newer
// platform versions remain parseable.
type TransactionResponse struct {
	ResponseID                   string `json:"response_id"`
	TransactionType              string `json:"transaction_type"`
	TransactionID                string `json:"transaction_id"`
	ShinkansenTransactionID      string `json:"shinkansen_transaction_id"`
	ShinkansenTransactionStatus  string `json:"shinkansen_transaction_status"`
	ShinkansenTransactionMessage string `json:"shinkansen_transaction_message"`
	ResponseStatus               string `json:"response_status"`
	ResponseMessage              string `json:"response_message"`
}

// IsOK reports whether the response status is "ok".
func (r *TransactionResponse) IsOK() bool {
	return r.ResponseStatus == StatusOK
}

// NewPayoutResponse returns a payout transaction response with a fresh
// response id. Mostly useful for tests and for platforms simulating
// callbacks.
func NewPayoutResponse(transactionID, shinkansenTransactionID, transactionStatus, transactionMessage, responseStatus, responseMessage string) TransactionResponse {
	return TransactionResponse{
		ResponseID:                   uuid.New().String(),
		TransactionType:              "payout",
		TransactionID:                transactionID,
		ShinkansenTransactionID:      shinkansenTransactionID,
		ShinkansenTransactionStatus:  transactionStatus,
		ShinkansenTransactionMessage: transactionMessage,
		ResponseStatus:               responseStatus,
		ResponseMessage:              responseMessage,
	}
}

// Message is a response message: a header plus the ordered list of
// per-transaction responses.
type Message struct {
	Header    message.Header        `json:"header"`
	Responses []TransactionResponse `json:"responses"`
}

// NewMessage returns a response message with a fresh header.
func NewMessage(sender, receiver message.FinancialInstitution, responses []TransactionResponse) *Message {
	return &Message{
		Header:    message.NewHeader(sender, receiver),
		Responses: responses,
	}
}

// Validate checks the structural invariants of the message.
func (m *Message) Validate() error {
	if err := m.Header.Validate(); err != nil {
		return err
	}
	for i := range m.Responses {
		if m.Responses[i].TransactionID == "" {
			return message.Malformedf("response %d: transaction_id is required", i)
		}
	}
	return nil
}

// CanonicalJSON returns the canonical document bytes of the message.
func (m *Message) CanonicalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return message.EncodeDocument(m)
}

// FromJSON parses a response message document. Structural defects fail
// with message.ErrMalformedMessage.
func FromJSON(data []byte) (*Message, error) {
	var m Message
	if err := message.DecodeDocument(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
