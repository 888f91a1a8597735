package payins

import (
	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
)

// Message is a payin message: a header plus an ordered batch of payin
// requests. The same invariants as payout messages apply: unique
// transaction ids, order preserved through serialization.
type Message struct {
	Header       message.Header `json:"header"`
	Transactions []Transaction  `json:"transactions"`
}

// MessageBuilder assembles a payin message.
type MessageBuilder struct {
	msg Message
}

// Option configures a MessageBuilder.
type Option func(*MessageBuilder)

// NewMessage returns a builder with a fresh header and applies the
// given options.
func NewMessage(opts ...Option) *MessageBuilder {
	b := &MessageBuilder{
		msg: Message{
			Header: message.NewHeader(message.FinancialInstitution{}, message.Shinkansen),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithSender sets the originating institution.
func WithSender(sender message.FinancialInstitution) Option {
	return func(b *MessageBuilder) { b.msg.Header.Sender = sender }
}

// WithReceiver sets the receiving institution. Defaults to Shinkansen.
func WithReceiver(receiver message.FinancialInstitution) Option {
	return func(b *MessageBuilder) { b.msg.Header.Receiver = receiver }
}

// WithHeader replaces the generated header entirely.
func WithHeader(h message.Header) Option {
	return func(b *MessageBuilder) { b.msg.Header = h }
}

// WithTransaction appends a transaction to the batch.
func WithTransaction(tx Transaction) Option {
	return func(b *MessageBuilder) { b.msg.Transactions = append(b.msg.Transactions, tx) }
}

// AddTransaction appends a transaction to the batch.
func (b *MessageBuilder) AddTransaction(tx Transaction) *MessageBuilder {
	b.msg.Transactions = append(b.msg.Transactions, tx)
	return b
}

// Build validates and returns the payin message.
func (b *MessageBuilder) Build() (*Message, error) {
	msg := b.msg
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Validate checks the structural invariants of the message.
func (m *Message) Validate() error {
	if err := m.Header.Validate(); err != nil {
		return err
	}
	if len(m.Transactions) == 0 {
		return message.Malformedf("payin message has no transactions")
	}
	seen := make(map[string]struct{}, len(m.Transactions))
	for i := range m.Transactions {
		tx := &m.Transactions[i]
		if err := tx.validate(); err != nil {
			return err
		}
		if tx.TransactionType != TransactionType {
			return message.Malformedf("transaction %s: transaction_type must be %q", tx.TransactionID, TransactionType)
		}
		if _, dup := seen[tx.TransactionID]; dup {
			return message.Malformedf("duplicate transaction_id %s", tx.TransactionID)
		}
		seen[tx.TransactionID] = struct{}{}
	}
	return nil
}

// ID returns the message id from the header.
func (m *Message) ID() string {
	return m.Header.MessageID
}

// CanonicalJSON returns the canonical document bytes of the message.
func (m *Message) CanonicalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return message.EncodeDocument(m)
}

// FromJSON parses a payin message document. Structural defects fail
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
