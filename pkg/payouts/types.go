package payouts

import (
	"github.com/google/uuid"

	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
)

// TransactionType is the transaction_type value of every payout.
const TransactionType = "payout"

// Debtor is the origin of a payout: the institution account money
// leaves from.
type Debtor struct {
	Name                 string                       `json:"name"`
	Identification       message.PersonID             `json:"identification"`
	FinancialInstitution message.FinancialInstitution `json:"financial_institution"`
	Account              string                       `json:"account"`
	AccountType          string                       `json:"account_type"`
	Email                string                       `json:"email,omitempty"`
}

// Creditor is the destination of a payout. The financial institution is
// optional on the wire: some payment rails resolve it from the account.
type Creditor struct {
	Name                 string                        `json:"name"`
	Identification       message.PersonID              `json:"identification"`
	FinancialInstitution *message.FinancialInstitution `json:"financial_institution,omitempty"`
	Account              string                        `json:"account"`
	AccountType          string                        `json:"account_type"`
	Email                string                        `json:"email,omitempty"`
}

// Transaction is a single payout instruction. Amount is a decimal string
// and is never parsed into a float by this library. TransactionID must
// be unique within its message; the platform echoes it back in both the
// synchronous result and the asynchronous response.
type Transaction struct {
	TransactionType        string   `json:"transaction_type"`
	TransactionID          string   `json:"transaction_id"`
	Currency               string   `json:"currency"`
	Amount                 string   `json:"amount"`
	Description            string   `json:"description"`
	ExecutionDate          string   `json:"execution_date"`
	Debtor                 Debtor   `json:"debtor"`
	Creditor               Creditor `json:"creditor"`
	ReferenceNumber        string   `json:"reference_number,omitempty"`
	TrackingKey            string   `json:"tracking_key,omitempty"`
	PaymentPurposeCategory string   `json:"payment_purpose_category,omitempty"`
	PaymentRail            string   `json:"payment_rail,omitempty"`
	ExecutionMode          string   `json:"execution_mode,omitempty"`
	POConnection           string   `json:"po_connection,omitempty"`
}

// TransactionOption configures a Transaction under construction.
type TransactionOption func(*Transaction)

// NewTransaction returns a payout transaction with a fresh transaction
// id, the current time as execution date, and "default" routing fields,
// then applies the given options.
func NewTransaction(opts ...TransactionOption) Transaction {
	tx := Transaction{
		TransactionType:        TransactionType,
		TransactionID:          uuid.New().String(),
		ExecutionDate:          message.Now(),
		PaymentPurposeCategory: "default",
		PaymentRail:            "default",
		ExecutionMode:          "default",
		POConnection:           "default",
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx
}

// WithAmount sets the amount (a decimal string) and currency.
func WithAmount(amount, currency string) TransactionOption {
	return func(tx *Transaction) {
		tx.Amount = amount
		tx.Currency = currency
	}
}

// WithDescription sets the human-readable description.
func WithDescription(description string) TransactionOption {
	return func(tx *Transaction) { tx.Description = description }
}

// WithDebtor sets the payout origin.
func WithDebtor(debtor Debtor) TransactionOption {
	return func(tx *Transaction) { tx.Debtor = debtor }
}

// WithCreditor sets the payout destination.
func WithCreditor(creditor Creditor) TransactionOption {
	return func(tx *Transaction) { tx.Creditor = creditor }
}

// WithTransactionID overrides the generated transaction id.
func WithTransactionID(id string) TransactionOption {
	return func(tx *Transaction) { tx.TransactionID = id }
}

// WithExecutionDate overrides the preferred execution date.
func WithExecutionDate(date string) TransactionOption {
	return func(tx *Transaction) { tx.ExecutionDate = date }
}

// WithReferenceNumber sets the optional reference number.
func WithReferenceNumber(ref string) TransactionOption {
	return func(tx *Transaction) { tx.ReferenceNumber = ref }
}

// WithTrackingKey sets the optional tracking key.
func WithTrackingKey(key string) TransactionOption {
	return func(tx *Transaction) { tx.TrackingKey = key }
}

// WithPaymentRail overrides the payment rail selection.
func WithPaymentRail(rail string) TransactionOption {
	return func(tx *Transaction) { tx.PaymentRail = rail }
}

// WithExecutionMode overrides the execution mode.
func WithExecutionMode(mode string) TransactionOption {
	return func(tx *Transaction) { tx.ExecutionMode = mode }
}

// WithPaymentPurposeCategory overrides the payment purpose category.
func WithPaymentPurposeCategory(category string) TransactionOption {
	return func(tx *Transaction) { tx.PaymentPurposeCategory = category }
}

// WithPOConnection overrides the payout connection selection.
func WithPOConnection(conn string) TransactionOption {
	return func(tx *Transaction) { tx.POConnection = conn }
}

func (tx *Transaction) validate() error {
	if tx.TransactionID == "" {
		return message.Malformedf("transaction_id is required")
	}
	if tx.Currency == "" {
		return message.Malformedf("transaction %s: currency is required", tx.TransactionID)
	}
	if tx.Amount == "" {
		return message.Malformedf("transaction %s: amount is required", tx.TransactionID)
	}
	if tx.Debtor.Name == "" || tx.Debtor.Account == "" || tx.Debtor.AccountType == "" {
		return message.Malformedf("transaction %s: incomplete debtor", tx.TransactionID)
	}
	if tx.Creditor.Name == "" || tx.Creditor.Account == "" || tx.Creditor.AccountType == "" {
		return message.Malformedf("transaction %s: incomplete creditor", tx.TransactionID)
	}
	return nil
}
