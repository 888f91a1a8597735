package payins

import (
	"github.com/google/uuid"

	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
)

// TransactionType is the transaction_type value of every payin.
const TransactionType = "payin"

// Payin kinds.
const (
	InteractivePayment = "interactive_payment"
	AutomatedPayment   = "automated_payment"
	ExpectedPayment    = "expected_payment"
)

// Debtor is the payer. Every field is optional: for interactive
// payments the payer identifies itself during the flow.
type Debtor struct {
	Name                 string                        `json:"name,omitempty"`
	Identification       *message.PersonID             `json:"identification,omitempty"`
	FinancialInstitution *message.FinancialInstitution `json:"financial_institution,omitempty"`
	Account              string                        `json:"account,omitempty"`
	AccountType          string                        `json:"account_type,omitempty"`
	Email                string                        `json:"email,omitempty"`
}

// Creditor is the destination account the payment should arrive at.
type Creditor struct {
	Name                 string                       `json:"name"`
	Identification       message.PersonID             `json:"identification"`
	FinancialInstitution message.FinancialInstitution `json:"financial_institution"`
	Account              string                       `json:"account"`
	AccountType          string                       `json:"account_type"`
	Email                string                       `json:"email,omitempty"`
}

// Transaction is a single payin request.
type Transaction struct {
	TransactionType                      string   `json:"transaction_type"`
	PayinType                            string   `json:"payin_type"`
	InteractivePaymentProvider           string   `json:"interactive_payment_provider,omitempty"`
	InteractivePaymentSuccessRedirectURL string   `json:"interactive_payment_success_redirect_url,omitempty"`
	InteractivePaymentFailureRedirectURL string   `json:"interactive_payment_failure_redirect_url,omitempty"`
	TransactionID                        string   `json:"transaction_id"`
	Currency                             string   `json:"currency"`
	Amount                               string   `json:"amount,omitempty"`
	Description                          string   `json:"description,omitempty"`
	ExpirationDate                       string   `json:"expiration_date,omitempty"`
	Debtor                               *Debtor  `json:"debtor,omitempty"`
	Creditor                             Creditor `json:"creditor"`
}

// TransactionOption configures a Transaction under construction.
type TransactionOption func(*Transaction)

// NewTransaction returns a payin transaction of the given kind with a
// fresh transaction id, then applies the given options.
func NewTransaction(payinType string, opts ...TransactionOption) Transaction {
	tx := Transaction{
		TransactionType: TransactionType,
		PayinType:       payinType,
		TransactionID:   uuid.New().String(),
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

// WithCurrency sets the currency alone, for payins with an open amount.
func WithCurrency(currency string) TransactionOption {
	return func(tx *Transaction) { tx.Currency = currency }
}

// WithDescription sets the human-readable description.
func WithDescription(description string) TransactionOption {
	return func(tx *Transaction) { tx.Description = description }
}

// WithCreditor sets the destination account.
func WithCreditor(creditor Creditor) TransactionOption {
	return func(tx *Transaction) { tx.Creditor = creditor }
}

// WithDebtor sets the (optional) payer details.
func WithDebtor(debtor Debtor) TransactionOption {
	return func(tx *Transaction) { tx.Debtor = &debtor }
}

// WithTransactionID overrides the generated transaction id.
func WithTransactionID(id string) TransactionOption {
	return func(tx *Transaction) { tx.TransactionID = id }
}

// WithExpirationDate sets the date after which the payin is failed.
func WithExpirationDate(date string) TransactionOption {
	return func(tx *Transaction) { tx.ExpirationDate = date }
}

// WithInteractiveProvider sets the interactive payment provider.
func WithInteractiveProvider(provider string) TransactionOption {
	return func(tx *Transaction) { tx.InteractivePaymentProvider = provider }
}

// WithRedirectURLs sets the success and failure redirect URLs required
// for interactive payments.
func WithRedirectURLs(successURL, failureURL string) TransactionOption {
	return func(tx *Transaction) {
		tx.InteractivePaymentSuccessRedirectURL = successURL
		tx.InteractivePaymentFailureRedirectURL = failureURL
	}
}

func (tx *Transaction) validate() error {
	if tx.TransactionID == "" {
		return message.Malformedf("transaction_id is required")
	}
	switch tx.PayinType {
	case InteractivePayment, AutomatedPayment, ExpectedPayment:
	default:
		return message.Malformedf("transaction %s: unknown payin_type %q", tx.TransactionID, tx.PayinType)
	}
	if tx.Currency == "" {
		return message.Malformedf("transaction %s: currency is required", tx.TransactionID)
	}
	if tx.Creditor.Name == "" || tx.Creditor.Account == "" || tx.Creditor.AccountType == "" {
		return message.Malformedf("transaction %s: incomplete creditor", tx.TransactionID)
	}
	if tx.PayinType == InteractivePayment {
		if tx.InteractivePaymentSuccessRedirectURL == "" || tx.InteractivePaymentFailureRedirectURL == "" {
			return message.Malformedf("transaction %s: interactive payments require redirect URLs", tx.TransactionID)
		}
	}
	return nil
}
