package message

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSchema is the fin_id_schema assumed when none is given.
const DefaultSchema = "SHINKANSEN"

// Shinkansen is the platform itself, as sender or receiver of messages.
var Shinkansen = FinancialInstitution{FinID: "SHINKANSEN", FinIDSchema: DefaultSchema}

// Account types accepted by the platform.
const (
	CurrentAccount = "current_account"
	CashAccount    = "cash_account"
	SavingsAccount = "savings_account"
)

// AccountTypes lists every account type accepted by the platform.
var AccountTypes = []string{CurrentAccount, CashAccount, SavingsAccount}

// CLP is the Chilean peso currency code.
const CLP = "CLP"

// MainBanks maps country codes to the fin_id -> display name table of the
// main banks reachable in that country.
var MainBanks = map[string]map[string]string{
	"CL": {
		"BANCO_DE_CHILE_CL":      "Banco de Chile",
		"BANCO_CONSORCIO_CL":     "Banco Consorcio",
		"BANCO_ESTADO_CL":        "Banco del Estado",
		"BANCO_RIPLEY_CL":        "Banco Ripley",
		"SCOTIABANK_CL":          "Scotiabank",
		"SCOTIABANK_AZUL_CL":     "Scotiabank Azul",
		"BANCO_FALABELLA_CL":     "Banco Falabella",
		"BANCO_BICE_CL":          "Banco BICE",
		"HSBC_CL":                "HSBC",
		"BANCO_INTERNACIONAL_CL": "Banco Internacional",
		"BANCO_ITAU_CL":          "Banco Itau",
		"BANCO_SANTANDER_CL":     "Banco Santander",
		"BANCO_SECURITY_CL":      "Banco Security",
		"BCI_CL":                 "Bci",
		"COOPEUCH_CL":            "Coopeuch",
		"JP_MORGAN_CL":           "JP Morgan",
		"TENPO_CL":               "Tenpo",
		"PREPAGO_LOS_HEROES_CL":  "Prepago Los Héroes",
		"TAPP_CL":                "Tapp Caja Los Andes",
		"MERCADO_PAGO_CL":        "Mercado Pago",
	},
}

// FinancialInstitution identifies a party that can send or receive
// messages: a bank, the platform itself, or the integrating institution.
// It is a value type; two institutions are equal when both fields match.
type FinancialInstitution struct {
	FinID       string `json:"fin_id"`
	FinIDSchema string `json:"fin_id_schema"`
}

// NewFinancialInstitution returns an institution under the default schema.
func NewFinancialInstitution(finID string) FinancialInstitution {
	return FinancialInstitution{FinID: finID, FinIDSchema: DefaultSchema}
}

// PersonID identifies a natural or legal person under some id schema
// (e.g. "CLID" for a Chilean RUT).
type PersonID struct {
	IDSchema string `json:"id_schema"`
	ID       string `json:"id"`
}

// NewPersonID returns a PersonID with the given schema and value.
func NewPersonID(idSchema, id string) PersonID {
	return PersonID{IDSchema: idSchema, ID: id}
}

// Header is the header every message document carries. MessageID must be
// unique per message; recipients use it for idempotency. CreationDate is
// an RFC 3339 UTC timestamp string, kept as a string so re-encoding a
// received document never reformats it.
type Header struct {
	Sender       FinancialInstitution `json:"sender"`
	Receiver     FinancialInstitution `json:"receiver"`
	MessageID    string               `json:"message_id"`
	CreationDate string               `json:"creation_date"`
}

// NewHeader returns a header for sender and receiver with a fresh
// message id and the current time as creation date.
func NewHeader(sender, receiver FinancialInstitution) Header {
	return Header{
		Sender:       sender,
		Receiver:     receiver,
		MessageID:    uuid.New().String(),
		CreationDate: Now(),
	}
}

// Now returns the current time formatted as the platform expects.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Validate checks that all required header fields are present.
func (h *Header) Validate() error {
	if h.Sender.FinID == "" {
		return malformedf("header.sender.fin_id is required")
	}
	if h.Receiver.FinID == "" {
		return malformedf("header.receiver.fin_id is required")
	}
	if h.MessageID == "" {
		return malformedf("header.message_id is required")
	}
	if h.CreationDate == "" {
		return malformedf("header.creation_date is required")
	}
	return nil
}
