package payouts

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
)

func testDebtor() Debtor {
	return Debtor{
		Name:                 "Example Company SpA",
		Identification:       message.NewPersonID("CLID", "11111111-1"),
		FinancialInstitution: message.NewFinancialInstitution("BANCO_BICE_CL"),
		Account:              "4242424242",
		AccountType:          message.CurrentAccount,
		Email:                "team@example.com",
	}
}

func testCreditor() Creditor {
	fi := message.NewFinancialInstitution("BANCO_DE_CHILE_CL")
	return Creditor{
		Name:                 "Juan Perez",
		Identification:       message.NewPersonID("CLID", "12345678-5"),
		FinancialInstitution: &fi,
		Account:              "123456789",
		AccountType:          message.CurrentAccount,
		Email:                "juan@example.com",
	}
}

func testTransaction(opts ...TransactionOption) Transaction {
	base := []TransactionOption{
		WithAmount("428000", message.CLP),
		WithDescription("Pago de factura 1234"),
		WithDebtor(testDebtor()),
		WithCreditor(testCreditor()),
	}
	return NewTransaction(append(base, opts...)...)
}

func TestNewTransactionDefaults(t *testing.T) {
	tx := testTransaction()

	assert.Equal(t, "payout", tx.TransactionType)
	assert.NotEmpty(t, tx.TransactionID)
	assert.NotEmpty(t, tx.ExecutionDate)
	assert.Equal(t, "default", tx.PaymentPurposeCategory)
	assert.Equal(t, "default", tx.PaymentRail)
	assert.Equal(t, "default", tx.ExecutionMode)
	assert.Equal(t, "default", tx.POConnection)

	other := testTransaction()
	assert.NotEqual(t, tx.TransactionID, other.TransactionID)
}

func TestNewTransactionOverrides(t *testing.T) {
	tx := testTransaction(
		WithTransactionID("tx-1"),
		WithExecutionDate("2022-10-05T14:48:00Z"),
		WithReferenceNumber("9999999"),
		WithTrackingKey("TRACK123"),
		WithPaymentRail("fast"),
		WithExecutionMode("now"),
		WithPaymentPurposeCategory("payroll"),
		WithPOConnection("backup"),
	)

	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.Equal(t, "2022-10-05T14:48:00Z", tx.ExecutionDate)
	assert.Equal(t, "9999999", tx.ReferenceNumber)
	assert.Equal(t, "TRACK123", tx.TrackingKey)
	assert.Equal(t, "fast", tx.PaymentRail)
	assert.Equal(t, "now", tx.ExecutionMode)
	assert.Equal(t, "payroll", tx.PaymentPurposeCategory)
	assert.Equal(t, "backup", tx.POConnection)
}

func TestBuildValidatesMessage(t *testing.T) {
	sender := message.NewFinancialInstitution("TAMAGOTCHI")

	t.Run("valid", func(t *testing.T) {
		msg, err := NewMessage(
			WithSender(sender),
			WithTransaction(testTransaction()),
		).Build()
		require.NoError(t, err)
		assert.Equal(t, sender, msg.Header.Sender)
		assert.Equal(t, message.Shinkansen, msg.Header.Receiver)
		assert.NotEmpty(t, msg.ID())
	})

	t.Run("no transactions", func(t *testing.T) {
		_, err := NewMessage(WithSender(sender)).Build()
		assert.ErrorIs(t, err, message.ErrMalformedMessage)
	})

	t.Run("no sender", func(t *testing.T) {
		_, err := NewMessage(WithTransaction(testTransaction())).Build()
		assert.ErrorIs(t, err, message.ErrMalformedMessage)
	})

	t.Run("duplicate transaction ids", func(t *testing.T) {
		_, err := NewMessage(
			WithSender(sender),
			WithTransaction(testTransaction(WithTransactionID("tx-1"))),
			WithTransaction(testTransaction(WithTransactionID("tx-1"))),
		).Build()
		assert.ErrorIs(t, err, message.ErrMalformedMessage)
	})

	t.Run("incomplete transaction", func(t *testing.T) {
		tx := testTransaction()
		tx.Amount = ""
		_, err := NewMessage(WithSender(sender), WithTransaction(tx)).Build()
		assert.ErrorIs(t, err, message.ErrMalformedMessage)
	})
}

func TestCanonicalJSONShape(t *testing.T) {
	msg, err := NewMessage(
		WithSender(message.NewFinancialInstitution("TAMAGOTCHI")),
		WithTransaction(testTransaction(WithTransactionID("tx-1"))),
	).Build()
	require.NoError(t, err)

	data, err := msg.CanonicalJSON()
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))
	require.Contains(t, envelope, "document")

	var doc struct {
		Header       map[string]json.RawMessage   `json:"header"`
		Transactions []map[string]json.RawMessage `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(envelope["document"], &doc))
	require.Len(t, doc.Transactions, 1)

	tx := doc.Transactions[0]
	for _, field := range []string{
		"transaction_type", "transaction_id", "currency", "amount",
		"description", "execution_date", "debtor", "creditor",
	} {
		assert.Contains(t, tx, field)
	}
	// Optionals stay off the wire when unset.
	assert.NotContains(t, tx, "reference_number")
	assert.NotContains(t, tx, "tracking_key")
}

func TestCanonicalJSONOmitsAbsentCreditorInstitution(t *testing.T) {
	creditor := testCreditor()
	creditor.FinancialInstitution = nil
	msg, err := NewMessage(
		WithSender(message.NewFinancialInstitution("TAMAGOTCHI")),
		WithTransaction(testTransaction(WithCreditor(creditor))),
	).Build()
	require.NoError(t, err)

	data, err := msg.CanonicalJSON()
	require.NoError(t, err)

	var envelope struct {
		Document struct {
			Transactions []struct {
				Creditor map[string]json.RawMessage `json:"creditor"`
			} `json:"transactions"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	require.Len(t, envelope.Document.Transactions, 1)
	assert.NotContains(t, envelope.Document.Transactions[0].Creditor, "financial_institution")
}

func TestFromJSONRoundTrip(t *testing.T) {
	original, err := NewMessage(
		WithSender(message.NewFinancialInstitution("TAMAGOTCHI")),
		WithTransaction(testTransaction(WithTransactionID("tx-1"))),
		WithTransaction(testTransaction(WithTransactionID("tx-2"))),
		WithTransaction(testTransaction(WithTransactionID("tx-3"))),
	).Build()
	require.NoError(t, err)

	data, err := original.CanonicalJSON()
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	// Transaction order survives.
	ids := []string{}
	for _, tx := range parsed.Transactions {
		ids = append(ids, tx.TransactionID)
	}
	assert.Equal(t, []string{"tx-1", "tx-2", "tx-3"}, ids)

	// Re-encoding reproduces the canonical bytes.
	again, err := parsed.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestFromJSONNormalizesFieldOrder(t *testing.T) {
	// Input with reordered fields and extra whitespace parses to the
	// same canonical bytes as the straight encoding.
	shuffled := `{
	  "document": {
	    "transactions": [{
	      "creditor": {"account_type": "current_account", "account": "123456789", "identification": {"id": "12345678-5", "id_schema": "CLID"}, "name": "Juan Perez"},
	      "debtor": {"account_type": "current_account", "account": "4242424242", "identification": {"id": "11111111-1", "id_schema": "CLID"}, "name": "Example Company SpA", "financial_institution": {"fin_id_schema": "SHINKANSEN", "fin_id": "BANCO_BICE_CL"}},
	      "execution_date": "2022-10-05T14:48:00Z",
	      "description": "Pago",
	      "amount": "1000",
	      "currency": "CLP",
	      "transaction_id": "tx-1",
	      "transaction_type": "payout"
	    }],
	    "header": {
	      "creation_date": "2022-10-05T14:48:00Z",
	      "message_id": "m-1",
	      "receiver": {"fin_id_schema": "SHINKANSEN", "fin_id": "SHINKANSEN"},
	      "sender": {"fin_id_schema": "SHINKANSEN", "fin_id": "TAMAGOTCHI"}
	    }
	  }
	}`

	parsed, err := FromJSON([]byte(shuffled))
	require.NoError(t, err)

	canonical, err := parsed.CanonicalJSON()
	require.NoError(t, err)

	reparsed, err := FromJSON(canonical)
	require.NoError(t, err)
	again, err := reparsed.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, canonical, again)
	assert.NotEqual(t, shuffled, string(canonical))
}

func TestFromJSONMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not JSON", `{{{`},
		{"no document", `{"header":{}}`},
		{"empty document", `{"document":{}}`},
		{"no transactions", `{"document":{"header":{"sender":{"fin_id":"A","fin_id_schema":"SHINKANSEN"},"receiver":{"fin_id":"B","fin_id_schema":"SHINKANSEN"},"message_id":"m1","creation_date":"2022-10-05T14:48:00Z"},"transactions":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data))
			assert.ErrorIs(t, err, message.ErrMalformedMessage)
		})
	}
}

func TestParseHTTPResponse(t *testing.T) {
	t.Run("200 with transactions", func(t *testing.T) {
		body := `{"transactions":[{"transaction_id":"tx-1","shinkansen_transaction_id":"sk-1"},{"transaction_id":"tx-2","shinkansen_transaction_id":"sk-2"}]}`
		resp := ParseHTTPResponse(http.StatusOK, []byte(body))
		assert.Equal(t, http.StatusOK, resp.HTTPStatusCode)
		assert.Equal(t, map[string]string{"tx-1": "sk-1", "tx-2": "sk-2"}, resp.TransactionIDs)
		assert.Empty(t, resp.Errors)
	})

	t.Run("409 duplicate message", func(t *testing.T) {
		body := `{"transactions":[{"transaction_id":"tx-1","shinkansen_transaction_id":"sk-1"}]}`
		resp := ParseHTTPResponse(http.StatusConflict, []byte(body))
		assert.Equal(t, http.StatusConflict, resp.HTTPStatusCode)
		assert.Equal(t, "sk-1", resp.TransactionIDs["tx-1"])
	})

	t.Run("400 with errors", func(t *testing.T) {
		body := `{"errors":[{"error_code":"invalid_account","error_message":"account does not exist"}]}`
		resp := ParseHTTPResponse(http.StatusBadRequest, []byte(body))
		assert.Equal(t, http.StatusBadRequest, resp.HTTPStatusCode)
		assert.Empty(t, resp.TransactionIDs)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "invalid_account", resp.Errors[0].ErrorCode)
		assert.Equal(t, "invalid_account (account does not exist)", resp.Errors[0].String())
	})

	t.Run("500 without body", func(t *testing.T) {
		resp := ParseHTTPResponse(http.StatusInternalServerError, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.HTTPStatusCode)
		assert.Empty(t, resp.TransactionIDs)
		assert.Empty(t, resp.Errors)
	})

	t.Run("200 with garbage body", func(t *testing.T) {
		resp := ParseHTTPResponse(http.StatusOK, []byte("not json"))
		assert.Equal(t, http.StatusOK, resp.HTTPStatusCode)
		assert.Empty(t, resp.TransactionIDs)
	})
}
