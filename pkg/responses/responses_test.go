package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinkansenfinance/shinkansen-go/pkg/message"
)

const sampleCallback = `{
  "document": {
    "header": {
      "sender": {"fin_id": "SHINKANSEN", "fin_id_schema": "SHINKANSEN"},
      "receiver": {"fin_id": "TAMAGOTCHI", "fin_id_schema": "SHINKANSEN"},
      "message_id": "c09ba6f4-e0d1-43a3-ac64-a0b7b48ad90f",
      "creation_date": "2022-10-05T14:48:00Z"
    },
    "responses": [
      {
        "response_id": "1e66b7c9-6734-4a45-8b58-5b9b8f1e5a1e",
        "transaction_type": "payout",
        "transaction_id": "tx-1",
        "shinkansen_transaction_id": "sk-1",
        "shinkansen_transaction_status": "completed",
        "shinkansen_transaction_message": "",
        "response_status": "ok",
        "response_message": ""
      },
      {
        "response_id": "89a0f907-95a0-4985-b4dd-ba711cb487be",
        "transaction_type": "payout",
        "transaction_id": "tx-2",
        "shinkansen_transaction_id": "sk-2",
        "shinkansen_transaction_status": "rejected",
        "shinkansen_transaction_message": "insufficient funds",
        "response_status": "error",
        "response_message": "rejected by destination bank"
      }
    ]
  }
}`

func TestFromJSON(t *testing.T) {
	msg, err := FromJSON([]byte(sampleCallback))
	require.NoError(t, err)

	assert.Equal(t, message.Shinkansen, msg.Header.Sender)
	assert.Equal(t, "TAMAGOTCHI", msg.Header.Receiver.FinID)
	require.Len(t, msg.Responses, 2)

	ok := msg.Responses[0]
	assert.Equal(t, "tx-1", ok.TransactionID)
	assert.Equal(t, "sk-1", ok.ShinkansenTransactionID)
	assert.True(t, ok.IsOK())

	failed := msg.Responses[1]
	assert.Equal(t, "tx-2", failed.TransactionID)
	assert.False(t, failed.IsOK())
	assert.Equal(t, "rejected by destination bank", failed.ResponseMessage)
}

func TestFromJSONMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not JSON", `nope`},
		{"no document", `{"responses":[]}`},
		{"response without transaction id", `{"document":{"header":{"sender":{"fin_id":"SHINKANSEN","fin_id_schema":"SHINKANSEN"},"receiver":{"fin_id":"T","fin_id_schema":"SHINKANSEN"},"message_id":"m1","creation_date":"2022-10-05T14:48:00Z"},"responses":[{"response_status":"ok"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data))
			assert.ErrorIs(t, err, message.ErrMalformedMessage)
		})
	}
}

func TestNewPayoutResponse(t *testing.T) {
	r := NewPayoutResponse("tx-1", "sk-1", "completed", "", StatusOK, "")
	assert.NotEmpty(t, r.ResponseID)
	assert.Equal(t, "payout", r.TransactionType)
	assert.True(t, r.IsOK())
}

func TestMessageRoundTrip(t *testing.T) {
	original := NewMessage(message.Shinkansen, message.NewFinancialInstitution("TAMAGOTCHI"),
		[]TransactionResponse{
			NewPayoutResponse("tx-1", "sk-1", "completed", "", StatusOK, ""),
		})

	data, err := original.CanonicalJSON()
	require.NoError(t, err)

	parsed, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
