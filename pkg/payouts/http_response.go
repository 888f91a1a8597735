package payouts

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ResponseError is one entry of the errors list in a rejected batch.
type ResponseError struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (e ResponseError) String() string {
	return fmt.Sprintf("%s (%s)", e.ErrorCode, e.ErrorMessage)
}

// HTTPResponse is the synchronous result of posting a payout message.
// Business-level rejections are data here, never Go errors: a 400 with
// an errors list is an expected outcome the caller branches on.
// TransactionIDs maps each caller-assigned transaction_id to the
// platform-assigned id, so partial-success batches can be reconciled.
type HTTPResponse struct {
	HTTPStatusCode int
	TransactionIDs map[string]string
	Errors         []ResponseError
}

// ParseHTTPResponse interprets the status code and body of the
// synchronous POST response. 200 and 409 (duplicate message id) carry
// the accepted transactions; 400 carries the errors list. Anything
// else, or an unparseable body, yields an empty result with just the
// status code.
func ParseHTTPResponse(statusCode int, body []byte) *HTTPResponse {
	switch statusCode {
	case http.StatusOK, http.StatusConflict:
		var parsed struct {
			Transactions []struct {
				TransactionID           string `json:"transaction_id"`
				ShinkansenTransactionID string `json:"shinkansen_transaction_id"`
			} `json:"transactions"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			ids := make(map[string]string, len(parsed.Transactions))
			for _, t := range parsed.Transactions {
				ids[t.TransactionID] = t.ShinkansenTransactionID
			}
			return &HTTPResponse{
				HTTPStatusCode: statusCode,
				TransactionIDs: ids,
				Errors:         []ResponseError{},
			}
		}
	case http.StatusBadRequest:
		var parsed struct {
			Errors []ResponseError `json:"errors"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			return &HTTPResponse{
				HTTPStatusCode: statusCode,
				TransactionIDs: map[string]string{},
				Errors:         parsed.Errors,
			}
		}
	}
	return &HTTPResponse{
		HTTPStatusCode: statusCode,
		TransactionIDs: map[string]string{},
		Errors:         []ResponseError{},
	}
}
