package payins

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

// HTTPResponse is the synchronous result of posting a payin message.
// InteractivePaymentURLs maps transaction ids to the URL the payer must
// visit, for transactions of the interactive kind.
type HTTPResponse struct {
	HTTPStatusCode         int
	TransactionIDs         map[string]string
	InteractivePaymentURLs map[string]string
	Errors                 []ResponseError
}

// ParseHTTPResponse interprets the status code and body of the
// synchronous POST response, following the same rules as payouts plus
// the interactive payment URL extraction.
func ParseHTTPResponse(statusCode int, body []byte) *HTTPResponse {
	switch statusCode {
	case http.StatusOK, http.StatusConflict:
		var parsed struct {
			Transactions []struct {
				TransactionID           string `json:"transaction_id"`
				ShinkansenTransactionID string `json:"shinkansen_transaction_id"`
				InteractivePaymentURL   string `json:"interactive_payment_url"`
			} `json:"transactions"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			ids := make(map[string]string, len(parsed.Transactions))
			urls := make(map[string]string)
			for _, t := range parsed.Transactions {
				ids[t.TransactionID] = t.ShinkansenTransactionID
				if t.InteractivePaymentURL != "" {
					urls[t.TransactionID] = t.InteractivePaymentURL
				}
			}
			return &HTTPResponse{
				HTTPStatusCode:         statusCode,
				TransactionIDs:         ids,
				InteractivePaymentURLs: urls,
				Errors:                 []ResponseError{},
			}
		}
	case http.StatusBadRequest:
		var parsed struct {
			Errors []ResponseError `json:"errors"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			return &HTTPResponse{
				HTTPStatusCode:         statusCode,
				TransactionIDs:         map[string]string{},
				InteractivePaymentURLs: map[string]string{},
				Errors:                 parsed.Errors,
			}
		}
	}
	return &HTTPResponse{
		HTTPStatusCode:         statusCode,
		TransactionIDs:         map[string]string{},
		InteractivePaymentURLs: map[string]string{},
		Errors:                 []ResponseError{},
	}
}
