package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tfbig "github.com/tokenflowlabs/tokenflow/internal/big"
	tfhttp "github.com/tokenflowlabs/tokenflow/internal/http"
)

// ErrRateLimited indicates the API rejected the call because of its request
// rate limit; the call can be retried after backing off.
var ErrRateLimited = errors.New("rate limited by block explorer API")

// defaultTokenDecimals is assumed when the API omits the tokenDecimal field.
const defaultTokenDecimals = 18

// HTTPClient implements Client against an Etherscan-compatible HTTP API.
type HTTPClient struct {
	doer   tfhttp.Doer
	apiURL string
	apiKey string
}

// NewHTTPClient returns a Client that uses the provided HTTP client to call
// the API at the given base URL, authenticating with the given key.
func NewHTTPClient(doer tfhttp.Doer, apiURL string, apiKey string) *HTTPClient {
	return &HTTPClient{doer: doer, apiURL: apiURL, apiKey: apiKey}
}

// apiEnvelope is the {status, message, result} wrapper around every
// Etherscan response. result is an array on success and, on failure, a
// string describing the error.
type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type apiTokenTransfer struct {
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
	ContractAddress string `json:"contractAddress"`
}

// GetTokenTransfers fetches one page of token transfers via the
// module=account&action=tokentx query, sorted ascending by time.
func (c *HTTPClient) GetTokenTransfers(
	ctx context.Context,
	accountAddress string,
	contractAddress string,
	page int,
	offset int,
) ([]TokenTransfer, error) {
	if c.doer == nil {
		return nil, errors.New("http client is nil")
	}

	reqURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API URL '%s': %w", c.apiURL, err)
	}

	q := reqURL.Query()
	q.Set("module", "account")
	q.Set("action", "tokentx")
	q.Set("address", accountAddress)
	q.Set("contractaddress", contractAddress)
	q.Set("page", strconv.Itoa(page))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("sort", "asc")
	q.Set("apikey", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for fetching token transfers: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for fetching token transfers: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("block explorer API returned status %d", resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode token transfer response: %w", err)
	}

	if envelope.Status != "1" {
		return nil, classifyAPIFailure(&envelope)
	}

	var rows []apiTokenTransfer
	if err := json.Unmarshal(envelope.Result, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode token transfer result: %w", err)
	}

	transfers := make([]TokenTransfer, 0, len(rows))
	for _, row := range rows {
		parsed, err := row.toTokenTransfer()
		if err != nil {
			return nil, err
		}

		transfers = append(transfers, *parsed)
	}

	return transfers, nil
}

// classifyAPIFailure maps a status=0 envelope to either "no more rows"
// (nil error), a rate-limit rejection, or a hard API error.
func classifyAPIFailure(envelope *apiEnvelope) error {
	var resultText string
	// errors carry the result as a string; an empty page carries an array
	_ = json.Unmarshal(envelope.Result, &resultText)

	if strings.Contains(strings.ToLower(resultText), "rate limit") {
		return ErrRateLimited
	}

	if strings.EqualFold(envelope.Message, "No transactions found") {
		return nil
	}

	trimmedResult := strings.TrimSpace(string(envelope.Result))
	if trimmedResult == "" || trimmedResult == "[]" || trimmedResult == "null" || trimmedResult == `""` {
		return nil
	}

	return fmt.Errorf("block explorer API error: %s: %s", envelope.Message, resultText)
}

func (row *apiTokenTransfer) toTokenTransfer() (*TokenTransfer, error) {
	unixSeconds, err := strconv.ParseInt(row.TimeStamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"parse timestamp %q for transaction hash %q: %w",
			row.TimeStamp,
			row.Hash,
			err,
		)
	}

	amount, err := tfbig.BigIntFromString(row.Value)
	if err != nil {
		return nil, fmt.Errorf(
			"parse transfer value %q for transaction hash %q: %w",
			row.Value,
			row.Hash,
			err,
		)
	}

	decimals := defaultTokenDecimals
	if row.TokenDecimal != "" {
		decimals, err = strconv.Atoi(row.TokenDecimal)
		if err != nil {
			return nil, fmt.Errorf(
				"parse token decimals %q for transaction hash %q: %w",
				row.TokenDecimal,
				row.Hash,
				err,
			)
		}
	}

	return &TokenTransfer{
		TransactionHash: row.Hash,
		FromAddress:     row.From,
		ToAddress:       row.To,
		Amount:          amount,
		TokenSymbol:     row.TokenSymbol,
		TokenDecimals:   decimals,
		ContractAddress: row.ContractAddress,
		TransferTime:    time.Unix(unixSeconds, 0).UTC(),
	}, nil
}
