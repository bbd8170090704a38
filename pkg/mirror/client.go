package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
)

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL(network)
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid mirror base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid mirror base URL: host is required")
	}
	baseURL = strings.TrimRight(parsedBaseURL.String(), "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
	}, nil
}

// DefaultBaseURL returns the public mirror node for a normalized network name.
func DefaultBaseURL(network string) string {
	switch network {
	case shared.NetworkMainnet:
		return "https://mainnet-public.mirrornode.hedera.com"
	case shared.NetworkPreviewnet:
		return "https://previewnet.mirrornode.hedera.com"
	default:
		return "https://testnet.mirrornode.hedera.com"
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetToken returns the mirror record of a token.
func (c *Client) GetToken(ctx context.Context, tokenID string) (TokenInfo, error) {
	var tokenInfo TokenInfo
	normalizedTokenID := strings.TrimSpace(tokenID)
	if normalizedTokenID == "" {
		return tokenInfo, fmt.Errorf("token ID is required")
	}

	path := fmt.Sprintf("/api/v1/tokens/%s", url.PathEscape(normalizedTokenID))
	if err := c.getJSON(ctx, path, &tokenInfo); err != nil {
		return tokenInfo, err
	}

	return tokenInfo, nil
}

// GetContract returns the mirror record of a contract.
func (c *Client) GetContract(ctx context.Context, contractID string) (ContractInfo, error) {
	var contractInfo ContractInfo
	normalizedContractID := strings.TrimSpace(contractID)
	if normalizedContractID == "" {
		return contractInfo, fmt.Errorf("contract ID is required")
	}

	path := fmt.Sprintf("/api/v1/contracts/%s", url.PathEscape(normalizedContractID))
	if err := c.getJSON(ctx, path, &contractInfo); err != nil {
		return contractInfo, err
	}

	return contractInfo, nil
}

// GetAccount returns the mirror record of an account.
func (c *Client) GetAccount(ctx context.Context, accountID string) (AccountInfo, error) {
	var accountInfo AccountInfo
	normalizedAccountID := strings.TrimSpace(accountID)
	if normalizedAccountID == "" {
		return accountInfo, fmt.Errorf("account ID is required")
	}

	path := fmt.Sprintf("/api/v1/accounts/%s", url.PathEscape(normalizedAccountID))
	if err := c.getJSON(ctx, path, &accountInfo); err != nil {
		return accountInfo, err
	}

	return accountInfo, nil
}

// GetAccountTokens lists the token relationships of an account, following
// pagination links. An empty tokenID lists every relationship.
func (c *Client) GetAccountTokens(
	ctx context.Context,
	accountID string,
	tokenID string,
) ([]TokenRelationship, error) {
	normalizedAccountID := strings.TrimSpace(accountID)
	if normalizedAccountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}

	values := url.Values{}
	if normalizedTokenID := strings.TrimSpace(tokenID); normalizedTokenID != "" {
		values.Set("token.id", normalizedTokenID)
	}

	endpoint := fmt.Sprintf("/api/v1/accounts/%s/tokens", url.PathEscape(normalizedAccountID))
	if encoded := values.Encode(); encoded != "" {
		endpoint = fmt.Sprintf("%s?%s", endpoint, encoded)
	}

	result := make([]TokenRelationship, 0)
	next := endpoint

	for next != "" {
		var page tokenRelationshipsResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}

		result = append(result, page.Tokens...)
		next = page.Links.Next
	}

	return result, nil
}

// GetAccountTokenBalance returns how many units of tokenID accountID holds.
func (c *Client) GetAccountTokenBalance(
	ctx context.Context,
	accountID string,
	tokenID string,
) (TokenHolding, error) {
	normalizedTokenID := strings.TrimSpace(tokenID)
	if normalizedTokenID == "" {
		return TokenHolding{}, fmt.Errorf("token ID is required")
	}

	relationships, err := c.GetAccountTokens(ctx, accountID, normalizedTokenID)
	if err != nil {
		return TokenHolding{}, err
	}

	holding := TokenHolding{
		AccountID: strings.TrimSpace(accountID),
		TokenID:   normalizedTokenID,
	}
	for _, relationship := range relationships {
		if relationship.TokenID != normalizedTokenID {
			continue
		}
		holding.Balance = relationship.Balance
		holding.Associated = true
		break
	}

	return holding, nil
}

// GetTransaction returns the first mirror record for a transaction ID. Both
// the SDK form (0.0.2@1700000000.000000001) and the mirror form
// (0.0.2-1700000000-000000001) are accepted.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	normalized := NormalizeTransactionID(transactionID)
	if normalized == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	var response transactionsResponse
	path := fmt.Sprintf("/api/v1/transactions/%s", url.PathEscape(normalized))
	if err := c.getJSON(ctx, path, &response); err != nil {
		return nil, err
	}

	if len(response.Transactions) == 0 {
		return nil, nil
	}

	return &response.Transactions[0], nil
}

// NormalizeTransactionID converts an SDK transaction ID string into the
// dash-separated form the mirror node expects.
func NormalizeTransactionID(transactionID string) string {
	trimmed := strings.TrimSpace(transactionID)
	if trimmed == "" {
		return ""
	}

	// Drop scheduled/nonce suffixes the SDK appends after a '?' or '/'.
	if index := strings.IndexAny(trimmed, "?/"); index >= 0 {
		trimmed = trimmed[:index]
	}

	payer, validStart, found := strings.Cut(trimmed, "@")
	if !found {
		return trimmed
	}
	return payer + "-" + strings.Replace(validStart, ".", "-", 1)
}

func (c *Client) getJSON(ctx context.Context, pathOrURL string, target any) error {
	requestURL := c.resolveURL(pathOrURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mirror node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read mirror node response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &StatusError{
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode mirror node response: %w", err)
	}

	return nil
}

func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}

	path := pathOrURL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}
