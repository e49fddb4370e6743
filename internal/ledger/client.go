package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	methodGetObject       = "sui_getObject"
	methodGetOwnedObjects = "suix_getOwnedObjects"
	methodExecuteTx       = "sui_executeTransactionBlock"
	methodGetTx           = "sui_getTransactionBlock"
	methodQueryEvents     = "suix_queryEvents"

	finalityPollInterval = 500 * time.Millisecond
)

// ErrObjectNotFound is returned when the node answers the read but reports
// no object under the requested id.
var ErrObjectNotFound = errors.New("object not found")

type Client struct {
	logger     *zap.Logger
	url        string
	httpClient *http.Client
}

func NewClient(logger *zap.Logger, fullnodeURL string) *Client {
	return &Client{
		logger:     logger,
		url:        fullnodeURL,
		httpClient: &http.Client{},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.New("failed to marshal the RPC request: " + err.Error())
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return errors.New("failed to build the RPC request: " + err.Error())
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.New("failed to connect to the fullnode: " + err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return fmt.Errorf("fullnode responded with status %d: %s", response.StatusCode, response.Status)
	}

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return errors.New("error reading the response: " + err.Error())
	}

	var envelope rpcResponse
	if err := json.Unmarshal(responseBody, &envelope); err != nil {
		return errors.New("error reading the response: " + err.Error())
	}
	if envelope.Error != nil {
		return fmt.Errorf("RPC error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return errors.New("error decoding the result: " + err.Error())
	}

	return nil
}

// GetObject fetches a single ledger object with its content.
func (c *Client) GetObject(ctx context.Context, id string) (RawObject, error) {

	var resp objectResponse
	params := []interface{}{
		id,
		map[string]interface{}{"showContent": true},
	}
	if err := c.call(ctx, methodGetObject, params, &resp); err != nil {
		return RawObject{}, err
	}
	if resp.Data == nil {
		return RawObject{}, ErrObjectNotFound
	}

	return *resp.Data, nil
}

// GetOwnedObjects fetches all objects of the given struct type owned by the
// address, following pagination to exhaustion.
func (c *Client) GetOwnedObjects(ctx context.Context, owner string, structType string) ([]RawObject, error) {

	var objects []RawObject
	var cursor json.RawMessage

	for {
		query := map[string]interface{}{
			"filter":  map[string]interface{}{"StructType": structType},
			"options": map[string]interface{}{"showContent": true},
		}
		params := []interface{}{owner, query}
		if cursor != nil {
			params = append(params, cursor)
		}

		var page ownedObjectsPage
		if err := c.call(ctx, methodGetOwnedObjects, params, &page); err != nil {
			return nil, err
		}

		for _, entry := range page.Data {
			if entry.Data == nil {
				continue
			}
			objects = append(objects, *entry.Data)
		}

		if !page.HasNextPage {
			return objects, nil
		}
		cursor = page.NextCursor
	}
}

// ExecuteTransaction broadcasts signed transaction bytes and returns the
// transaction digest. It does not wait for finality.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes string, signature string) (string, error) {

	var resp executeResponse
	params := []interface{}{txBytes, []string{signature}}
	if err := c.call(ctx, methodExecuteTx, params, &resp); err != nil {
		return "", err
	}
	if resp.Digest == "" {
		return "", errors.New("node accepted the transaction but returned no digest")
	}

	c.logger.Debug("transaction broadcast", zap.String("digest", resp.Digest))
	return resp.Digest, nil
}

// WaitForTransaction blocks until the transaction under digest is finalized
// and queryable, polling the node. It returns when the node serves the
// transaction or the context is done.
func (c *Client) WaitForTransaction(ctx context.Context, digest string) (FinalityResult, error) {

	params := []interface{}{
		digest,
		map[string]interface{}{"showEffects": true},
	}

	for {
		var result FinalityResult
		err := c.call(ctx, methodGetTx, params, &result)
		if err == nil && result.Digest != "" {
			return result, nil
		}
		if err != nil {
			c.logger.Debug("transaction not yet queryable", zap.String("digest", digest), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return FinalityResult{}, errors.New("gave up waiting for finality: " + ctx.Err().Error())
		case <-time.After(finalityPollInterval):
		}
	}
}

// QueryEvents returns the events emitted by a finalized transaction.
func (c *Client) QueryEvents(ctx context.Context, digest string) ([]Event, error) {

	var page eventsPage
	params := []interface{}{
		map[string]interface{}{"Transaction": digest},
	}
	if err := c.call(ctx, methodQueryEvents, params, &page); err != nil {
		return nil, err
	}

	return page.Data, nil
}
