package ledger

import "encoding/json"

// RawObject is a single ledger object as returned by the fullnode, content
// included when the read asked for it.
type RawObject struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"`
	Digest   string         `json:"digest"`
	Content  *ObjectContent `json:"content"`
}

// ObjectContent carries the structured payload of an object. DataType is
// "moveObject" for contract state; anything else (package definitions etc.)
// has no decodable fields.
type ObjectContent struct {
	DataType string                 `json:"dataType"`
	Type     string                 `json:"type"`
	Fields   map[string]interface{} `json:"fields"`
}

func (c *ObjectContent) IsMoveObject() bool {
	return c != nil && c.DataType == "moveObject"
}

// Event emitted by a finalized transaction.
type Event struct {
	Type       string                 `json:"type"`
	ParsedJSON map[string]interface{} `json:"parsedJson"`
}

// FinalityResult is what the node reports once a transaction is durable.
type FinalityResult struct {
	Digest  string          `json:"digest"`
	Effects json.RawMessage `json:"effects"`
}

type objectResponse struct {
	Data  *RawObject             `json:"data"`
	Error map[string]interface{} `json:"error"`
}

type ownedObjectsPage struct {
	Data        []objectResponse `json:"data"`
	HasNextPage bool             `json:"hasNextPage"`
	NextCursor  json.RawMessage  `json:"nextCursor"`
}

type eventsPage struct {
	Data []Event `json:"data"`
}

type executeResponse struct {
	Digest string `json:"digest"`
}
