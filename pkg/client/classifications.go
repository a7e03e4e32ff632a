package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Input formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Confidence levels reported by the service.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// SubmitRequest carries one register extract.  Set exactly one of Content
// and ObjectKey.
type SubmitRequest struct {
	ID        string `json:"id,omitempty"`
	Format    string `json:"format,omitempty"`
	Content   string `json:"content,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
}

// Event is one recorded legal act of the register.
type Event struct {
	Seq              int    `json:"seq"`
	Section          string `json:"section"`
	Rank             *int   `json:"rank,omitempty"`
	StatedPurpose    string `json:"stated_purpose"`
	Kind             string `json:"event_kind"`
	AcceptedOn       string `json:"accepted_on,omitempty"`
	ReceiptReference string `json:"receipt_reference,omitempty"`
	CauseText        string `json:"cause_text,omitempty"`
	Holder           string `json:"holder,omitempty"`
	Amount           *int64 `json:"amount,omitempty"`
	IsCancelled      bool   `json:"is_cancelled"`
	SourceText       string `json:"source_text"`
}

// Right is a classified event with the reason for its bucket.
type Right struct {
	Event  Event  `json:"event"`
	Reason string `json:"reason"`
}

// HardStop is one fired hard-stop rule.
type HardStop struct {
	RuleID      string `json:"rule_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Event       Event  `json:"event"`
}

// Document is the normalized register.
type Document struct {
	Events          []Event  `json:"events"`
	ParseConfidence string   `json:"parse_confidence"`
	ParseWarnings   []string `json:"parse_warnings"`
	Source          string   `json:"source"`
}

// Result is the classification of one document.
type Result struct {
	Document         Document   `json:"document"`
	CancellationBase *Event     `json:"cancellation_base_event"`
	BaseRule         string     `json:"base_rule"`
	BaseReason       string     `json:"base_reason"`
	Extinguished     []Right    `json:"extinguished"`
	Surviving        []Right    `json:"surviving"`
	Uncertain        []Right    `json:"uncertain"`
	HardStops        []HardStop `json:"hard_stops"`
	HasHardStop      bool       `json:"has_hard_stop"`
	Confidence       string     `json:"confidence"`
	Warnings         []string   `json:"warnings"`
	Summary          string     `json:"summary"`
}

// Classification is a stored classification record.
type Classification struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	InputHash string    `json:"input_hash"`
	ObjectKey string    `json:"object_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Cached    bool      `json:"cached"`
	Result    Result    `json:"result"`
}

// ---------------------------------------------------------------------------
// ClassificationsClient
// ---------------------------------------------------------------------------

const classificationsPath = "/api/v1/classifications"

// ClassificationsClient wraps the classification endpoints.
type ClassificationsClient struct {
	client *Client
}

// Submit classifies req.  created is false when the server answered from
// its cache of identical documents.
func (c *ClassificationsClient) Submit(ctx context.Context, req *SubmitRequest) (rec *Classification, created bool, err error) {
	if req == nil || (req.Content == "" && req.ObjectKey == "") {
		return nil, false, ErrInvalidRequest
	}
	rec = &Classification{}
	status, err := c.client.do(ctx, http.MethodPost, classificationsPath, req, rec)
	if err != nil {
		return nil, false, err
	}
	return rec, status == http.StatusCreated, nil
}

// Get fetches a stored classification.
func (c *ClassificationsClient) Get(ctx context.Context, id string) (*Classification, error) {
	if id == "" {
		return nil, ErrInvalidRequest
	}
	rec := &Classification{}
	if _, err := c.client.do(ctx, http.MethodGet, classificationsPath+"/"+url.PathEscape(id), nil, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

//Personal.AI order the ending
