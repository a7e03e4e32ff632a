package registry

import "time"

// ClassificationRecord is a stored classification: the result plus the
// identity of the input that produced it.
type ClassificationRecord struct {
	ID        string               `json:"id"`
	RequestID string               `json:"request_id,omitempty"`
	InputHash string               `json:"input_hash"`
	ObjectKey string               `json:"object_key,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Cached    bool                 `json:"cached"`
	Result    ClassificationResult `json:"result"`
}

// BaseKind returns the kind of the cancellation base, or "" when none was
// determined.
func (r ClassificationRecord) BaseKind() string {
	if r.Result.CancellationBase == nil {
		return ""
	}
	return string(r.Result.CancellationBase.Kind)
}

//Personal.AI order the ending
