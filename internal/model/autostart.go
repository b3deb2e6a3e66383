package model

// InstanceRef identifies one instance inside an auto-start result.
type InstanceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InstanceFailure is a per-instance start failure inside an auto-start cycle.
type InstanceFailure struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// AutoStartResult is the outcome of one auto-start cycle. It is produced once
// per cycle and not retained between cycles. Error is set only when the
// listing itself failed; per-instance failures land in Failed.
type AutoStartResult struct {
	Started      []InstanceRef     `json:"started"`
	Failed       []InstanceFailure `json:"failed"`
	TotalStopped int               `json:"total_stopped"`
	Error        string            `json:"error,omitempty"`
}
