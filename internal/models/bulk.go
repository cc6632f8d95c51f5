package models

// BulkResult reports a sequential bulk operation. Failures do not roll back
// earlier successes.
type BulkResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Record adds the outcome for id.
func (r *BulkResult) Record(id string, err error) {
	if err == nil {
		r.Succeeded++
		return
	}
	r.Failed++
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[id] = err.Error()
}
