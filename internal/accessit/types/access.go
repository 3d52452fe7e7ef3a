package types

// ValidateResponse answers a scan of a credential code.
type ValidateResponse struct {
	Granted bool   `json:"granted"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

// StatusResponse answers a poll for a previously issued decision.  A denied
// entry also reports granted=false; only the message distinguishes it from a
// still-pending one.
type StatusResponse struct {
	Granted bool   `json:"granted"`
	Message string `json:"message"`
}

// ApproveResponse acknowledges an administrative override.
type ApproveResponse struct {
	OK bool `json:"ok"`
}
