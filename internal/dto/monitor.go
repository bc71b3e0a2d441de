package dto

// MonitorStatusResponse reports the monitor lifecycle state.
type MonitorStatusResponse struct {
	Running bool `json:"running"`
}
