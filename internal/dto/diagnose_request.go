package dto

type DiagnoseRequest struct {
	Query       string `json:"query" binding:"required"`
	ServiceName string `json:"service_name,omitempty"`
	TimeRange   string `json:"time_range,omitempty" binding:"omitempty,oneof=5m 15m 30m 1h 3h 24h"`
}
