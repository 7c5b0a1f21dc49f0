package dto

// DashboardResponse aggregates pipeline reporting figures for the overview
// screens. All values are derived reads; the response is cacheable.
type DashboardResponse struct {
	TendersByStatus       map[string]int64 `json:"tenders_by_status"`
	OpportunitiesByStage  map[string]int64 `json:"opportunities_by_stage"`
	TotalPipelineValue    float64          `json:"total_pipeline_value"`
	WinRate               float64          `json:"win_rate"`
	AverageWinProbability int              `json:"average_win_probability"`
	GeneratedAt           string           `json:"generated_at"`
}
