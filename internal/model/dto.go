package model

type PageInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Offset     int   `json:"-"`
	Total      int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

type FaultPage struct {
	Items []FaultReport `json:"items"`
	Page  PageInfo      `json:"page"`
}

type GroupCount struct {
	GroupKey string `gorm:"column:group_key" json:"group_key"`
	Count    int64  `gorm:"column:total" json:"count"`
}

// ChartSeries is the statistics view projection: parallel label/value arrays.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Counts []int64  `json:"counts"`
}

type Statistics struct {
	GroupBy  string       `json:"group_by"`
	Advisory string       `json:"advisory,omitempty"`
	Rows     []GroupCount `json:"rows"`
	Chart    ChartSeries  `json:"chart"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Meta struct {
	Categories     []Option `json:"categories"`
	Statuses       []Option `json:"statuses"`
	PageSizes      []int    `json:"page_sizes"`
	GroupByOptions []string `json:"group_by_options"`
}
