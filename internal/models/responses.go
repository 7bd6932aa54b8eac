package models

import "dataviz/internal/dataset"

// UploadResponse is returned after a dataset is loaded
type UploadResponse struct {
	Message     string   `json:"message"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
}

// StatusResponse is returned by /status endpoint
type StatusResponse struct {
	Loaded    bool     `json:"loaded"`
	Source    string   `json:"source,omitempty"`
	Rows      int      `json:"rows"`
	TotalRows int      `json:"total_rows"`
	Columns   []string `json:"columns"`
	Filtered  bool     `json:"filtered"`
	X         string   `json:"x,omitempty"`
	Y         string   `json:"y,omitempty"`
	ChartID   string   `json:"chart_id,omitempty"`
}

// ColumnType is the first-row classification of a column
type ColumnType struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ColumnSummary holds basic stats of the parsable values of a column
type ColumnSummary struct {
	Name   string  `json:"name"`
	Rows   int     `json:"rows"`
	Parsed int     `json:"parsed"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// CorrelationResult represents correlation between column pair
type CorrelationResult struct {
	Column1        string  `json:"column1"`
	Column2        string  `json:"column2"`
	Pairs          int     `json:"pairs"`
	Correlation    float64 `json:"correlation"`
	Spearman       float64 `json:"spearman"`
	Interpretation string  `json:"interpretation"`
}

// SelectionRequest carries the X and Y columns for /plot and /suggest
type SelectionRequest struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// PlotResponse wraps the live chart's declarative config
type PlotResponse struct {
	ChartID string      `json:"chart_id"`
	Kind    string      `json:"kind"`
	Config  interface{} `json:"config"`
}

// FilterRequest for /filter endpoint
type FilterRequest struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// FilterResponse for /filter and /filter/reset
type FilterResponse struct {
	Rows     int             `json:"rows"`
	Filtered bool            `json:"filtered"`
	Data     dataset.Dataset `json:"data"`
	Chart    *PlotResponse   `json:"chart,omitempty"`
}

// DBConnectRequest for /api/db/connect
type DBConnectRequest struct {
	URL      string `json:"url"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// DBLoadRequest for /api/db/load
type DBLoadRequest struct {
	Table string `json:"table"`
	Limit int    `json:"limit"`
}

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ColumnQuality holds completeness and diversity metrics for a column
type ColumnQuality struct {
	Name            string  `json:"name"`
	Rows            int     `json:"rows"`
	Filled          int     `json:"filled"`
	MissingRate     float64 `json:"missing_rate"`
	Distinct        int     `json:"distinct"`
	UniquenessRatio float64 `json:"uniqueness_ratio"`
	Entropy         float64 `json:"entropy"`
	LikelyKey       bool    `json:"likely_key"`
	Score           float64 `json:"score"` // 0-1
}
