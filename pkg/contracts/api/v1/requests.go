// Package api contains the request contracts of the HTTP API.
// Version v1 represents the current stable API version.
package api

// ThresholdsRequest overrides the quadrant cut points. Missing values
// fall back to the class means.
type ThresholdsRequest struct {
	Presence *float64 `json:"presence,omitempty" query:"presence" validate:"omitempty,min=0,max=1"`
	Homework *float64 `json:"homework,omitempty" query:"homework" validate:"omitempty,min=0,max=1"`
}

// RiskListRequest selects the call list of one quadrant.
type RiskListRequest struct {
	ThresholdsRequest
	Category string `json:"category" param:"category" validate:"required,oneof=critical tourist self_taught ideal"`
}

// ChartRequest selects a server-rendered chart.
type ChartRequest struct {
	ThresholdsRequest
	Chart   string `json:"chart" param:"chart" validate:"required,oneof=trend correlation participation quadrant student"`
	Student string `json:"student,omitempty" query:"student" validate:"required_if=Chart student"`
}

// PanelRequest filters the panel rows.
type PanelRequest struct {
	Student string `json:"student,omitempty" query:"student"`
	Session int    `json:"session,omitempty" query:"session" validate:"omitempty,min=1"`
}

// UploadRequest describes a gradebook upload. The file travels in the
// multipart field "file".
type UploadRequest struct {
	FileName string `json:"file_name" validate:"required,filename"`
}
