package api

import "github.com/samcharles93/nrrd/internal/inspect"

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type HeaderResponse struct {
	Object string `json:"object"`
	inspect.Summary
}

type PathsResponse struct {
	Object string   `json:"object"`
	Path   string   `json:"path"`
	Paths  []string `json:"paths"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Root    string `json:"root"`
}
