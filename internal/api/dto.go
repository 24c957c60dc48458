package api

import "altrec/backend/internal/recommend"

// RecommendRequest is the POST /api/recommend body.
type RecommendRequest struct {
	URL       string `json:"url" binding:"required"`
	ShareText string `json:"share_text"`
	Device    string `json:"device"`
	UserID    string `json:"user_id"`
	Refresh   bool   `json:"refresh"`
}

// Query converts the request into a pipeline query.
func (r RecommendRequest) Query() recommend.Query {
	return recommend.Query{
		URL:       r.URL,
		ShareText: r.ShareText,
		Device:    r.Device,
		UserID:    r.UserID,
		Refresh:   r.Refresh,
	}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error  string         `json:"error"`
	Detail map[string]any `json:"detail,omitempty"`
}

// healthResponse is the GET /api/healthz body.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// configResponse exposes the non-secret runtime settings.
type configResponse struct {
	Environment   string `json:"environment"`
	Model         string `json:"model"`
	Credentials   int    `json:"credentials"`
	SearchTimeout string `json:"search_timeout"`
}
