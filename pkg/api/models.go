package api

// TaskRequest is the body of POST /submit. Field names are fixed by the
// evaluation server's contract.
type TaskRequest struct {
	Email         string       `json:"email"`
	Secret        string       `json:"secret"`
	Task          string       `json:"task"`
	Round         int          `json:"round"`
	Nonce         string       `json:"nonce"`
	Brief         string       `json:"brief"`
	Checks        []string     `json:"checks"`
	EvaluationURL string       `json:"evaluation_url"`
	Attachments   []Attachment `json:"attachments"`

	// RepoURL carries the round-1 repository into a round-2 request. When
	// absent the repository is re-derived from the task id.
	RepoURL string `json:"repo_url,omitempty"`
}

// Attachment references extra task input, either as a base64 data URI or as
// a URL to fetch.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SubmitResponse acknowledges a request before any background work runs.
type SubmitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Email   string `json:"email"`
	Task    string `json:"task"`
	Round   int    `json:"round"`
}

// Notification is posted to the caller's evaluation URL when a task
// finishes. Error is set instead of the repo fields when the pipeline fails.
type Notification struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url,omitempty"`
	CommitSHA string `json:"commit_sha,omitempty"`
	PagesURL  string `json:"pages_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// TaskCounters reports background pipeline activity since process start.
type TaskCounters struct {
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// InfoResponse describes the service, its endpoints, and which optional
// credentials are configured. Values are presence booleans, never secrets.
type InfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Endpoints   map[string]string `json:"endpoints"`
	Credentials map[string]bool   `json:"credentials"`
	Tasks       TaskCounters      `json:"tasks"`
}

// PagesCheckRequest is the query of GET /pages/check.
type PagesCheckRequest struct {
	URL string `schema:"url,required"`
}

type PagesCheckResponse struct {
	URL        string `json:"url"`
	Ready      bool   `json:"ready"`
	StatusCode int    `json:"status_code,omitempty"`
}
