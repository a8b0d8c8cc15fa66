package generate

import "time"

// GenerateRequest accepts the loosely-typed shapes clients send: list entries
// may be plain strings or {name|title|artist|genre} objects.
type GenerateRequest struct {
	Artists     []interface{} `json:"artists"`
	Songs       []interface{} `json:"songs"`
	Genres      []interface{} `json:"genres"`
	Animal      string        `json:"animal"`
	Creative    bool          `json:"creative"`
	BaseImage   string        `json:"base_image"`
	Mode        string        `json:"mode"`
	Model       string        `json:"model"`
	Transparent bool          `json:"transparent"`
}

// normalizedRequest is the cleaned form the service works with.
type normalizedRequest struct {
	Artists     []string
	Songs       []string
	Genres      []string
	Animal      string
	Creative    bool
	BasePath    string
	Mode        string
	Model       string
	Transparent bool
}

type GenerateResponse struct {
	ImageURL string `json:"image_url"`
	FilePath string `json:"file_path"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Job tracks one async generation request.
type Job struct {
	JobID       string     `json:"job_id"`
	Status      string     `json:"status"`
	Stage       string     `json:"stage,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	FilePath    string     `json:"file_path,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	request normalizedRequest
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// jobQueueKey is the Redis list the async worker watches.
const jobQueueKey = "rhythmoji:jobs"
