package api

import "time"

type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindProcessing ErrorKind = "processing"
	ErrorKindConnection ErrorKind = "connection"
)

type ErrorResponse struct {
	SessionId string         `json:"session_id,omitempty" example:"7f1c0a4e-9a55-4c1e-b3e5-2a0a5f0f3c11"`
	Error     *OutgoingError `json:"error"`
}

type OutgoingError struct {
	Code    int       `json:"code" example:"400"`
	Kind    ErrorKind `json:"kind" example:"validation"`
	Message string    `json:"message" example:"Please type a question."`
	Retry   bool      `json:"can_retry" example:"false"`
}

type SessionResponse struct {
	SessionId      string    `json:"session_id" example:"7f1c0a4e-9a55-4c1e-b3e5-2a0a5f0f3c11"`
	ArchiveName    string    `json:"archive_name,omitempty" example:"sales_2024.zip"`
	AvailableFiles []string  `json:"available_files" example:"sales.csv,costs.csv"`
	SelectedFile   string    `json:"selected_file,omitempty" example:"sales.csv"`
	Warning        string    `json:"warning,omitempty" example:"No .csv file found in the uploaded .zip."`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AnswerResponse struct {
	SourceFile string `json:"source_file" example:"sales.csv"`
	Question   string `json:"question" example:"total rows?"`
	Answer     string `json:"answer" example:"42"`
	AnswerHTML string `json:"answer_html" example:"<p>42</p>"`
	LogId      string `json:"log_id,omitempty" example:"Qm9uZGFnZQ"`
	LogError   string `json:"log_error,omitempty"`
}

type PreviewResponse struct {
	File      string     `json:"file" example:"sales.csv"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated"`
}

type InteractionResponse struct {
	Id         string    `json:"id"`
	SourceFile string    `json:"source_file" example:"sales.csv"`
	Question   string    `json:"question" example:"total rows?"`
	Answer     string    `json:"answer" example:"42"`
	CreatedAt  time.Time `json:"created_at"`
}

type InteractionListResponse struct {
	Interactions []InteractionResponse `json:"interactions"`
}

// requests---------------------

type SelectionRequest struct {
	File string `json:"file" validate:"required,max=1024"`
}

type QuestionRequest struct {
	Question string `json:"question" validate:"required,max=8000"`
}
