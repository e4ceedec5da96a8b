package adapter

import (
	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/api"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
)

func ToSessionResponse(sess sessionModel.SessionState, warning string) api.SessionResponse {
	files := sess.AvailableFiles
	if files == nil {
		files = []string{}
	}
	return api.SessionResponse{
		SessionId:      sess.Id,
		ArchiveName:    sess.ArchiveName,
		AvailableFiles: files,
		SelectedFile:   sess.SelectedFile,
		Warning:        warning,
		UpdatedAt:      sess.UpdatedAt,
	}
}

func ToAnswerResponse(sess sessionModel.SessionState, question string, out analysis.Outcome, answerHTML string) api.AnswerResponse {
	res := api.AnswerResponse{
		SourceFile: sess.SelectedFile,
		Question:   question,
		Answer:     out.Answer,
		AnswerHTML: answerHTML,
		LogId:      out.LogID,
	}
	if out.LogErr != nil {
		res.LogError = analysis.UserMessage(out.LogErr)
	}
	return res
}

func ToPreviewResponse(p analysis.Preview) api.PreviewResponse {
	rows := p.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return api.PreviewResponse{File: p.File, Columns: p.Columns, Rows: rows, Truncated: p.Truncated}
}

func ToInteractionListResponse(logs []interactionModel.InteractionLog) api.InteractionListResponse {
	out := make([]api.InteractionResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, api.InteractionResponse{
			Id:         l.Id,
			SourceFile: l.SourceFile,
			Question:   l.Question,
			Answer:     l.Answer,
			CreatedAt:  l.CreatedAt,
		})
	}
	return api.InteractionListResponse{Interactions: out}
}

func ToErrorKind(k analysis.Kind) api.ErrorKind {
	switch k {
	case analysis.KindValidation:
		return api.ErrorKindValidation
	case analysis.KindConnection:
		return api.ErrorKindConnection
	default:
		return api.ErrorKindProcessing
	}
}

func BadRequest(sessionId string, message string, code int, kind api.ErrorKind) api.ErrorResponse {
	return api.ErrorResponse{
		SessionId: sessionId,
		Error: &api.OutgoingError{
			Code:    code,
			Kind:    kind,
			Message: message,
			Retry:   kind == api.ErrorKindConnection,
		},
	}
}
