package models

type CredentialRequest struct {
	APIKey string `json:"api_key"`
}

type CredentialResponse struct {
	Held    bool   `json:"held"`
	Message string `json:"message"`
}

type SelectJobRequest struct {
	JobID string `json:"job_id"`
}

type AnswersRequest struct {
	Answers []string `json:"answers"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type UploadResponse struct {
	OriginalName string `json:"original_name"`
	Characters   int    `json:"characters"`
}

type SkillsResponse struct {
	Skills string `json:"skills"`
}

type QuestionsResponse struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

type SessionResponse struct {
	ID            string   `json:"id"`
	JobID         string   `json:"job_id,omitempty"`
	HasResume     bool     `json:"has_resume"`
	Skills        string   `json:"skills,omitempty"`
	Questions     []string `json:"questions"`
	Answers       []string `json:"answers"`
	CredentialSet bool     `json:"credential_held"`
	ApplicationID string   `json:"application_id,omitempty"`
}

type ScoreItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    string `json:"score"`
}

type SubmitResponse struct {
	ApplicationID string      `json:"application_id"`
	JobID         string      `json:"selected_job"`
	TotalScore    int         `json:"total_score"`
	MaxScore      int         `json:"max_score"`
	Summary       string      `json:"summary"`
	Results       []ScoreItem `json:"results"`
	Warning       string      `json:"warning,omitempty"`
}

// NewSubmitResponse flattens a record for display.
func NewSubmitResponse(record *ApplicationRecord, summary, warning string) SubmitResponse {
	entries := record.Results.Entries()
	items := make([]ScoreItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ScoreItem{Question: e.Question, Answer: e.Answer, Score: e.DisplayScore()})
	}

	return SubmitResponse{
		ApplicationID: record.ID.String(),
		JobID:         record.JobID,
		TotalScore:    record.TotalScore,
		MaxScore:      record.MaxScore,
		Summary:       summary,
		Results:       items,
		Warning:       warning,
	}
}
