// Package messages holds the user-facing texts shared by the HTTP API and the CLI.
package messages

const (
	QuotaExceeded        = "You have exceeded your API quota. Please check your billing and plan details."
	QuotaExceededShort   = "Error: API quota exceeded"
	SkillExtractionError = "Error in skill extraction"
	QuestionsError       = "An error occurred while generating questions."
	EvaluationError      = "An error occurred while evaluating the answers."

	CredentialRequired = "Please set your Gemini API Key before proceeding."
	CredentialInvalid  = "Please enter a valid API key."
	CredentialSaved    = "API Key saved successfully!"
	CredentialHeld     = "API Key is saved in session."
	CredentialMissing  = "No API Key is set for this session."

	EmptyExtraction = "No text could be extracted from the uploaded résumé."
	NoJobs          = "No job openings available at the moment. Please check back later."
	MissingFields   = "Please fill in all fields!"
	JobSubmitted    = "Job submitted successfully!"
	ResultsSaved    = "Application and Exam results saved successfully!"
	ResultsNotSaved = "The application could not be saved. Submit again to retry."
)
