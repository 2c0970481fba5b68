package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/config"
	"alfredoptarigan/skill-profiler/internal/messages"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/secrets"
	"alfredoptarigan/skill-profiler/internal/server"
	"alfredoptarigan/skill-profiler/internal/services"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to a job opening and take the generated interview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return apply(cmd)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().String("api-key-file", "", "file holding the generation API key (prompted for when unset)")
	applyCmd.Flags().StringP("resume", "r", "", "path to the résumé PDF (prompted for when unset)")
}

func apply(cmd *cobra.Command) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := server.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	keyFile, _ := cmd.Flags().GetString("api-key-file")
	resume, _ := cmd.Flags().GetString("resume")

	apiKey, err := resolveAPIKey(cfg, keyFile)
	if err != nil {
		logger.Debug("no api key configured, prompting", zap.Error(err))
	}

	flow := &applyFlow{
		jobs:     container.Jobs,
		workflow: container.Workflow,
		uploads:  container.Uploads,
		in:       promptAsker{},
		out:      cmd.OutOrStdout(),
		logger:   logger,
	}

	_, err = flow.run(ctx, applyOptions{apiKey: apiKey, resumePath: resume})
	if err != nil {
		return errors.New(describe(err))
	}
	return nil
}

// resolveAPIKey prefers the key file, then the key configured for the provider.
func resolveAPIKey(cfg *config.Config, file string) (string, error) {
	src := secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  file,
	}
	if cfg.Generation.Provider == services.ProviderOpenRouter {
		src.Name = "openrouter api key"
		src.Value = cfg.OpenRouter.APIKey
	}
	return secrets.Load(src)
}

type applyOptions struct {
	apiKey     string
	resumePath string
}

type applyFlow struct {
	jobs     services.JobService
	workflow services.WorkflowService
	uploads  services.UploadService
	in       asker
	out      io.Writer
	logger   *zap.Logger
}

// run walks one candidate session from job selection to the stored result.
// A nil record with a nil error means there was nothing to apply to.
func (f *applyFlow) run(ctx context.Context, opts applyOptions) (*models.ApplicationRecord, error) {
	jobs, err := f.jobs.List()
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(f.out, messages.NoJobs)
		return nil, nil
	}

	labels := make([]string, len(jobs))
	for i, job := range jobs {
		labels[i] = job.Label()
	}

	index, err := f.in.Select("Select a job opening", labels)
	if err != nil {
		return nil, err
	}
	job := jobs[index]
	fmt.Fprintf(f.out, "\n%s\n%s\n\n", job.Label(), job.Description)

	session, err := f.workflow.StartSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.workflow.EndSession(context.WithoutCancel(ctx), session.ID); err != nil {
			f.logger.Warn("ending session", zap.Error(err))
		}
	}()

	if err := f.setCredential(ctx, session.ID, opts.apiKey); err != nil {
		return nil, err
	}

	if _, err := f.workflow.SelectJob(ctx, session.ID, job.ID); err != nil {
		return nil, err
	}

	path := opts.resumePath
	err = f.retry("Try another résumé", func() error {
		err := f.uploadResume(ctx, session.ID, path)
		path = ""
		return err
	})
	if err != nil {
		return nil, err
	}

	err = f.retry("Retry skill extraction", func() error {
		extracted, err := f.workflow.ExtractSkills(ctx, session.ID)
		if err != nil {
			return stepError(messages.SkillExtractionError, err)
		}
		session = extracted
		return nil
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f.out, "Extracted skills: %s\n\n", session.Skills)

	err = f.retry("Retry question generation", func() error {
		generated, err := f.workflow.GenerateQuestions(ctx, session.ID)
		if err != nil {
			return stepError(messages.QuestionsError, err)
		}
		session = generated
		return nil
	})
	if err != nil {
		return nil, err
	}

	answers := make([]string, len(session.Questions))
	for i, question := range session.Questions {
		fmt.Fprintln(f.out, question)
		answer, err := f.in.Ask(fmt.Sprintf("Answer %d", i+1), nil)
		if err != nil {
			return nil, err
		}
		answers[i] = answer
	}

	if _, err := f.workflow.SetAnswers(ctx, session.ID, answers); err != nil {
		return nil, err
	}

	return f.submit(ctx, session.ID)
}

func (f *applyFlow) setCredential(ctx context.Context, sessionID, apiKey string) error {
	for {
		if apiKey == "" {
			key, err := f.in.AskSecret("API Key")
			if err != nil {
				return err
			}
			apiKey = key
		}

		err := f.workflow.SetCredential(ctx, sessionID, apiKey)
		if errors.Is(err, services.ErrInvalidCredential) {
			fmt.Fprintln(f.out, messages.CredentialInvalid)
			apiKey = ""
			continue
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(f.out, messages.CredentialSaved)
		return nil
	}
}

func (f *applyFlow) uploadResume(ctx context.Context, sessionID, path string) error {
	if path == "" {
		p, err := f.in.Ask("Résumé PDF path", notBlank)
		if err != nil {
			return err
		}
		path = p
	}

	data, err := f.uploads.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = f.workflow.UploadResume(ctx, sessionID, data)
	return err
}

// submit evaluates and stores the application. A failed write or a quota stop
// can be retried; a retried quota stop only scores the missing answers.
func (f *applyFlow) submit(ctx context.Context, sessionID string) (*models.ApplicationRecord, error) {
	for {
		record, err := f.workflow.Submit(ctx, sessionID)

		var persistErr *services.PersistenceError
		if errors.As(err, &persistErr) {
			fmt.Fprintln(f.out, messages.ResultsNotSaved)
			retry, askErr := f.in.Confirm("Retry saving")
			if askErr != nil {
				return nil, askErr
			}
			if retry {
				continue
			}
			return nil, err
		}

		if record != nil {
			printRecord(f.out, record)
		}

		if errors.Is(err, services.ErrQuotaExceeded) && record != nil {
			fmt.Fprintln(f.out, describe(err))
			retry, askErr := f.in.Confirm("Retry evaluation")
			if askErr != nil {
				return nil, askErr
			}
			if retry {
				continue
			}
			return record, err
		}
		if err != nil {
			return record, err
		}

		fmt.Fprintln(f.out, messages.ResultsSaved)
		return record, nil
	}
}

// retry repeats step while it fails recoverably and the candidate agrees.
func (f *applyFlow) retry(label string, step func() error) error {
	for {
		err := step()
		if err == nil || !recoverable(err) {
			return err
		}

		fmt.Fprintln(f.out, describe(err))
		again, askErr := f.in.Confirm(label)
		if askErr != nil {
			return askErr
		}
		if !again {
			return err
		}
		f.logger.Debug("retrying step", zap.String("step", label), zap.Error(err))
	}
}

// recoverable reports whether trying the step again can succeed.
func recoverable(err error) bool {
	var genErr *services.GenerationError
	return errors.As(err, &genErr) ||
		errors.Is(err, services.ErrQuotaExceeded) ||
		errors.Is(err, services.ErrEmptyExtraction) ||
		errors.Is(err, services.ErrInvalidUpload) ||
		errors.Is(err, fs.ErrNotExist)
}

func printRecord(w io.Writer, record *models.ApplicationRecord) {
	fmt.Fprintf(w, "\n%s\n", record.Summary())
	for _, entry := range record.Results.Entries() {
		fmt.Fprintf(w, "  %s  ->  %s\n", entry.Question, entry.DisplayScore())
	}
	fmt.Fprintf(w, "Application ID: %s\n", record.ID)
}

// stepError prefixes generation failures with the text shown for that step.
func stepError(text string, err error) error {
	var genErr *services.GenerationError
	if errors.As(err, &genErr) {
		return fmt.Errorf("%s: %w", text, err)
	}
	return err
}

// describe turns workflow errors into the texts candidates see.
func describe(err error) string {
	switch {
	case errors.Is(err, services.ErrQuotaExceeded):
		return messages.QuotaExceeded
	case errors.Is(err, services.ErrMissingCredential):
		return messages.CredentialRequired
	case errors.Is(err, services.ErrEmptyExtraction):
		return messages.EmptyExtraction
	}
	return err.Error()
}
