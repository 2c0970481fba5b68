package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"alfredoptarigan/skill-profiler/internal/messages"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/repositories"
	"alfredoptarigan/skill-profiler/internal/services"
)

const (
	flagCompany     = "company"
	flagLocation    = "location"
	flagRole        = "role"
	flagDescription = "description"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job openings",
}

var jobsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Publish a job opening; missing fields are prompted for",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobs, err := newJobService()
		if err != nil {
			return err
		}
		return addJob(cmd.OutOrStdout(), jobs, promptAsker{}, jobFromFlags(cmd.Flags()))
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job openings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobs, err := newJobService()
		if err != nil {
			return err
		}
		return listJobs(cmd.OutOrStdout(), jobs)
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one job opening",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := newJobService()
		if err != nil {
			return err
		}
		job, err := jobs.Get(args[0])
		if err != nil {
			return err
		}
		printJob(cmd.OutOrStdout(), job)
		return nil
	},
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Change fields of a job opening",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := newJobService()
		if err != nil {
			return err
		}
		job, err := jobs.Update(args[0], updateFromFlags(cmd.Flags()))
		if err != nil {
			return err
		}
		printJob(cmd.OutOrStdout(), job)
		return nil
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Remove a job opening",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := newJobService()
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := promptAsker{}.Confirm(fmt.Sprintf("Delete %s", args[0]))
			if err != nil || !ok {
				return err
			}
		}

		if err := jobs.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsAddCmd, jobsListCmd, jobsShowCmd, jobsUpdateCmd, jobsDeleteCmd)

	for _, cmd := range []*cobra.Command{jobsAddCmd, jobsUpdateCmd} {
		cmd.Flags().String(flagCompany, "", "company name")
		cmd.Flags().String(flagLocation, "", "job location")
		cmd.Flags().String(flagRole, "", "job role")
		cmd.Flags().String(flagDescription, "", "job description")
	}

	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func newJobService() (services.JobService, error) {
	cfg, logger, err := bootstrap()
	if err != nil {
		return nil, err
	}

	repo, err := repositories.NewJobRepository(cfg.Storage.JobsPath)
	if err != nil {
		return nil, err
	}
	return services.NewJobService(repo, logger), nil
}

func jobFromFlags(flags *pflag.FlagSet) models.JobPosting {
	company, _ := flags.GetString(flagCompany)
	location, _ := flags.GetString(flagLocation)
	role, _ := flags.GetString(flagRole)
	description, _ := flags.GetString(flagDescription)

	return models.JobPosting{
		Company:     company,
		Location:    location,
		Role:        role,
		Description: description,
	}
}

// updateFromFlags carries only the flags given on the command line.
func updateFromFlags(flags *pflag.FlagSet) models.JobUpdate {
	var u models.JobUpdate
	for name, field := range map[string]**string{
		flagCompany:     &u.Company,
		flagLocation:    &u.Location,
		flagRole:        &u.Role,
		flagDescription: &u.Description,
	} {
		if flags.Changed(name) {
			value, _ := flags.GetString(name)
			*field = &value
		}
	}
	return u
}

// addJob prompts for blank fields and publishes the job.
func addJob(w io.Writer, jobs services.JobService, in asker, job models.JobPosting) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Company Name", &job.Company},
		{"Job Location", &job.Location},
		{"Job Role", &job.Role},
		{"Job Description", &job.Description},
	}

	for _, f := range fields {
		if strings.TrimSpace(*f.value) != "" {
			continue
		}
		answer, err := in.Ask(f.label, notBlank)
		if err != nil {
			return err
		}
		*f.value = answer
	}

	created, err := jobs.Create(job)
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MissingFields, err)
	}

	fmt.Fprintln(w, messages.JobSubmitted)
	printJob(w, created)
	return nil
}

func listJobs(w io.Writer, jobs services.JobService) error {
	all, err := jobs.List()
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Fprintln(w, messages.NoJobs)
		return nil
	}

	for _, job := range all {
		fmt.Fprintf(w, "%s  %s\n", job.ID, job.Label())
	}
	return nil
}

func printJob(w io.Writer, job models.JobPosting) {
	fmt.Fprintf(w, "%s  %s\n\n%s\n", job.ID, job.Label(), job.Description)
}
