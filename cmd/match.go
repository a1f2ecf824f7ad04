package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/logger"
	"github.com/medbridge-ca/medbridge/internal/matching"
	"github.com/medbridge-ca/medbridge/internal/store"
)

const (
	PromptShowMatches      = "Show matches for each doctor"
	PromptReportByHospital = "Report by hospital"
	PromptExplainPair      = "Explain a doctor / job pair"
	PromptMatchesToFile    = "Dump matches to file"
	PromptExit             = "Exit"
	PromptBack             = "back"
)

var errExit = errors.New("exit requested")

var matchPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowMatches, PromptReportByHospital, PromptExplainPair, PromptMatchesToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match stored doctors against job postings interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("doctors-file", "", "JSON file with doctor profiles (falls back to the database)")
	matchCmd.Flags().String("jobs-file", "", "JSON file with job postings (falls back to the database)")
}

func match(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	doctors, jobs, err := loadMatchInputs(cmd)
	if err != nil {
		logger.Fatal("loading match inputs",
			zap.Error(err),
			zap.String("hint", "pass --doctors-file and --jobs-file or configure database.url"),
		)
	}

	if len(doctors) == 0 || len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "nothing to match"),
			zap.Int("doctors", len(doctors)), zap.Int("jobs", len(jobs)))
		return
	}

	logger.Info("loaded match inputs", zap.Int("doctors", len(doctors)), zap.Int("jobs", len(jobs)))

	for {
		_, action, err := matchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleMatchAction(action, doctors, jobs, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleMatchAction(action string, doctors []*matching.DoctorProfile, jobs []*matching.JobPosting, logger *zap.Logger) error {
	switch action {
	case PromptShowMatches:
		for _, doctor := range doctors {
			matches := matching.MatchDoctorToJobs(doctor, jobs)
			pretty, _ := json.MarshalIndent(matches, "", "  ")
			logger.Info(string(pretty),
				zap.String("doctor", doctor.FullName),
				zap.Int("matches", len(matches)),
			)
		}
		return nil
	case PromptReportByHospital:
		pretty, _ := json.MarshalIndent(reportByHospital(doctors, jobs), "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptExplainPair:
		return explainPair(doctors, jobs, logger)
	case PromptMatchesToFile:
		filename, err := dumpMatches(doctors, jobs)
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// reportByHospital counts, per hospital, how many doctors match each posting.
func reportByHospital(doctors []*matching.DoctorProfile, jobs []*matching.JobPosting) map[string]map[string]int {
	report := make(map[string]map[string]int)
	for _, job := range jobs {
		matches := matching.MatchJobToDoctors(job, doctors)
		hospital := job.HospitalID
		if hospital == "" {
			hospital = "unknown"
		}
		if report[hospital] == nil {
			report[hospital] = make(map[string]int)
		}
		report[hospital][job.Title] = len(matches)
	}
	return report
}

func explainPair(doctors []*matching.DoctorProfile, jobs []*matching.JobPosting, logger *zap.Logger) error {
	doctorItems := make([]string, 0, len(doctors))
	for _, doctor := range doctors {
		doctorItems = append(doctorItems, doctor.FullName)
	}

	doctorPrompt := promptui.Select{
		Label: "Choose a doctor and press ENTER",
		Items: append(doctorItems, PromptBack),
	}
	doctorIdx, doctorSelected, err := doctorPrompt.Run()
	if err != nil {
		return err
	}
	if doctorSelected == PromptBack {
		return nil
	}

	jobItems := make([]string, 0, len(jobs))
	for _, job := range jobs {
		jobItems = append(jobItems, fmt.Sprintf("%s / %s", job.Title, job.Location))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job posting and press ENTER",
		Items: append(jobItems, PromptBack),
	}
	jobIdx, jobSelected, err := jobPrompt.Run()
	if err != nil {
		return err
	}
	if jobSelected == PromptBack {
		return nil
	}

	explanation := matching.ExplainMatch(doctors[doctorIdx], jobs[jobIdx])
	pretty, _ := json.MarshalIndent(explanation, "", "  ")
	logger.Info(string(pretty),
		zap.String("doctor", doctors[doctorIdx].FullName),
		zap.String("job", jobs[jobIdx].Title),
	)
	return nil
}

func dumpMatches(doctors []*matching.DoctorProfile, jobs []*matching.JobPosting) (string, error) {
	all := make(map[string][]*matching.JobPostingMatch, len(doctors))
	for _, doctor := range doctors {
		all[doctor.FullName] = matching.MatchDoctorToJobs(doctor, jobs)
	}

	file, err := os.CreateTemp("", app+"-matches-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	pretty, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return "", err
	}

	if _, err := file.Write(pretty); err != nil {
		return "", err
	}

	return file.Name(), nil
}

// loadMatchInputs reads doctors and jobs from the given files, falling back
// to the database for whichever side has no file.
func loadMatchInputs(cmd *cobra.Command) ([]*matching.DoctorProfile, []*matching.JobPosting, error) {
	doctorsFile := cmd.Flag("doctors-file").Value.String()
	jobsFile := cmd.Flag("jobs-file").Value.String()

	var doctors []*matching.DoctorProfile
	var jobs []*matching.JobPosting

	if doctorsFile != "" {
		if err := readJSONFile(doctorsFile, &doctors); err != nil {
			return nil, nil, err
		}
	}
	if jobsFile != "" {
		if err := readJSONFile(jobsFile, &jobs); err != nil {
			return nil, nil, err
		}
	}

	if doctorsFile != "" && jobsFile != "" {
		return doctors, jobs, nil
	}

	st, err := connectFromConfig()
	if err != nil {
		return nil, nil, err
	}

	if doctorsFile == "" {
		profiles, err := st.ListDoctorProfiles()
		if err != nil {
			return nil, nil, err
		}
		for _, profile := range profiles {
			doctor := profile.ToMatching()
			doctors = append(doctors, &doctor)
		}
	}

	if jobsFile == "" {
		postings, err := st.ListJobPostings()
		if err != nil {
			return nil, nil, err
		}
		for _, posting := range postings {
			job := posting.ToMatching()
			jobs = append(jobs, &job)
		}
	}

	return doctors, jobs, nil
}

func connectFromConfig() (*store.Store, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	dsn := ""
	if config != nil && config.Database != nil {
		dsn = config.Database.URL
	}
	if dsn == "" {
		dsn = viper.GetString("database.url")
	}

	return store.Connect(dsn)
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}
