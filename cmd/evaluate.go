package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/extraction"
	"github.com/medbridge-ca/medbridge/internal/logger"
	"github.com/medbridge-ca/medbridge/internal/pathway"
	"github.com/medbridge-ca/medbridge/internal/secrets"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate an applicant's pathway to Canadian medical licensure",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("file", "f", "", "path to a JSON file describing the applicant")
	evaluateCmd.Flags().StringP("resume", "r", "", "path to a PDF resume to analyze (requires a Gemini API key)")
	evaluateCmd.Flags().StringP("output", "o", "summary", "output format: summary or json")

	evaluateCmd.Flags().String("country", "", "country of medical education")
	evaluateCmd.Flags().Bool("degree-verified", false, "primary medical degree is verified")
	evaluateCmd.Flags().Int("internship-months", 0, "months of internship completed")
	evaluateCmd.Flags().Bool("mccqe1", false, "MCCQE Part I passed")
	evaluateCmd.Flags().String("role", "gp", "role: gp or specialist")
	evaluateCmd.Flags().String("specialty-cert", "", "foreign specialty certification")
	evaluateCmd.Flags().Bool("cfpc", false, "CFPC certified")
	evaluateCmd.Flags().Bool("licence", false, "provincial licence held")
	evaluateCmd.Flags().Bool("cmpa", false, "CMPA coverage held")
}

func evaluate(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	applicant, err := applicantFromCommand(cmd, logger)
	if err != nil {
		logger.Fatal("loading applicant", zap.Error(err))
	}

	engine := pathway.New(logger)
	report, err := engine.Evaluate(*applicant)
	if err != nil {
		logger.Fatal("evaluating applicant", zap.Error(err))
	}

	if cmd.Flag("output").Value.String() == "json" {
		pretty, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal("rendering report", zap.Error(err))
		}
		fmt.Println(string(pretty))
		return
	}

	fmt.Println(report.Summary)
}

func applicantFromCommand(cmd *cobra.Command, logger *zap.Logger) (*pathway.Applicant, error) {
	if file := cmd.Flag("file").Value.String(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading applicant file: %w", err)
		}
		var applicant pathway.Applicant
		if err := json.Unmarshal(data, &applicant); err != nil {
			return nil, fmt.Errorf("parsing applicant file: %w", err)
		}
		return &applicant, nil
	}

	if resume := cmd.Flag("resume").Value.String(); resume != "" {
		return applicantFromResume(cmd.Context(), resume, logger)
	}

	months, err := cmd.Flags().GetInt("internship-months")
	if err != nil {
		return nil, err
	}

	return &pathway.Applicant{
		Country:              cmd.Flag("country").Value.String(),
		DegreeVerified:       flagBool(cmd, "degree-verified"),
		InternshipMonths:     months,
		HasMCCQE1:            flagBool(cmd, "mccqe1"),
		Role:                 pathway.Role(cmd.Flag("role").Value.String()),
		ForeignSpecialtyCert: cmd.Flag("specialty-cert").Value.String(),
		CFPCCertified:        flagBool(cmd, "cfpc"),
		ProvinceLicence:      flagBool(cmd, "licence"),
		CMPA:                 flagBool(cmd, "cmpa"),
	}, nil
}

func applicantFromResume(ctx context.Context, path string, logger *zap.Logger) (*pathway.Applicant, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	analyzer, err := newAnalyzer(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	text, err := extraction.ExtractText(path)
	if err != nil {
		return nil, err
	}

	return analyzer.Analyze(ctx, text)
}

// newAnalyzer builds the Gemini-backed credential analyzer from config and
// environment.
func newAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (*extraction.Analyzer, error) {
	gemini := &GeminiConfig{}
	if config != nil && config.AI != nil && config.AI.Gemini != nil {
		gemini = config.AI.Gemini
	}

	apiKeyFile := gemini.APIKeyFile
	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: apiKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(zap.String("provider", "gemini"))

	generator, err := extraction.NewGenerator(ctx, apiKey, gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	return extraction.NewAnalyzer(generator, genLogger.With(zap.String("model", generator.Model())), gemini.MaxLogLength), nil
}

func flagBool(cmd *cobra.Command, name string) bool {
	return strings.EqualFold(cmd.Flag(name).Value.String(), "true")
}
