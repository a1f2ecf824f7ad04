package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/logger"
	"github.com/medbridge-ca/medbridge/internal/secrets"
	"github.com/medbridge-ca/medbridge/internal/server"
	"github.com/medbridge-ca/medbridge/internal/store"
)

const defaultListen = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the medbridge HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(cmd *cobra.Command) {
	// .env is a deployment convenience, absence is fine.
	_ = godotenv.Load()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the medbridge api", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	dsn := ""
	if config.Database != nil {
		dsn = config.Database.URL
	}
	if dsn == "" {
		dsn = viper.GetString("database.url")
	}

	st, err := store.Connect(dsn)
	if err != nil {
		logger.Fatal("connecting to the database",
			zap.Error(err),
			zap.String("hint", "set DATABASE_URL or the 'database.url' key in the configuration file"),
		)
	}

	if err := st.Migrate(); err != nil {
		logger.Fatal("migrating the database schema", zap.Error(err))
	}

	webhookSecret := resolveWebhookSecret(config, logger)

	var analyzer server.CredentialAnalyzer
	if config.AI != nil && config.AI.Enabled {
		built, err := newAnalyzer(cmd.Context(), config, logger)
		if err != nil {
			logger.Warn("resume analysis disabled", zap.Error(err))
		} else {
			analyzer = built
		}
	}

	uploadDir := config.UploadDir

	srv := server.New(server.Options{
		Logger:        logger,
		Store:         st,
		Analyzer:      analyzer,
		WebhookSecret: webhookSecret,
		UploadDir:     uploadDir,
	})

	listen := defaultListen
	if config.Server != nil && config.Server.Listen != "" {
		listen = config.Server.Listen
	}
	if flagged := viper.GetString("server.listen"); flagged != "" {
		listen = flagged
	}

	logger.Info("listening", zap.String("address", listen))
	if err := srv.Router().Run(listen); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}

// resolveWebhookSecret loads the shared webhook secret when configured. The
// webhook stays open when no secret is set.
func resolveWebhookSecret(config *Config, logger *zap.Logger) string {
	file := ""
	if config.Server != nil {
		file = config.Server.WebhookSecretFile
	}
	if file == "" {
		file = viper.GetString("server.webhook-secret-file")
	}
	if file == "" && os.Getenv("MEDBRIDGE_WEBHOOK_SECRET") == "" {
		return ""
	}

	secret, err := secrets.Load(secrets.Source{
		Name: "webhook secret",
		File: file,
		Env:  "MEDBRIDGE_WEBHOOK_SECRET",
	})
	if err != nil {
		logger.Fatal("loading webhook secret",
			zap.Error(err),
			zap.String("hint", "set MEDBRIDGE_WEBHOOK_SECRET_FILE or the 'server.webhook-secret-file' key in the configuration file"),
		)
	}

	return secret
}
