package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/tagblog/api"
	"github.com/rpupo63/tagblog/config"
	"github.com/rpupo63/tagblog/services"
	"github.com/rpupo63/tagblog/telemetry"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "migrate the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn().Err(err).Msg("error flushing traces")
		}
	}()

	secret, err := secretKey(ctx)
	if err != nil {
		return err
	}

	db, currentDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if migrateOnStart || config.GetBool(cfg, "MIGRATE_ON_START", false) {
		if err := migrate(db); err != nil {
			return err
		}
	}

	revoker, err := sessionRevoker(ctx)
	if err != nil {
		return err
	}

	blog := services.NewBlog(currentDB.BlogpostRepo(), currentDB.TagRepo(), services.SettingsFromConfig(cfg))
	ttl := time.Duration(config.GetPositiveInt(cfg, "SESSION_TTL_HOURS", 24)) * time.Hour
	auth := services.NewAuthenticator(currentDB.UserRepo(), []byte(secret), ttl, revoker)

	server, err := api.NewServer(cfg, currentDB, blog, auth)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetSeconds(cfg, "SHUTDOWN_TIMEOUT_SECONDS", 30))
	return nil
}

// secretKey resolves the token signing key, asking SSM only when a
// parameter name is configured.
func secretKey(ctx context.Context) (string, error) {
	var getter config.ParameterGetter
	if config.GetString(cfg, "SECRET_KEY", "") == "" && config.GetString(cfg, "SECRET_KEY_SSM_PARAMETER", "") != "" {
		client, err := config.NewSSMClient(ctx, config.GetString(cfg, "AWS_REGION", ""))
		if err != nil {
			return "", err
		}
		getter = client
	}
	return config.SecretKey(ctx, cfg, getter)
}

// sessionRevoker uses Redis when REDIS_ADDR is set. Without it logout only
// clears the cookie.
func sessionRevoker(ctx context.Context) (services.Revoker, error) {
	addr := config.GetString(cfg, "REDIS_ADDR", "")
	if addr == "" {
		log.Info().Msg("REDIS_ADDR not set, session revocation disabled")
		return services.NopRevoker{}, nil
	}
	rdb, err := services.NewRedisClient(ctx, addr, config.GetString(cfg, "REDIS_PASSWORD", ""))
	if err != nil {
		return nil, err
	}
	return services.NewRedisRevoker(rdb), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
