package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selfadmin/internal/config"
	dl "selfadmin/internal/core/domain/logging"
	issueresettoken "selfadmin/internal/core/services/issue_reset_token"
	redeemresettoken "selfadmin/internal/core/services/redeem_reset_token"
	handlerChange "selfadmin/internal/http/handlers/password/change"
	handlerIssueToken "selfadmin/internal/http/handlers/password/issue_token"
	handlerLostForm "selfadmin/internal/http/handlers/password/lost_form"
	"selfadmin/internal/http/middleware"
	dirclient "selfadmin/internal/implementations/directory"
	"selfadmin/internal/implementations/email"
	"selfadmin/internal/implementations/logging"
	onetimetoken "selfadmin/internal/implementations/one_time_token"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func StartApp() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewZapLogger()
	defer logger.Sync()

	awsCfg := initAwsConfig(config)
	now := func() time.Time { return time.Now().UTC() }

	codec := onetimetoken.NewCodec(now)
	directoryClient := dirclient.NewHTTPClient(
		config.DirectoryBaseURL,
		config.DirectoryTimeout,
		config.DirectoryExtensionURN,
		config.OneTimeTokenField,
	)
	tokenSender := email.NewResetTokenSender(
		awsCfg,
		config.AwsEmailSender,
		config.AwsEmailResetTemplate,
		config.PasswordLostLinkPrefix,
	)

	issueResetToken := issueresettoken.New(logger, directoryClient, codec, tokenSender)
	redeemResetToken := redeemresettoken.New(
		logger,
		directoryClient,
		codec,
		config.OneTimeTokenTimeout,
		now,
	)

	passwordRouter := chi.NewRouter()
	passwordRouter.Method(
		http.MethodPost,
		"/lost/{userID}",
		handlerIssueToken.New(issueResetToken, config.IsTestMode),
	)
	passwordRouter.Method(http.MethodGet, "/lostForm", handlerLostForm.New(logger, config.ChangePasswordURL))
	passwordRouter.Method(http.MethodPost, "/change", handlerChange.New(redeemResetToken))
	passwordRouter.Method(http.MethodPost, "/change/{userID}", handlerChange.New(redeemResetToken))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(middleware.SetRequestIDToContext)
	router.Use(middleware.LogRequests(logger))
	router.Mount("/password", passwordRouter)

	address := fmt.Sprintf("0.0.0.0:%d", config.Port)
	srv := &http.Server{
		Handler:           router,
		Addr:              address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       5 * time.Second,
	}

	go func() {
		logger.Info(
			context.Background(),
			"HTTP server has started.",
			dl.Entry("address", address),
			dl.Entry("isTestMode", config.IsTestMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		panic(err)
	}
	logger.Info(ctx, "HTTP server has shut down.")
}

func initAwsConfig(config *config.Config) aws.Config {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AwsAccessKey,
				config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	return cfg
}
