package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin"
	crypt "github.com/estafette/estafette-ci-crypt"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/metrics"
	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/strategiotech/bd-barry/pkg/api"
	"github.com/strategiotech/bd-barry/pkg/clients/credentials"
	"github.com/strategiotech/bd-barry/pkg/clients/hubspotapi"
	"github.com/strategiotech/bd-barry/pkg/clients/slackapi"
	"github.com/strategiotech/bd-barry/pkg/services/slack"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jprometheus "github.com/uber/jaeger-lib/metrics/prometheus"
	"golang.org/x/sync/errgroup"
)

const appName = "bd-barry"

var (
	version   string
	branch    string
	revision  string
	buildDate string
	goVersion = runtime.Version()
)

var (
	// flags
	configFilePath           = kingpin.Flag("config-file-path", "The path to the yaml config file; environment variables override its values.").Envar("CONFIG_FILE_PATH").String()
	prometheusMetricsAddress = kingpin.Flag("metrics-listen-address", "The address to listen on for Prometheus metrics requests.").Envar("METRICS_LISTEN_ADDRESS").Default(":9001").String()
	prometheusMetricsPath    = kingpin.Flag("metrics-path", "The path to listen for Prometheus metrics requests.").Envar("METRICS_PATH").Default("/metrics").String()
)

func main() {

	// parse command line parameters
	kingpin.Parse()

	// configure json logging
	initLogging()

	// init tracing so spans are sent to jaeger when JAEGER_* environment variables are set
	closer := initJaeger()
	defer closer.Close()

	// define channels and waitgroup to gracefully shutdown the application
	sigs := make(chan os.Signal, 1)                                    // Create channel to receive OS signals
	stop := make(chan struct{})                                        // Create channel to receive stop signal
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGINT) // Register the sigs channel to receieve SIGTERM
	wg := &sync.WaitGroup{}                                            // Goroutines can add themselves to this to be waited on so that they finish

	config, err := api.NewConfigReader().ReadConfig(*configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed reading configuration")
	}

	group, groupCtx := errgroup.WithContext(context.Background())

	// start prometheus
	metricsSrv := startPrometheus(group)

	// handle api requests
	srv := handleRequests(group, stop, wg, config)

	// wait for a shutdown signal or a listener failing
	select {
	case <-sigs:
	case <-groupCtx.Done():
		log.Error().Msg("One of the listeners stopped unexpectedly")
	}
	log.Debug().Msg("Shutting down...")

	// shut down gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Graceful server shutdown failed")
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Graceful metrics server shutdown failed")
	}

	log.Debug().Msg("Stopping goroutines...")
	close(stop) // Tell goroutines to stop themselves

	log.Debug().Msg("Awaiting waitgroup...")
	wg.Wait() // Wait for all to be stopped

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with an error")
	}

	log.Info().Msg("Server gracefully stopped")
}

func startPrometheus(group *errgroup.Group) *http.Server {
	log.Debug().
		Str("port", *prometheusMetricsAddress).
		Str("path", *prometheusMetricsPath).
		Msg("Serving Prometheus metrics...")

	mux := http.NewServeMux()
	mux.Handle(*prometheusMetricsPath, promhttp.Handler())

	srv := &http.Server{
		Addr:              *prometheusMetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Starting Prometheus listener failed")
			return err
		}
		return nil
	})

	return srv
}

func initLogging() {

	// log as severity for stackdriver logging to recognize the level
	zerolog.LevelFieldName = "severity"

	// set some default fields added to all logs
	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("app", appName).
		Str("version", version).
		Logger()

	// use zerolog for any logs sent via standard log library
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	// log startup message
	log.Info().
		Str("branch", branch).
		Str("revision", revision).
		Str("buildDate", buildDate).
		Str("goVersion", goVersion).
		Msgf("Starting %v...", appName)
}

// initJaeger returns an instance of Jaeger Tracer that can be configured with environment variables
// https://github.com/jaegertracing/jaeger-client-go#environment-variables
func initJaeger() io.Closer {

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger config from environment variables failed")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = appName
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Metrics(jprometheus.New()))
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger tracer failed")
	}

	opentracing.SetGlobalTracer(tracer)

	return closer
}

func handleRequests(group *errgroup.Group, stopChannel <-chan struct{}, waitGroup *sync.WaitGroup, config *api.APIConfig) *http.Server {

	var secretHelper crypt.SecretHelper
	if config.Credentials.EncryptionKey != "" {
		secretHelper = crypt.NewSecretHelper(config.Credentials.EncryptionKey, false)
	}

	credentialsClient := credentials.NewClient(secretHelper)
	credentialsClient = credentials.NewTracingClient(credentialsClient)
	credentialsClient = credentials.NewLoggingClient(credentialsClient)
	credentialsClient = credentials.NewMetricsClient(credentialsClient, api.NewRequestCounter("credentials_client"), api.NewRequestHistogram("credentials_client"))

	slackapiClient := slackapi.NewClient(config.Integrations.Slack)
	slackapiClient = slackapi.NewTracingClient(slackapiClient)
	slackapiClient = slackapi.NewLoggingClient(slackapiClient)
	slackapiClient = slackapi.NewMetricsClient(slackapiClient, api.NewRequestCounter("slackapi_client"), api.NewRequestHistogram("slackapi_client"))

	hubspotapiClient := hubspotapi.NewClient(config.Integrations.Hubspot)
	hubspotapiClient = hubspotapi.NewTracingClient(hubspotapiClient)
	hubspotapiClient = hubspotapi.NewLoggingClient(hubspotapiClient)
	hubspotapiClient = hubspotapi.NewMetricsClient(hubspotapiClient, api.NewRequestCounter("hubspotapi_client"), api.NewRequestHistogram("hubspotapi_client"))

	slackService := slack.NewService(config, slackapiClient, hubspotapiClient, credentialsClient)
	slackService = slack.NewTracingService(slackService)
	slackService = slack.NewLoggingService(slackService)
	slackService = slack.NewMetricsService(slackService, api.NewRequestCounter("slack_service"), api.NewRequestHistogram("slack_service"))

	// slash commands are acknowledged right away and executed by a pool of workers
	slackDispatcher := slack.NewDispatcher(stopChannel, waitGroup, config.Integrations.Slack, slackService, slackapiClient)
	slackDispatcher.Run()

	slackHandler := slack.NewHandler(config, slackService, slackDispatcher)

	router := configureGinGonic(config, slackHandler, api.NewInboundRequestCounter())

	// instantiate servers instead of using router.Run in order to handle graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", config.APIServer.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	group.Go(func() error {
		log.Info().Str("address", srv.Addr).Str("baseURL", config.APIServer.BaseURL).Msg("Serving api calls...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Starting gin router failed")
			return err
		}
		return nil
	})

	return srv
}

func configureGinGonic(config *api.APIConfig, slackHandler slack.Handler, inboundRequestTotals metrics.Counter) *gin.Engine {

	// run gin in release mode and other defaults
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = log.Logger
	gin.DisableConsoleColor()

	// Creates a router without any middleware by default
	router := gin.New()

	// Logging middleware
	router.Use(api.ZeroLogMiddleware())

	// Recovery middleware recovers from any panics and writes a 500 if there was one.
	router.Use(gin.Recovery())

	// Opentracing middleware
	router.Use(api.OpenTracingMiddleware())

	// Gzip middleware
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// liveness and readiness
	router.GET("/liveness", func(c *gin.Context) {
		c.String(200, "I'm alive!")
	})
	router.GET("/readiness", func(c *gin.Context) {
		c.String(200, "I'm ready!")
	})

	verifier := slack.NewVerifier(config.Integrations.Slack.SigningSecret, config.Integrations.Slack.MaxRequestAge)
	slackHandler.RegisterRoutes(router, slack.VerifyRequestSignature(verifier, inboundRequestTotals))

	return router
}
