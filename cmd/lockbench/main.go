package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	sarama "github.com/IBM/sarama"
	nats "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
	"github.com/mirkobrombin/go-spinlocks/v1/lock"
	"github.com/mirkobrombin/go-spinlocks/v1/metrics"
	"github.com/mirkobrombin/go-spinlocks/v1/report"
)

var (
	threads      = flag.Int("t", bench.DefaultThreads, "Worker threads per run")
	iterations   = flag.Int("n", bench.DefaultIterations, "Guarded increments per worker")
	variantsFlag = flag.String("variants", "all", "Lock variants: all or a comma list of tas,cas,ticket,yield,queue")
	pin          = flag.Bool("pin", false, "Lock every worker to its own OS thread")
	format       = flag.String("format", "text", "Console output: text, table or none")
	lockMetrics  = flag.Bool("lock-metrics", false, "Count every acquire/release (slows the runs)")
	redisAddr    = flag.String("redis-addr", "", "Publish results to Redis at this address")
	redisKey     = flag.String("redis-key", report.DefaultRedisKey, "Redis list key for results")
	natsURL      = flag.String("nats-url", "", "Publish results to NATS at this URL")
	natsSubject  = flag.String("nats-subject", report.DefaultNATSPrefix, "NATS subject prefix")
	kafkaBrokers = flag.String("kafka-brokers", "", "Publish results to these comma separated Kafka brokers")
	kafkaTopic   = flag.String("kafka-topic", report.DefaultKafkaTopic, "Kafka topic for results")
	metricsAddr  = flag.String("metrics-addr", "", "Serve /metrics, /results and /runs on this address and keep running")
	traceFlag    = flag.Bool("trace", false, "Print OpenTelemetry spans to stdout")
	verbose      = flag.Bool("verbose", false, "Verbose logging")
)

func parseVariants(s string) ([]lock.Variant, error) {
	if s == "" || s == "all" {
		return lock.Variants(), nil
	}
	var out []lock.Variant
	for _, name := range strings.Split(s, ",") {
		v, err := lock.ParseVariant(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// resolved before any worker starts
	variants, err := parseVariants(*variantsFlag)
	if err != nil {
		log.Fatalf("variants: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *traceFlag {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Fatalf("trace exporter: %v", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		defer func() { _ = tp.Shutdown(context.Background()) }()
		otel.SetTracerProvider(tp)
	}

	var sinks []bench.Sink
	switch *format {
	case "text":
		sinks = append(sinks, report.NewText(os.Stdout))
	case "table":
		sinks = append(sinks, report.NewTable(os.Stdout))
	case "none":
	default:
		log.Fatalf("unknown format %q", *format)
	}

	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer client.Close()
		sinks = append(sinks, report.NewRedis(client, *redisKey))
	}
	if *natsURL != "" {
		conn, err := nats.Connect(*natsURL)
		if err != nil {
			log.Fatalf("nats connect: %v", err)
		}
		defer conn.Close()
		sinks = append(sinks, report.NewNATS(conn, *natsSubject))
	}
	if *kafkaBrokers != "" {
		k, err := report.NewKafka(strings.Split(*kafkaBrokers, ","), *kafkaTopic, sarama.NewConfig())
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer k.Close()
		sinks = append(sinks, k)
	}

	var srv *http.Server
	if *metricsAddr != "" {
		reg := metrics.NewRegistry()
		metrics.RegisterLockMetrics(reg)
		hub := report.NewHub()
		defer hub.Close()
		history, err := report.NewHistory(0)
		if err != nil {
			log.Fatalf("history: %v", err)
		}
		defer history.Close()
		sinks = append(sinks, hub, history)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.Handle("/results", hub.WebSocketHandler())
		mux.Handle("/results/sse", hub.SSEHandler())
		mux.Handle("/runs", history.Handler())
		srv = &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Printf("Serving metrics and results on %s", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server: %v", err)
			}
		}()
	}

	suite := &bench.Suite{
		Threads:    *threads,
		Iterations: *iterations,
		Variants:   variants,
		PinThreads: *pin,
		Sinks:      sinks,
		Logger:     logger,
	}
	if *lockMetrics {
		suite.Options = append(suite.Options, bench.WithLockMetrics())
	}

	results, err := suite.Run(ctx)
	if err != nil {
		log.Fatalf("benchmark: %v", err)
	}
	if !bench.AllOK(results) {
		fmt.Fprintln(os.Stderr, "warning: at least one lock produced a wrong counter")
	}

	if srv != nil {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
