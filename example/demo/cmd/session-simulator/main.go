// Command session-simulator emits a synthetic RTC session into a
// PostgreSQL-backed diagnostics event log: the initial stream
// configurations followed by a steady stream of incoming RTCP packets.
// It runs until interrupted.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rtcdiag/eventlog-go/eventlog"
	"github.com/rtcdiag/eventlog-go/eventlog/postgresengine"
	"github.com/rtcdiag/eventlog-go/eventlog/promadapters"
	"github.com/rtcdiag/eventlog-go/events"
	"github.com/rtcdiag/eventlog-go/example/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	metrics := promadapters.NewMetricsCollector(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	pgxPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pgxPool.Close()

	if err = pgxPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store, err := postgresengine.NewEventLogStoreFromPGXPool(
		pgxPool,
		postgresengine.WithLogger(logger),
		postgresengine.WithMetrics(metrics),
	)
	if err != nil {
		log.Fatalf("Failed to create event log store: %v", err)
	}

	diagLog, err := eventlog.New(
		eventlog.WithLogger(logger),
		eventlog.WithMetrics(metrics),
	)
	if err != nil {
		log.Fatalf("Failed to create event log: %v", err)
	}
	defer func() { _ = diagLog.Close() }()

	go serveMetrics(cfg.MetricsAddr, logger)

	sessionID := uuid.New()
	if err = diagLog.StartLogging(store.OutputForSession(sessionID)); err != nil {
		log.Fatalf("Failed to start logging: %v", err)
	}

	logger.Info("session started", "session_id", sessionID.String(), "event_rate", cfg.EventRate)

	emitInitialConfigs(diagLog)
	runSession(diagLog, cfg.EventRate, sigChan)

	if err = diagLog.StopLogging(); err != nil {
		logger.Error("failed to stop logging", "error", err.Error())
	}

	logger.Info("session finished", "session_id", sessionID.String())
}

func serveMetrics(addr string, logger *slog.Logger) {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Error("metrics endpoint failed", "error", err.Error())
	}
}

// emitInitialConfigs logs the configuration snapshots of the simulated
// session's four streams.
func emitInitialConfigs(diagLog *eventlog.Log) {
	audioConfig := &events.StreamConfig{
		LocalSSRC:  1001,
		RemoteSSRC: 2001,
		RtpExtensions: []events.RtpExtension{
			{URI: "urn:ietf:params:rtp-hdrext:ssrc-audio-level", ID: 1},
		},
		Codecs: []events.Codec{
			{PayloadName: "opus", PayloadType: 111},
		},
	}

	videoConfig := &events.StreamConfig{
		LocalSSRC:  1002,
		RemoteSSRC: 2002,
		RtxSSRC:    3002,
		Remb:       true,
		RtpExtensions: []events.RtpExtension{
			{URI: "http://www.webrtc.org/experiments/rtp-hdrext/abs-send-time", ID: 3},
		},
		Codecs: []events.Codec{
			{PayloadName: "VP8", PayloadType: 96, RtxPayloadType: 97},
		},
	}

	logConfig := func(build func() (events.Event, error)) {
		event, err := build()
		if err != nil {
			log.Fatalf("Failed to build config event: %v", err)
		}
		diagLog.Log(event)
	}

	logConfig(func() (events.Event, error) {
		return events.BuildAudioSendStreamConfig(audioConfig.Clone(), events.NowUs())
	})
	logConfig(func() (events.Event, error) {
		return events.BuildAudioRecvStreamConfig(audioConfig.Clone(), events.NowUs())
	})
	logConfig(func() (events.Event, error) {
		return events.BuildVideoSendStreamConfig(videoConfig.Clone(), events.NowUs())
	})
	logConfig(func() (events.Event, error) {
		return events.BuildVideoRecvStreamConfig(videoConfig.Clone(), events.NowUs())
	})
}

// runSession emits synthetic RTCP receiver reports at the configured rate
// until a termination signal arrives.
func runSession(diagLog *eventlog.Log, eventRate int, sigChan chan os.Signal) {
	interval := time.Second / time.Duration(eventRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rtcpPacket := []byte{0x80, 0xc8, 0x00, 0x06, 0x00, 0x00, 0x03, 0xe9}

	for {
		select {
		case <-ticker.C:
			event, err := events.BuildRtcpPacketIncoming(rtcpPacket, events.NowUs())
			if err != nil {
				log.Fatalf("Failed to build rtcp event: %v", err)
			}
			diagLog.Log(event)

		case <-sigChan:
			return
		}
	}
}
