package main

import (
	"context"
	"flag"
	"net/http"
	_ "time/tzdata"

	"cmreports/internal/components/chrono"
	"cmreports/internal/components/metrics"
	"cmreports/internal/components/telemetry"
	"cmreports/internal/config"
	"cmreports/internal/scrapers/cargamaquina"
	"cmreports/internal/service"
	"cmreports/pkg/serviceutil"

	"connectrpc.com/connect"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the json5 config file.")
	flag.Parse()

	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	otel, err := telemetry.Setup(ctx, "cmreports-server", cfg.Telemetry)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer otel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	reg := metrics.NewRegistry()
	client, err := InitClient(ctx, cfg, reg)
	if err != nil {
		serviceutil.Fatal("login to cm", err)
	}

	clock, err := chrono.NewStandardImpl()
	if err != nil {
		serviceutil.Fatal("load timezone", err)
	}
	svc := service.NewService(
		client,
		service.WithChrono(clock),
		service.WithWindow(cfg.Window),
		service.WithStandaloneTimeout(cfg.StandaloneTimeout()),
	)

	mux := http.NewServeMux()
	service.NewHttpController(mux, svc, reg)
	mux.Handle(service.NewConnectHandler(
		svc,
		connect.WithInterceptors(
			serviceutil.NewConnectOtelInterceptor(),
			serviceutil.VerifyAccessTokenInterceptor(cfg.AccessToken),
		),
	))

	err = serviceutil.StartHttpServer(ctx, cfg.Port, service.AllowAllOrigins(mux))
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}

// InitClient creates the shared CM session, the process cannot serve anything
// without it.
func InitClient(ctx context.Context, cfg config.Config, reg *metrics.Registry) (*cargamaquina.Client, error) {
	opts := cfg.Site
	opts.Metrics = reg
	client, err := cargamaquina.NewClient(opts, telemetry.SlogAPI{})
	if err != nil {
		return nil, err
	}
	err = client.Login(ctx, cfg.Credentials.Username, cfg.Credentials.Password)
	if err != nil {
		return nil, err
	}
	return client, nil
}
