package serve

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gsml3/internal/command"
)

var cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve decode and encode requests over TCP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		cfg := command.Config().Serve
		if !cmd.Flags().Changed("addr") {
			addr = cfg.Addr
		}
		if !cmd.Flags().Changed("metrics-addr") {
			metricsAddr = cfg.MetricsAddr
		}
		if addr == "" {
			return errors.New("missing server address")
		}

		codec, err := command.NewCodec(cmd)
		if err != nil {
			return err
		}
		network, ms, err := command.NewCodecPair(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		s := &Server{Codec: codec, Network: network, MS: ms, Metrics: NewMetrics(reg)}

		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return errors.Wrap(err, "net.Listen")
		}
		logrus.WithField("addr", lis.Addr()).Info("Listen on")

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error { return s.Serve(ctx, lis) })
		if metricsAddr != "" {
			g.Go(func() error { return serveMetrics(ctx, metricsAddr, reg) })
		}
		err = g.Wait()
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	},
}

func serveMetrics(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logrus.WithField("addr", addr).Info("Metrics on")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http.ListenAndServe")
	}
	return ctx.Err()
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().String("addr", "", "address to listen on, defaults to the configured one")
	cmd.Flags().String("metrics-addr", "", "address of the Prometheus endpoint, defaults to the configured one")
	command.Register(cmd)
}
