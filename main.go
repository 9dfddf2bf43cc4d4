package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"gsml3/internal/command"
	_ "gsml3/internal/decode"
	_ "gsml3/internal/dump"
	_ "gsml3/internal/encode"
	_ "gsml3/internal/listen"
	_ "gsml3/internal/pcap"
	_ "gsml3/internal/serve"
	_ "gsml3/internal/xmldoc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Execute(ctx); err != nil {
		logrus.WithError(err).Fatal("Fatal to command.Execute")
	}
}
