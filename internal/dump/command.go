package dump

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gsml3/internal/command"
	"gsml3/pkg/capture"
)

var cmd = &cobra.Command{
	Use:   "dump",
	Short: "Capture GSMTAP traffic and decode the Radio Layer 3 messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		iface, _ := cmd.Flags().GetString("iface")
		tcp, _ := cmd.Flags().GetString("tcp")
		file, _ := cmd.Flags().GetString("file")
		tun, _ := cmd.Flags().GetString("tun")
		noStdout, _ := cmd.Flags().GetBool("no-stdout")
		noDecode, _ := cmd.Flags().GetBool("no-decode")
		promisc, _ := cmd.Flags().GetBool("promisc")
		all, _ := cmd.Flags().GetBool("all")
		interval, _ := cmd.Flags().GetDuration("poll-interval")

		if iface == "" {
			return errors.New("missing interface")
		}

		var writerlist []DumpWriter
		defer func() {
			for _, w := range writerlist {
				w.Close()
			}
		}()

		if tcp != "" {
			tcpW, err := NewTCPWriter(tcp)
			if err != nil {
				return err
			}
			logrus.WithField("addr", tcp).Info("Connected")
			writerlist = append(writerlist, tcpW)
		}

		if file != "" {
			fileW, err := NewFileWriter(file)
			if err != nil {
				return err
			}
			writerlist = append(writerlist, fileW)
		}

		if tun != "" {
			tunW, err := NewTunWriter(tun)
			if err != nil {
				return err
			}
			writerlist = append(writerlist, tunW)
		}

		if !noStdout {
			network, ms, err := command.NewCodecPair(cmd)
			if err != nil {
				return err
			}
			writerlist = append(writerlist, NewTraceWriter(cmd.OutOrStdout(), network, ms, !noDecode))
		}

		opts := []capture.CaptureOpt{
			capture.WithCaptureAuxData(true),
			capture.WithCapturePromisc(promisc),
			capture.WithCaptureTimeout(interval),
			capture.WithCaptureReadErrorHandle(func(err error) {
				logrus.WithError(err).Warn("Fail to read")
			}),
		}
		if !all {
			opts = append(opts, capture.WithCaptureUDPPort(command.Config().GSMTAP.Port))
		}
		c, err := capture.NewCaptureByIfaceName(iface, opts...)
		if err != nil {
			return err
		}
		logrus.WithField("iface", iface).Info("Capture on")

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			defer c.Close()
			return c.Serve(ctx)
		})
		g.Go(func() error {
			for p := range c.Read() {
				for _, w := range writerlist {
					if err := w.WritePacket(p); err != nil {
						logrus.WithField("type", w.Type()).WithError(err).Warn("Fail to write")
					}
				}
			}
			return nil
		})
		err = g.Wait()
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	},
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().StringP("iface", "i", "", "network interface to capture from")
	cmd.Flags().StringP("file", "w", "", "save captured packets to a local pcap file")
	cmd.Flags().String("tcp", "", "send captured packets to a codec service via TCP")
	cmd.Flags().String("tun", "", "write captured packets to a TUN device")
	cmd.Flags().Bool("no-stdout", false, "disable writing to stdout")
	cmd.Flags().Bool("no-decode", false, "print messages as hex")
	cmd.Flags().Bool("promisc", false, "put the interface in promiscuous mode")
	cmd.Flags().Duration("poll-interval", 200*time.Millisecond, "how often the capture loop checks for shutdown")
	cmd.Flags().Bool("all", false, "capture all traffic, not only the GSMTAP port")
	command.Register(cmd)
}
