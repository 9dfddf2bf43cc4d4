package pcap

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gsml3/internal/command"
)

var cmd = &cobra.Command{
	Use:   "pcap FILE",
	Short: "Convert the GSMTAP frames of a pcap or pcapng file to an XML trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noDecode, _ := cmd.Flags().GetBool("no-decode")
		indent, _ := cmd.Flags().GetBool("indent")

		network, ms, err := command.NewCodecPair(cmd)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "os.Open")
		}
		defer f.Close()

		c := &Converter{Network: network, MS: ms, Decode: !noDecode}
		stats, err := c.Convert(f, cmd.OutOrStdout(), indent)
		logrus.WithFields(logrus.Fields{
			"packets": stats.Packets,
			"frames":  stats.Frames,
			"failed":  stats.Failed,
		}).Info("Done")
		return err
	},
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().Bool("no-decode", false, "keep messages as hex")
	cmd.Flags().Bool("indent", true, "indent the XML output")
	command.Register(cmd)
}
