package command

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gsml3/internal/config"
	"gsml3/pkg/rl3"
)

// AddCodecFlags registers the flags that override the codec section of the
// configuration.
func AddCodecFlags(cmd *cobra.Command) {
	cmd.Flags().String("role", "", "network decodes uplink and encodes downlink, ms the reverse")
	cmd.Flags().Bool("dump-msg", false, "add the raw message to the XML")
	cmd.Flags().Bool("dump-ies", false, "split undecoded octets into ie elements")
	cmd.Flags().Bool("print-debug", false, "log every payload with its XML")
	cmd.Flags().String("tag", "", "marker element of embedded messages")
}

// NewCodec builds the codec from the configuration and the flags the user
// set on cmd.
func NewCodec(cmd *cobra.Command) (*rl3.Codec, error) {
	c, err := codecConfig(cmd)
	if err != nil {
		return nil, err
	}
	return c.NewCodec()
}

// NewCodecPair builds a network side and a mobile station codec for traces
// that carry both directions.
func NewCodecPair(cmd *cobra.Command) (network, ms *rl3.Codec, err error) {
	c, err := codecConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	c.Codec.Role = rl3.Network.String()
	if network, err = c.NewCodec(); err != nil {
		return nil, nil, err
	}
	c.Codec.Role = rl3.MobileStation.String()
	if ms, err = c.NewCodec(); err != nil {
		return nil, nil, err
	}
	return network, ms, nil
}

func codecConfig(cmd *cobra.Command) (*config.Config, error) {
	c := *Config()
	flags := cmd.Flags()
	if flags.Changed("role") {
		c.Codec.Role, _ = flags.GetString("role")
	}
	if flags.Changed("dump-msg") {
		c.Codec.DumpMsg, _ = flags.GetBool("dump-msg")
	}
	if flags.Changed("dump-ies") {
		c.Codec.DumpIEs, _ = flags.GetBool("dump-ies")
	}
	if flags.Changed("print-debug") {
		c.Codec.PrintDebug, _ = flags.GetBool("print-debug")
	}
	if flags.Changed("tag") {
		c.Codec.CodecTag, _ = flags.GetString("tag")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LogReport logs the optional IEs a call skipped.
func LogReport(r *rl3.Report) {
	for _, e := range r.Tolerated {
		logrus.WithField("ie", e.IE).WithError(e.Err).Warn(e.Status.String())
	}
}
