package decode

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gsml3/internal/command"
	"gsml3/pkg/rl3"
)

type Decoder struct {
	Codec  *rl3.Codec
	Indent bool
	Out    io.Writer
}

// DecodeArgs decodes each argument as one message.
func (d *Decoder) DecodeArgs(args []string) error {
	var last error
	for _, arg := range args {
		if err := d.decodeHex(arg); err != nil {
			last = err
		}
	}
	return last
}

// DecodeLines decodes every non empty line of r. Lines starting with # are
// comments.
func (d *Decoder) DecodeLines(r io.Reader) error {
	var last error
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := d.decodeHex(line); err != nil {
			last = err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "bufio.Scanner")
	}
	return last
}

func (d *Decoder) decodeHex(s string) error {
	s = strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		logrus.WithField("input", s).WithError(err).Warn("Invalid hex")
		return errors.Wrap(err, "hex.DecodeString")
	}

	var report rl3.Report
	root, err := d.Codec.Decode(data, rl3.WithReport(&report))
	command.LogReport(&report)
	if root != nil {
		if d.Indent {
			fmt.Fprintln(d.Out, root.Indent("  "))
		} else {
			fmt.Fprintln(d.Out, root.String())
		}
	}
	return err
}
