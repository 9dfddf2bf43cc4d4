package xmldoc

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"gsml3/pkg/rl3"
	"gsml3/pkg/xmltree"
)

// Transform expands or collapses the marker elements of the document in r
// and writes the result to w. The document is written even when some
// markers fail.
func Transform(cd *rl3.Codec, r io.Reader, w io.Writer, encode, indent bool, opts ...rl3.CallOpt) error {
	doc, err := xmltree.Decode(r)
	if err != nil {
		return errors.Wrap(err, "xmltree.Decode")
	}

	if encode {
		err = cd.EncodeXML(doc, opts...)
	} else {
		err = cd.DecodeXML(doc, opts...)
	}

	if indent {
		fmt.Fprintln(w, doc.Indent("  "))
	} else {
		fmt.Fprintln(w, doc.String())
	}
	return err
}
