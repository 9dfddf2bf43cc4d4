package rl3

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gsml3/pkg/xmltree"
)

// Flags alter the shape of the decoded XML.
type Flags uint8

const (
	// XmlDumpMsg adds a message_payload element with the whole input.
	XmlDumpMsg Flags = 1 << iota
	// XmlDumpIEs splits unparsed trailing octets into ie elements.
	XmlDumpIEs
)

const (
	DefaultCodecTag = "codecTag"

	encAttr  = "enc"
	typeAttr = "type"
	dataTag  = "data"
	ieTag    = "ie"
)

type codecOpts struct {
	role       Role
	flags      Flags
	log        *logrus.Entry
	hooks      SecurityHooks
	tag        string
	printDebug bool
}

type CodecOpt func(*codecOpts)

func WithRole(r Role) CodecOpt {
	return func(o *codecOpts) { o.role = r }
}

func WithFlags(f Flags) CodecOpt {
	return func(o *codecOpts) { o.flags = f }
}

func WithLogger(l *logrus.Entry) CodecOpt {
	return func(o *codecOpts) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSecurityHooks installs the EPS NAS protection hooks.
func WithSecurityHooks(h SecurityHooks) CodecOpt {
	return func(o *codecOpts) {
		if h != nil {
			o.hooks = h
		}
	}
}

// WithDefaultCodecTag sets the marker element used by DecodeXML and EncodeXML.
func WithDefaultCodecTag(tag string) CodecOpt {
	return func(o *codecOpts) { o.tag = tag }
}

// WithPrintDebug logs every payload together with its XML form.
func WithPrintDebug(enable bool) CodecOpt {
	return func(o *codecOpts) { o.printDebug = enable }
}

// Codec converts Radio Layer 3 messages between their binary form and XML.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	opts codecOpts
}

func New(opts ...CodecOpt) *Codec {
	o := codecOpts{
		role:  Network,
		log:   logrus.WithField("module", "rl3"),
		hooks: NopSecurityHooks{},
		tag:   DefaultCodecTag,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Codec{opts: o}
}

func (cd *Codec) Role() Role { return cd.opts.role }

// Tag is the marker element name DecodeXML and EncodeXML look for.
func (cd *Codec) Tag() string { return cd.opts.tag }

type callOpts struct {
	seq    uint8
	hasSeq bool
	report *Report
	tag    string
}

type CallOpt func(*callOpts)

// WithSequenceNumber sets the NAS sequence number used when protecting an
// EPS message. Without it the SequenceNumber element is used.
func WithSequenceNumber(seq uint8) CallOpt {
	return func(o *callOpts) {
		o.seq = seq
		o.hasSeq = true
	}
}

// WithReport collects the tolerated optional IE failures of the call.
func WithReport(r *Report) CallOpt {
	return func(o *callOpts) { o.report = r }
}

func WithCodecTag(tag string) CallOpt {
	return func(o *callOpts) { o.tag = tag }
}

// call is the immutable state shared by one decode or encode operation.
type call struct {
	codecOpts
	callOpts
}

func (cd *Codec) newCall(opts []CallOpt) *call {
	c := &call{codecOpts: cd.opts}
	c.callOpts.tag = cd.opts.tag
	for _, opt := range opts {
		opt(&c.callOpts)
	}
	return c
}

// tolerate records a failure of an optional parameter.
func (c *call) tolerate(e *Error) {
	c.log.WithError(e).Debug("optional IE ignored")
	c.report.add(e)
}

// Decode parses a complete Radio Layer 3 message and returns the element
// named after its protocol. On failure the partially built tree is returned
// together with the error.
func (cd *Codec) Decode(data []byte, opts ...CallOpt) (*xmltree.Element, error) {
	if len(data) < 2 {
		return nil, statusErr(MsgTooShort, "", "message of %d bytes", len(data))
	}
	c := cd.newCall(opts)
	holder := xmltree.New("rl3")
	err := c.decodeParams(Unknown, rl3Message, NewCursor(data), holder)
	root := holder.FirstChild()
	if err != nil {
		c.log.WithError(err).Warn("decoding failed")
	}
	c.printDbg(false, data, root)
	return root, err
}

// Encode builds the binary form of the message rooted at the protocol
// element root.
func (cd *Codec) Encode(root *xmltree.Element, opts ...CallOpt) ([]byte, error) {
	if root == nil {
		return nil, statusErr(MissingParam, "", "nothing to encode")
	}
	c := cd.newCall(opts)
	var out Buffer
	err := c.encodeParams(Unknown, rl3Message, root, &out)
	if err != nil {
		c.log.WithError(err).Warn("encoding failed")
	}
	c.printDbg(true, out.Bytes(), root)
	return out.Bytes(), err
}

// DecodeXML expands, in place, every marker element of doc holding a hex
// encoded message. Expanded elements get enc="xml" and the decoded tree as
// their child. The walk continues past failures and returns the last one.
func (cd *Codec) DecodeXML(doc *xmltree.Element, opts ...CallOpt) error {
	c := cd.newCall(opts)
	if doc == nil || c.callOpts.tag == "" {
		return statusErr(MissingParam, "", "missing document or codec tag")
	}
	return cd.decodeXML(c, doc, opts)
}

func (cd *Codec) decodeXML(c *call, el *xmltree.Element, opts []CallOpt) error {
	if el.Tag == c.callOpts.tag && el.Text != "" && el.Attr(encAttr) == "hex" {
		data, err := hex.DecodeString(strings.TrimSpace(el.Text))
		if err != nil {
			c.log.WithError(err).WithField("tag", el.Tag).Info("invalid hex payload")
			return &Error{Status: ParserErr, Err: errors.Wrap(err, "rl3.DecodeXML")}
		}
		root, err := cd.Decode(data, opts...)
		if root != nil {
			el.Text = ""
			el.ClearChildren()
			el.AddChild(root)
			el.SetAttr(encAttr, "xml")
		}
		return err
	}
	var last error
	for _, child := range el.Children {
		if err := cd.decodeXML(c, child, opts); err != nil {
			last = err
		}
	}
	return last
}

// EncodeXML is the inverse of DecodeXML: marker elements with enc="xml" are
// replaced by the hex form of their first child.
func (cd *Codec) EncodeXML(doc *xmltree.Element, opts ...CallOpt) error {
	c := cd.newCall(opts)
	if doc == nil || c.callOpts.tag == "" {
		return statusErr(MissingParam, "", "missing document or codec tag")
	}
	return cd.encodeXML(c, doc, opts)
}

func (cd *Codec) encodeXML(c *call, el *xmltree.Element, opts []CallOpt) error {
	if el.Tag == c.callOpts.tag && el.Attr(encAttr) == "xml" {
		root := el.FirstChild()
		if root == nil {
			return statusErr(ParserErr, "", "no XML to encode in %s", el.Tag)
		}
		data, err := cd.Encode(root, opts...)
		if err != nil {
			return err
		}
		el.ClearChildren()
		el.Text = hex.EncodeToString(data)
		el.SetAttr(encAttr, "hex")
		return nil
	}
	var last error
	for _, child := range el.Children {
		if err := cd.encodeXML(c, child, opts); err != nil {
			last = err
		}
	}
	return last
}

func (c *call) printDbg(encode bool, data []byte, root *xmltree.Element) {
	if !c.printDebug {
		return
	}
	xml := ""
	if root != nil {
		xml = root.Indent("  ")
	}
	fields := logrus.Fields{"payload": hex.EncodeToString(data), "xml": xml}
	if encode {
		c.log.WithFields(fields).Info("encoded")
		return
	}
	c.log.WithFields(fields).Info("decoded")
}
