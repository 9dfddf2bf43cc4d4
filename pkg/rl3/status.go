package rl3

import (
	"fmt"

	"github.com/pkg/errors"
)

type Status int

const (
	NoError Status = iota
	MsgTooShort
	UnknownProto
	ParserErr
	MissingParam
	IncorrectOptionalIE
	IncorrectMandatoryIE
	MissingMandatoryIE
	UnknownMsgType
)

var statusNames = [...]string{
	NoError:              "NoError",
	MsgTooShort:          "MsgTooShort",
	UnknownProto:         "UnknownProto",
	ParserErr:            "ParserErr",
	MissingParam:         "MissingParam",
	IncorrectOptionalIE:  "IncorrectOptionalIE",
	IncorrectMandatoryIE: "IncorrectMandatoryIE",
	MissingMandatoryIE:   "MissingMandatoryIE",
	UnknownMsgType:       "UnknownMsgType",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Error carries the outcome of a failed decode or encode together with the
// information element it was raised for.
type Error struct {
	Status Status
	IE     string
	Err    error
}

func (e *Error) Error() string {
	s := e.Status.String()
	if e.IE != "" {
		s += " " + e.IE
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the status carried by err. Errors that did not originate
// in this package map to ParserErr.
func StatusOf(err error) Status {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return ParserErr
}

func statusErr(s Status, ie string, format string, args ...interface{}) error {
	return &Error{Status: s, IE: ie, Err: errors.Errorf(format, args...)}
}

// fold assigns the severity of a failure inside parameter p. Leaf coders
// report plain errors or errors with a structural status; the parameter's
// presence requirement decides the final classification.
func fold(p *Param, err error) *Error {
	var e *Error
	if p.Optional {
		return &Error{Status: IncorrectOptionalIE, IE: p.Name, Err: err}
	}
	if errors.As(err, &e) {
		if e.IE == "" {
			return &Error{Status: e.Status, IE: p.Name, Err: e.Err}
		}
		return e
	}
	return &Error{Status: IncorrectMandatoryIE, IE: p.Name, Err: err}
}

// Report collects failures of optional information elements that did not
// abort the operation.
type Report struct {
	Tolerated []*Error
}

func (r *Report) add(e *Error) {
	if r != nil {
		r.Tolerated = append(r.Tolerated, e)
	}
}
