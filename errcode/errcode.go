// Package errcode holds the stable error identifiers shared by the firmware
// and the host tools.
package errcode

// Code is a short, comparable error identifier. It implements error.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK              Code = "ok"
	InvalidConfig   Code = "invalid_config"
	MissingHAL      Code = "missing_hal"
	PeripheralInit  Code = "peripheral_init"
	PeripheralWrite Code = "peripheral_write"
	Unsupported     Code = "unsupported"

	Error Code = "error" // generic fallback
)

// E carries a Code together with the failing operation and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is match an *E against its bare Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Wrap attaches op and code to a lower-level error. A nil err stays nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}
