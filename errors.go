package optdec

import "fmt"

// MissingParameterError reports a mandatory option that has no unconsumed
// occurrence left in the session.
type MissingParameterError struct {
	Name string
}

func (e MissingParameterError) Error() string {
	return fmt.Sprintf("parameter %q is missing", e.Name)
}

// InvalidParameterError reports an occurrence whose name was never consumed
// by any decode call when the outermost struct decode ends.
type InvalidParameterError struct {
	Name string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q", e.Name)
}

// InvalidParameterValueError reports an occurrence whose textual value does
// not parse as the requested type. Expected describes the accepted input.
type InvalidParameterValueError struct {
	Name     string
	Expected string
}

func (e InvalidParameterValueError) Error() string {
	return fmt.Sprintf("parameter %q expects %s", e.Name, e.Expected)
}
