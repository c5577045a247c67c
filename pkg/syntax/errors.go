package syntax

import (
	"fmt"
	"strings"

	"github.com/aretw0/gatlab/pkg/expr"
)

// DomainError is returned by strict construction when the arguments of a
// constructor violate one of its equations.
type DomainError struct {
	Constructor string
	Args        []any
	Equation    string // the first equation that failed
}

func (e *DomainError) Error() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		if x, ok := a.(*expr.Expr); ok {
			args[i] = x.String()
		} else {
			args[i] = fmt.Sprintf("%v", a)
		}
	}
	msg := fmt.Sprintf("domain error: %s not defined for arguments [%s]", e.Constructor, strings.Join(args, ", "))
	if e.Equation != "" {
		msg += fmt.Sprintf(" (violates %s)", e.Equation)
	}
	return msg
}

// ArgumentError reports arguments that do not match a constructor's declared
// parameters (wrong count or wrong sort).
type ArgumentError struct {
	Constructor string
	Reason      string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Constructor, e.Reason)
}
