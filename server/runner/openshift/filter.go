package openshift

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/stekc/myTimeAPI/server/service/schedule"
	"github.com/stekc/myTimeAPI/server/timezone"
)

// Filter decides which open shifts are announced. The expression sees
//
//	hours   double     posted shift length
//	job     string     job name
//	start   timestamp  shift start
//	end     timestamp  shift end
//	weekday string     "Monday" ... "Sunday"
//	date    string     "2006-01-02"
//
// e.g. `hours >= 4.0 && weekday != "Sunday"`.
type Filter struct {
	expr    string
	program cel.Program
}

func newFilterEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("hours", cel.DoubleType),
		cel.Variable("job", cel.StringType),
		cel.Variable("start", cel.TimestampType),
		cel.Variable("end", cel.TimestampType),
		cel.Variable("weekday", cel.StringType),
		cel.Variable("date", cel.StringType),
	)
}

// NewFilter compiles expr. An empty expression yields a nil filter that
// matches everything.
func NewFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := newFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("invalid watch filter %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("watch filter %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build watch filter program: %w", err)
	}
	return &Filter{expr: expr, program: program}, nil
}

// Match evaluates the filter against shift.
func (f *Filter) Match(shift *schedule.AvailableShift) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, _, err := f.program.Eval(map[string]any{
		"hours":   shift.Hours,
		"job":     shift.Job,
		"start":   shift.Start,
		"end":     shift.End,
		"weekday": shift.Start.Weekday().String(),
		"date":    shift.Start.Format(timezone.DateLayout),
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate watch filter %q: %w", f.expr, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("watch filter %q returned %T", f.expr, out.Value())
	}
	return matched, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}
