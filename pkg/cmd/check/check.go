package check

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var selectExpr string

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "commands to check predictions and debris tables offline",
	}
	cmd.PersistentFlags().StringVar(&selectExpr,
		"select",
		"",
		"JSONPath expression to reduce the output, e.g. $.recommendations.impact_area")

	cmd.AddCommand(NewCheckPredictCmd())
	cmd.AddCommand(NewCheckTableCmd())
	return cmd
}

var errNoMatch = errors.New("select expression matched nothing")

// render marshals v and optionally reduces it with a JSONPath expression.
func render(v any, expr string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	obj, err := oj.Parse(data)
	if err != nil {
		return "", err
	}
	opts := &oj.Options{Indent: 2}
	if expr == "" {
		return oj.JSON(obj, opts), nil
	}
	path, err := jp.ParseString(expr)
	if err != nil {
		return "", fmt.Errorf("invalid select expression: %w", err)
	}
	res := path.Get(obj)
	switch len(res) {
	case 0:
		return "", errNoMatch
	case 1:
		return oj.JSON(res[0], opts), nil
	default:
		return oj.JSON(res, opts), nil
	}
}
