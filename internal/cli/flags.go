package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/pibench/pibench/internal/config"
)

// countValue is a uint64 flag that accepts '_' separators (50_000_000).
type countValue struct {
	p *uint64
}

var _ pflag.Value = (*countValue)(nil)

func newCountValue(p *uint64) *countValue {
	return &countValue{p: p}
}

func (c *countValue) String() string {
	if c.p == nil {
		return "0"
	}
	return strconv.FormatUint(*c.p, 10)
}

func (c *countValue) Set(s string) error {
	n, err := config.ParseCount(s)
	if err != nil {
		return err
	}
	*c.p = n
	return nil
}

func (c *countValue) Type() string {
	return "count"
}

// intCountValue is an int flag with the same syntax as countValue.
type intCountValue struct {
	p *int
}

var _ pflag.Value = (*intCountValue)(nil)

func newIntCountValue(p *int) *intCountValue {
	return &intCountValue{p: p}
}

func (c *intCountValue) String() string {
	if c.p == nil {
		return "0"
	}
	return strconv.Itoa(*c.p)
}

func (c *intCountValue) Set(s string) error {
	n, err := config.ParseCount(s)
	if err != nil {
		return err
	}
	if n > math.MaxInt {
		return fmt.Errorf("%d is out of range", n)
	}
	*c.p = int(n)
	return nil
}

func (c *intCountValue) Type() string {
	return "count"
}

// addSaveFlags registers --save-json and its hidden aliases --json and --output-json.
func addSaveFlags(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "save-json", "", "append this run to a JSON file (directories created automatically)")
	fs.StringVar(p, "json", "", "alias for --save-json")
	fs.StringVar(p, "output-json", "", "alias for --save-json")
	_ = fs.MarkHidden("json")
	_ = fs.MarkHidden("output-json")
}

// saveFlagChanged reports whether any of the save flags was given.
func saveFlagChanged(fs *pflag.FlagSet) bool {
	return fs.Changed("save-json") || fs.Changed("json") || fs.Changed("output-json")
}
