package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
)

var errMissingID = errors.New("missing ID argument")

// idArg parses the first positional argument as an item ID.
func idArg(c *cli.Command) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, errMissingID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid ID %q", raw)
	}
	return id, nil
}

// titleArg joins the positional arguments from index i onward.
func titleArg(c *cli.Command, i int) string {
	args := c.Args().Slice()
	if len(args) <= i {
		return ""
	}
	return strings.Join(args[i:], " ")
}
