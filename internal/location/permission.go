package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FixedPermission answers the permission request from configuration.
type FixedPermission bool

func (p FixedPermission) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(p), nil
}

// PromptPermission asks the user on a terminal. Only "y" or "yes" grants
// access; anything else, including end of input, is a denial.
type PromptPermission struct {
	In  io.Reader
	Out io.Writer
	App string
}

func (p PromptPermission) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := fmt.Fprintf(p.Out, "Allow %s to use your location? [y/N] ", p.App); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// StaticPositioner reports a configured position.
type StaticPositioner struct {
	Coords Coordinates
}

func (p StaticPositioner) CurrentPosition(ctx context.Context, _ Accuracy) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return p.Coords, nil
}
