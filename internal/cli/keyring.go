package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/storage/postgres"
)

var secretNames = map[string]string{
	"api-key":    constants.KeyringUserAPIKey,
	"connection": constants.KeyringUserConnection,
}

type KeyringSetCmd struct {
	Name  string `arg:"" enum:"api-key,connection" help:"Secret to store (api-key|connection)."`
	Value string `arg:"" optional:"" help:"Secret value. Read from stdin when omitted."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	value := c.Value
	if value == "" {
		fmt.Fprintf(ctx.Out, "Enter %s: ", c.Name)
		line, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read %s: %w", c.Name, err)
		}
		value = strings.TrimSpace(line)
	}
	if c.Name == "connection" {
		if err := postgres.ValidateConnString(value); err != nil {
			return err
		}
	}

	if err := keyring.Set(secretNames[c.Name], value); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s Stored %s in the OS keyring\n", okMark(), c.Name)
	return nil
}

type KeyringDeleteCmd struct {
	Name string `arg:"" enum:"api-key,connection" help:"Secret to delete (api-key|connection)."`
}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.Delete(secretNames[c.Name]); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Fprintf(ctx.Out, "No %s stored\n", c.Name)
			return nil
		}
		return err
	}
	fmt.Fprintf(ctx.Out, "%s Deleted %s from the OS keyring\n", okMark(), c.Name)
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintf(ctx.Out, "%s OS keyring is not available\n", warnMark())
		return nil
	}
	tbl := newTable("SECRET", "STATUS")
	for _, name := range []string{"api-key", "connection"} {
		status := "not set"
		if _, err := keyring.Get(secretNames[name]); err == nil {
			status = "stored"
		} else if !errors.Is(err, keyring.ErrNotFound) {
			status = err.Error()
		}
		tbl.AddRow(name, status)
	}
	fmt.Fprintln(ctx.Out, tbl)
	return nil
}
