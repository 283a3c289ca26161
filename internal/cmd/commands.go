package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
	"github.com/hashicorp-forge/scribd-go/internal/cmd/commands/account"
	"github.com/hashicorp-forge/scribd-go/internal/cmd/commands/documents"
	"github.com/hashicorp-forge/scribd-go/internal/cmd/commands/version"
)

func initCommands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := base.New(log, ui)

	return map[string]cli.CommandFactory{
		"list": func() (cli.Command, error) {
			return &documents.ListCommand{Command: b}, nil
		},
		"search": func() (cli.Command, error) {
			return &documents.SearchCommand{Command: b}, nil
		},
		"get": func() (cli.Command, error) {
			return &documents.GetCommand{Command: b}, nil
		},
		"upload": func() (cli.Command, error) {
			return &documents.UploadCommand{Command: b}, nil
		},
		"update": func() (cli.Command, error) {
			return &documents.UpdateCommand{Command: b}, nil
		},
		"delete": func() (cli.Command, error) {
			return &documents.DeleteCommand{Command: b}, nil
		},
		"status": func() (cli.Command, error) {
			return &documents.StatusCommand{Command: b}, nil
		},
		"url": func() (cli.Command, error) {
			return &documents.URLCommand{Command: b}, nil
		},
		"autologin": func() (cli.Command, error) {
			return &account.AutoLoginCommand{Command: b}, nil
		},
		"signup": func() (cli.Command, error) {
			return &account.SignupCommand{Command: b}, nil
		},
		"access": func() (cli.Command, error) {
			return &account.AccessCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
