package cmd

import "github.com/ardnew/litweb/web"

var (
	ErrJSONMarshal = web.NewError("marshal JSON")
	ErrYAMLMarshal = web.NewError("marshal YAML")
	ErrWriteConfig = web.NewError("write configuration file")
	ErrFileExists  = web.NewError("file exists (use --force to overwrite)")
	ErrInvalidPair = web.NewError("expected NAME=VALUE")
	ErrFilter      = web.NewError("invalid filter expression")
)
