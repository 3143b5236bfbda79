package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/dosely/pkg/cli"
)

var version = "dev"

func main() {
	// .env is optional; DOSELY_* variables may also come from the shell.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
