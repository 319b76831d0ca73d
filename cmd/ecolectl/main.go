// Command ecolectl drives the school backend from a terminal. The session is
// kept in a local file between invocations.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
	"github.com/ecolenet/school-portal/internal/infrastructure/db/filestore"
	"github.com/ecolenet/school-portal/internal/pkg/config"
	"github.com/ecolenet/school-portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	path := cfg.Store.Path
	if path == "" {
		if path, err = filestore.DefaultPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	level := "warn"
	if os.Getenv("LOG_LEVEL") != "" {
		level = cfg.LogLevel
	}
	a := &app{
		out:          os.Stdout,
		backendURL:   cfg.BackendURL,
		storePath:    path,
		downloadDir:  cfg.DownloadDir,
		readPassword: promptPassword,
		log:          logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr}),
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// userMessage keeps backend payloads and auth internals off the terminal.
func userMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
