// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package logging constructs the zerolog loggers used across Loom.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const (
	FieldComponent = "component"

	FieldAddress   = "address"
	FieldPubkey    = "pubkey"
	FieldDepth     = "depth"
	FieldReason    = "reason"
	FieldSteps     = "steps"
	FieldBlobSize  = "blobSize"
	FieldFrameKind = "frame"
)

// SetupGlobalLogger sets the global level and replaces the global logger.
func SetupGlobalLogger(level string) error {
	if err := TrySetupGlobalLevel(level); err != nil {
		return err
	}
	log.Logger = NewLogger("global")
	return nil
}

func TrySetupGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

// defaults to INFO
func SetLogSeverityFromEnv() {
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err != nil || lvl == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(lvl)
	}
}

func makeBold(str any, disabled bool) string {
	const colorBold = 1

	if disabled {
		return fmt.Sprintf("%s", str)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", colorBold, str)
}

// makeComponentPreparer decorates the component part only. Other fields
// keep the default value formatting.
func makeComponentPreparer(noColor bool) func(map[string]any) error {
	return func(evt map[string]any) error {
		if c, found := evt[FieldComponent]; found {
			evt[FieldComponent] = makeBold(fmt.Sprintf("[%s]\t", c), noColor)
		}
		return nil
	}
}

func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{FieldComponent},
		FormatPrepare: makeComponentPreparer(noColor),
		NoColor:       noColor,
	}
}

// NewLogger returns a console logger tagged with the given component.
func NewLogger(component string) zerolog.Logger {
	noColor := os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd()))
	return zerolog.New(newConsoleWriter(os.Stderr, noColor)).
		With().
		Str(FieldComponent, component).
		Caller().
		Timestamp().
		Logger()
}
