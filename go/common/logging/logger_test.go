// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestTrySetupGlobalLevel_AcceptsKnownLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	tests := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"error": zerolog.ErrorLevel,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			if err := TrySetupGlobalLevel(name); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := zerolog.GlobalLevel(); got != want {
				t.Errorf("unexpected level, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestTrySetupGlobalLevel_RejectsUnknownLevel(t *testing.T) {
	if err := TrySetupGlobalLevel("verbose"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}

func TestMakeBold_RespectsDisabledColors(t *testing.T) {
	if want, got := "x", makeBold("x", true); want != got {
		t.Errorf("unexpected output, wanted %q, got %q", want, got)
	}
	if want, got := "\x1b[1mx\x1b[0m", makeBold("x", false); want != got {
		t.Errorf("unexpected output, wanted %q, got %q", want, got)
	}
}

func TestConsoleWriter_DecoratesComponentOnly(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(newConsoleWriter(&out, true)).
		With().
		Str(FieldComponent, "machine").
		Logger()
	logger.Info().Int(FieldDepth, 3).Msg("Frame entered")

	line := out.String()
	if !strings.Contains(line, "[machine]\t") {
		t.Errorf("component is not decorated: %q", line)
	}
	if !strings.Contains(line, "depth=3") || strings.Contains(line, "[3]") {
		t.Errorf("unexpected field formatting: %q", line)
	}
}
