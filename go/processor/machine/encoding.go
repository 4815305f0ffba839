// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package machine

import (
	"fmt"

	"github.com/Fantom-foundation/Loom/go/common/logging"
	"github.com/Fantom-foundation/Loom/go/interpreter/stepper"
	"github.com/Fantom-foundation/Loom/go/loom"
	"github.com/Fantom-foundation/Loom/go/persist"
	"github.com/Fantom-foundation/Loom/go/state"
	"github.com/rs/zerolog"
)

// ErrInvalidSnapshot is returned when restoring a machine from a blob that
// does not describe an active execution.
const ErrInvalidSnapshot = loom.ConstError("invalid machine snapshot")

type frameState struct {
	Kind    frameKind
	Target  loom.Address
	Runtime *stepper.Runtime
}

type machineState struct {
	Frames   []frameState
	Substate *state.Substate
}

// Persist writes the frames and the substate into the sink. The backend is
// not part of the snapshot.
func (m *Machine) Persist(sink persist.Store, codec persist.Codec) error {
	if !m.Active() {
		return ErrMachineEmpty
	}
	snapshot := machineState{
		Frames:   make([]frameState, 0, len(m.frames)),
		Substate: m.state().Substate(),
	}
	for _, f := range m.frames {
		snapshot.Frames = append(snapshot.Frames, frameState{Kind: f.kind, Target: f.target, Runtime: f.runtime})
	}
	blob, err := codec.Serialize(&snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize machine: %w", err)
	}
	if err := sink.Write(blob); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	m.logger.Debug().Int(logging.FieldBlobSize, len(blob)).Int(logging.FieldDepth, len(m.frames)-1).Msg("Machine persisted")
	return nil
}

// Restore reconstructs a persisted machine on top of the given backend.
func Restore(source persist.Store, backend loom.Backend, config loom.Config, logger zerolog.Logger) (*Machine, error) {
	blob, err := source.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snapshot machineState
	if err := (persist.Codec{}).Deserialize(blob, &snapshot); err != nil {
		return nil, err
	}
	if len(snapshot.Frames) == 0 || snapshot.Substate == nil {
		return nil, fmt.Errorf("no frames: %w", ErrInvalidSnapshot)
	}
	if entered := snapshot.Substate.Entered(); entered != len(snapshot.Frames) {
		return nil, fmt.Errorf("%d frames on %d substate levels: %w", len(snapshot.Frames), entered, ErrInvalidSnapshot)
	}

	st := state.NewExecutorState(backend, snapshot.Substate)
	m := &Machine{
		executor: newExecutor(st, config, logger),
		frames:   make([]*frame, 0, len(snapshot.Frames)),
		logger:   logger,
	}
	for i, f := range snapshot.Frames {
		if f.Kind != frameCall && f.Kind != frameCreate {
			return nil, fmt.Errorf("frame %d of kind %d: %w", i, f.Kind, ErrInvalidSnapshot)
		}
		if f.Runtime == nil {
			return nil, fmt.Errorf("frame %d without runtime: %w", i, ErrInvalidSnapshot)
		}
		if _, exited := f.Runtime.Exited(); exited {
			return nil, fmt.Errorf("frame %d already exited: %w", i, ErrInvalidSnapshot)
		}
		if i+1 < len(snapshot.Frames) && !f.Runtime.Awaiting() {
			return nil, fmt.Errorf("frame %d is not waiting for its nested frame: %w", i, ErrInvalidSnapshot)
		}
		m.frames = append(m.frames, &frame{kind: f.Kind, target: f.Target, runtime: f.Runtime})
	}
	logger.Debug().Int(logging.FieldBlobSize, len(blob)).Int(logging.FieldDepth, len(m.frames)-1).Msg("Machine restored")
	return m, nil
}
