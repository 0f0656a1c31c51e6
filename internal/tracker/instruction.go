package tracker

import "fmt"

// Instruction is the typed form of the 1-byte wire discriminator.
type Instruction uint8

const (
	InstructionInitialize Instruction = 0 // Creates the tracker record, exactly once
	InstructionPlaySeason Instruction = 1 // Plays the next season from the catalog
)

func (i Instruction) String() string {
	switch i {
	case InstructionInitialize:
		return "initialize"
	case InstructionPlaySeason:
		return "play-season"
	}
	return fmt.Sprintf("unknown(%d)", uint8(i))
}

// UnpackInstruction decodes the leading discriminator of a raw request.
// Both current instructions carry no payload beyond the discriminator, so the
// remainder of the buffer is ignored.
func UnpackInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty instruction data", ErrUnknownInstruction)
	}
	switch data[0] {
	case 0:
		return InstructionInitialize, nil
	case 1:
		return InstructionPlaySeason, nil
	default:
		return 0, fmt.Errorf("%w: discriminator %d", ErrUnknownInstruction, data[0])
	}
}
