package marlin

import (
	"fmt"

	"github.com/mastercactapus/polargraph/gcode"
)

// Op identifies a Command variant.
type Op int

const (
	OpHeartbeat Op = iota
	OpPromptsSupported
	OpPromptAnswerContinue
	OpPen
	OpMotorsEngage
	OpMotorsDisengage
	OpFindHome
	OpRaw
	OpEmergencyStop

	// OpDie marks the end of the run. It is never sent to the device.
	OpDie
)

func (op Op) String() string {
	switch op {
	case OpHeartbeat:
		return "Heartbeat"
	case OpPromptsSupported:
		return "PromptsSupported"
	case OpPromptAnswerContinue:
		return "PromptAnswerContinue"
	case OpPen:
		return "Pen"
	case OpMotorsEngage:
		return "MotorsEngage"
	case OpMotorsDisengage:
		return "MotorsDisengage"
	case OpFindHome:
		return "FindHome"
	case OpRaw:
		return "Raw"
	case OpEmergencyStop:
		return "EmergencyStop"
	case OpDie:
		return "Die"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// A Command is a single instruction for the controller.
//
// Only the fields relevant to Op are set; Commands are comparable.
type Command struct {
	Op Op

	// Pen
	Angle    int
	Duration int

	// Raw
	Text string
}

var (
	Heartbeat            = Command{Op: OpHeartbeat}
	PromptsSupported     = Command{Op: OpPromptsSupported}
	PromptAnswerContinue = Command{Op: OpPromptAnswerContinue}
	MotorsEngage         = Command{Op: OpMotorsEngage}
	MotorsDisengage      = Command{Op: OpMotorsDisengage}
	FindHome             = Command{Op: OpFindHome}
	EmergencyStop        = Command{Op: OpEmergencyStop}
	Die                  = Command{Op: OpDie}
)

// Pen moves the pen servo to angle (0-180) over ms milliseconds.
func Pen(angle, ms int) Command { return Command{Op: OpPen, Angle: angle, Duration: ms} }

// Raw passes text to the device unchanged.
func Raw(text string) Command { return Command{Op: OpRaw, Text: text} }

// PenUp is the pen position used when parking.
var PenUp = Pen(90, 250)

func (c Command) block() gcode.Block {
	m := func(code float64, args ...gcode.Word) gcode.Block {
		return append(gcode.Block{{W: 'M', Arg: code}}, args...)
	}
	switch c.Op {
	case OpHeartbeat:
		return m(400)
	case OpPromptsSupported:
		return m(876, gcode.Word{W: 'P', Arg: 1})
	case OpPromptAnswerContinue:
		return m(876, gcode.Word{W: 'S', Arg: 0})
	case OpPen:
		return m(280,
			gcode.Word{W: 'P', Arg: 0},
			gcode.Word{W: 'S', Arg: float64(c.Angle)},
			gcode.Word{W: 'T', Arg: float64(c.Duration)},
		)
	case OpMotorsEngage:
		return m(17)
	case OpMotorsDisengage:
		return m(18)
	case OpFindHome:
		return gcode.Block{{W: 'G', Arg: 28}, gcode.Axis('X'), gcode.Axis('Y')}
	case OpEmergencyStop:
		return m(112)
	}
	return nil
}

// Encode returns the wire text for c, without the line delimiter.
//
// Die has no encoding and returns ErrNotTransmittable; callers must
// check for it before sending.
func (c Command) Encode() (string, error) {
	switch c.Op {
	case OpDie:
		return "", ErrNotTransmittable
	case OpRaw:
		return c.Text, nil
	case OpPen:
		if c.Angle < 0 || c.Angle > 180 {
			return "", fmt.Errorf("pen angle %d out of range 0-180", c.Angle)
		}
		if c.Duration < 0 {
			return "", fmt.Errorf("pen duration %dms is negative", c.Duration)
		}
	}

	b := c.block()
	if err := b.Validate(); err != nil {
		return "", fmt.Errorf("encode %s: %w", c.Op, err)
	}
	return b.String(), nil
}

func (c Command) String() string {
	switch c.Op {
	case OpPen:
		return fmt.Sprintf("Pen(%d, %d)", c.Angle, c.Duration)
	case OpRaw:
		return fmt.Sprintf("Raw(%q)", c.Text)
	}
	return c.Op.String()
}
