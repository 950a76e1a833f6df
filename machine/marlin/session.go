package marlin

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mastercactapus/polargraph/gcode"
)

// EmergencyStops is how many M112s are queued on interrupt, in case
// the firmware drops one.
const EmergencyStops = 3

// Readiness tracks whether the device may accept the next command.
type Readiness int

const (
	ReadinessUnknown Readiness = iota
	NotReady
	Ready
)

func (r Readiness) String() string {
	switch r {
	case NotReady:
		return "not-ready"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Session is the protocol state for one run. It allows a single command
// in flight and is not safe for concurrent use; Conn owns it.
type Session struct {
	w       io.Writer
	program gcode.LineReader
	log     zerolog.Logger

	readiness Readiness
	queue     []Command
	sent      int64
}

// NewSession creates a Session that writes commands to w and pulls
// its program from program once the device first becomes idle.
// A nil program is treated as empty.
func NewSession(w io.Writer, program gcode.LineReader, log zerolog.Logger) *Session {
	return &Session{
		w:       w,
		program: program,
		log:     log,
	}
}

func (s *Session) Readiness() Readiness { return s.readiness }

// Sent returns the number of commands written so far.
func (s *Session) Sent() int64 { return s.sent }

// Queue returns a copy of the pending commands.
func (s *Session) Queue() []Command { return slices.Clone(s.queue) }

// Enqueue adds cmds to the end of the queue.
func (s *Session) Enqueue(cmds ...Command) { s.queue = append(s.queue, cmds...) }

// Preempt adds cmds to the front of the queue, ahead of everything
// already pending.
func (s *Session) Preempt(cmds ...Command) { s.queue = slices.Insert(s.queue, 0, cmds...) }

// TrySend writes the next command if the device is ready for it.
//
// It returns the popped command and true if one was taken from the queue.
// Die is returned without being sent, and readiness is left alone.
func (s *Session) TrySend() (Command, bool, error) {
	if s.readiness != Ready || len(s.queue) == 0 {
		return Command{}, false, nil
	}

	cmd := s.queue[0]
	s.queue = s.queue[1:]
	if cmd.Op == OpDie {
		return cmd, true, nil
	}

	s.readiness = NotReady
	s.sent++

	text, err := cmd.Encode()
	if err != nil {
		return cmd, true, fmt.Errorf("send #%d: %w", s.sent, err)
	}
	_, err = io.WriteString(s.w, text+"\n")
	if err != nil {
		return cmd, true, fmt.Errorf("write #%d %s: %w", s.sent, text, err)
	}
	s.log.Debug().Int64("id", s.sent).Str("cmd", text).Msg("sent")

	return cmd, true, nil
}

// Step sends the next command, if possible, and reports if the
// run is over.
func (s *Session) Step() (done bool, err error) {
	cmd, ok, err := s.TrySend()
	if err != nil {
		return false, err
	}
	return ok && cmd.Op == OpDie, nil
}

// Apply updates the session for a single device event.
func (s *Session) Apply(ev Event) error {
	switch e := ev.(type) {
	case EventReady, EventOK:
		s.readiness = Ready
	case EventPrompt:
		// The prompt is not interpreted, it is always answered with "continue".
		s.readiness = Ready
		s.Preempt(PromptAnswerContinue)
	case EventHalt:
		return &DeviceError{Line: e.Line}
	case EventError:
		s.readiness = NotReady
		s.log.Warn().Str("error", e.Message).Int("pending", len(s.queue)).Msg("device paused")
	case EventUnknown:
		if strings.HasPrefix(e.Data, EchoPrefix) {
			s.log.Info().Msg(strings.TrimSpace(strings.TrimPrefix(e.Data, EchoPrefix)))
		}
	}
	return nil
}

// HandleLine classifies one line from the device, reacts to it, and
// sends the next command if the device is ready. It reports done once
// the end of the program has been reached.
func (s *Session) HandleLine(line []byte) (done bool, err error) {
	if !utf8.Valid(line) {
		return false, &GarbageLineError{Line: bytes.Clone(line)}
	}
	text := strings.TrimSuffix(string(line), "\r")
	s.log.Debug().Str("line", text).Msg("recv")

	err = s.Apply(ParseEvent(text))
	if err != nil {
		return false, err
	}

	if s.readiness == Ready && len(s.queue) == 0 {
		err = s.load()
		if err != nil {
			return false, err
		}
	}

	return s.Step()
}

// Interrupt moves the emergency stop sequence to the front of the queue.
// Repeated calls keep exactly EmergencyStops stops at the front.
func (s *Session) Interrupt() {
	n := 0
	for n < len(s.queue) && s.queue[n].Op == OpEmergencyStop {
		n++
	}
	if n >= EmergencyStops {
		return
	}
	s.Preempt(slices.Repeat([]Command{EmergencyStop}, EmergencyStops-n)...)
	s.log.Warn().Int("pending", len(s.queue)).Msg("interrupted, stopping")
}

// load reads the whole program into the queue, followed by the
// parking sequence and Die.
func (s *Session) load() error {
	home, err := FindHome.Encode()
	if err != nil {
		return err
	}

	var n int
	var homed bool
	for s.program != nil {
		line, err := s.program.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read program: %w", err)
		}
		if gcode.IsComment(line) {
			continue
		}
		if !homed && line == home {
			// the firmware homes on power up, skip the program's own homing once
			homed = true
			continue
		}
		s.Enqueue(Raw(line))
		n++
	}

	s.Enqueue(PenUp, FindHome, MotorsDisengage, Die)
	s.log.Info().Int("commands", n).Msg("program loaded")
	return nil
}
