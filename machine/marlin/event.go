package marlin

import (
	"strings"
)

// Lines sent by the Polargraph firmware.
const (
	ReadyNotice   = "//action:notification Polargraph Ready."
	AckLine       = "ok"
	PromptShow    = "//action:prompt_show"
	ErrorPrefix   = "Error:"
	HaltIndicator = "Printer halted"
	EchoPrefix    = "echo:"
)

// An Event is a classified line from the device.
type Event interface{ event() }

type (
	EventReady  struct{}
	EventOK     struct{}
	EventPrompt struct{}

	// EventError is a non-fatal error; the device pauses until it
	// signals ready again.
	EventError struct{ Message string }

	// EventHalt means the firmware has stopped and needs a reset.
	// Line is the device output exactly as received.
	EventHalt struct{ Message, Line string }

	EventUnknown struct{ Data string }
)

func (EventReady) event()   {}
func (EventOK) event()      {}
func (EventPrompt) event()  {}
func (EventError) event()   {}
func (EventHalt) event()    {}
func (EventUnknown) event() {}

// ParseEvent classifies a single line of device output.
func ParseEvent(line string) Event {
	switch {
	case line == ReadyNotice:
		return EventReady{}
	case line == AckLine:
		return EventOK{}
	case line == PromptShow:
		return EventPrompt{}
	case strings.HasPrefix(line, ErrorPrefix):
		msg := strings.TrimSpace(strings.TrimPrefix(line, ErrorPrefix))
		if strings.Contains(line, HaltIndicator) {
			return EventHalt{Message: msg, Line: line}
		}
		return EventError{Message: msg}
	}
	return EventUnknown{Data: line}
}
