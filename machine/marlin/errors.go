package marlin

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrLineTooLong is returned when the line buffer fills up
	// without seeing a line delimiter.
	ErrLineTooLong = errors.New("line too long")

	// ErrGarbageLine is returned for device output that is not valid text,
	// most often caused by a baud rate mismatch.
	ErrGarbageLine = errors.New("garbage line")

	// ErrPrinterHalted is returned when the firmware reports it has halted.
	ErrPrinterHalted = errors.New("printer halted")

	// ErrNotTransmittable is returned when encoding a command that has
	// no wire representation.
	ErrNotTransmittable = errors.New("command is not transmittable")

	// ErrReadTimeout is returned by a Port when no data arrived within
	// its read timeout. It is not a failure.
	ErrReadTimeout = errors.New("read timeout")
)

// LineTooLongError carries the start of the line that overflowed the buffer.
type LineTooLongError struct {
	Size   int
	Prefix []byte
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line too long (no delimiter in %d bytes): %q...", e.Size, e.Prefix)
}

func (e *LineTooLongError) Is(target error) bool { return target == ErrLineTooLong }

// GarbageLineError carries the raw bytes of a line that failed to decode.
type GarbageLineError struct {
	Line []byte
}

func (e *GarbageLineError) Error() string {
	return "garbage line (check baud rate): " + strconv.Quote(string(e.Line))
}

func (e *GarbageLineError) Is(target error) bool { return target == ErrGarbageLine }

// DeviceError is a fatal error reported by the firmware.
type DeviceError struct {
	Line string
}

func (e *DeviceError) Error() string { return "device: " + e.Line }

func (e *DeviceError) Is(target error) bool { return target == ErrPrinterHalted }
