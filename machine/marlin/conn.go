package marlin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/mastercactapus/polargraph/gcode"
)

// Conn streams a program to a Marlin controller over a serial connection.
type Conn struct {
	rw      io.ReadWriter
	bufSize int
	log     zerolog.Logger
}

// NewConn creates a new Conn using the provided ReadWriter for data.
//
// Reads from rw should give up after a short time with ErrReadTimeout
// (or os.ErrDeadlineExceeded) so that a quiet device is not mistaken
// for a closed one. io.EOF ends the run.
func NewConn(rw io.ReadWriter, bufSize int, log zerolog.Logger) *Conn {
	if bufSize <= 0 {
		bufSize = DefaultLineBufferSize
	}
	return &Conn{rw: rw, bufSize: bufSize, log: log}
}

func isTimeout(err error) bool {
	return errors.Is(err, ErrReadTimeout) || errors.Is(err, os.ErrDeadlineExceeded)
}

func (c *Conn) readLoop(ctx context.Context, data chan<- []byte, errCh chan<- error) {
	buf := make([]byte, c.bufSize)
	for {
		n, err := c.rw.Read(buf)
		if n > 0 {
			select {
			case data <- bytes.Clone(buf[:n]):
			case <-ctx.Done():
				return
			}
		}
		if err != nil && !isTimeout(err) {
			errCh <- err
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Run sends program to the device, one command at a time, until the
// program (and the parking sequence that follows it) is done or the
// device closes the connection.
//
// A value on interrupt puts emergency stops at the front of the queue;
// the run keeps going until the device halts or the queue drains.
func (c *Conn) Run(ctx context.Context, program gcode.LineReader, interrupt <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := NewSession(c.rw, program, c.log)
	lb := NewLineBuffer(c.bufSize)

	data := make(chan []byte)
	readErr := make(chan error, 1)
	go c.readLoop(ctx, data, readErr)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sig := <-interrupt:
			c.log.Warn().Stringer("signal", sig).Msg("interrupt received")
			sess.Interrupt()
			done, err := sess.Step()
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("read: %w", err)
			}
			if line := lb.Flush(); line != nil {
				_, err = sess.HandleLine(line)
				if err != nil {
					return err
				}
			}
			c.log.Info().Int64("sent", sess.Sent()).Msg("connection closed")
			return nil

		case chunk := <-data:
			lines, lineErr := lb.Write(chunk)
			for _, line := range lines {
				done, err := sess.HandleLine(line)
				if err != nil {
					return err
				}
				if done {
					c.log.Info().Int64("sent", sess.Sent()).Msg("program complete")
					return nil
				}
			}
			if lineErr != nil {
				c.log.Error().Err(lineErr).Msg("dropped device output")
			}
		}
	}
}
