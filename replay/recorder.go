// Package replay records published snapshots to a file and plays them back
// as a sim.Engine.
//
// A recording is a magic line followed by length-prefixed Snapshot messages
// in protobuf wire format.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"bots/world"

	"google.golang.org/protobuf/encoding/protowire"
)

const magic = "bots-replay-1\n"

type Recorder struct {
	w      *bufio.Writer
	closer io.Closer
	buf    []byte
	header []byte
	count  uint64
}

func NewRecorder(w io.Writer) (*Recorder, error) {
	r := &Recorder{w: bufio.NewWriter(w)}
	if _, err := r.w.WriteString(magic); err != nil {
		return nil, err
	}
	return r, nil
}

// Create truncates path and starts a recording in it.
func Create(path string) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file
	return r, nil
}

// Record appends s. It is called from the simulation goroutine only.
func (r *Recorder) Record(s *world.Snapshot) error {
	r.buf = s.AppendProto(r.buf[:0])
	r.header = protowire.AppendVarint(r.header[:0], uint64(len(r.buf)))
	if _, err := r.w.Write(r.header); err != nil {
		return err
	}
	if _, err := r.w.Write(r.buf); err != nil {
		return err
	}
	r.count++
	return nil
}

// Count is the number of snapshots recorded.
func (r *Recorder) Count() uint64 {
	return r.count
}

func (r *Recorder) Close() error {
	if err := r.w.Flush(); err != nil {
		if r.closer != nil {
			r.closer.Close()
		}
		return fmt.Errorf("flush recording: %w", err)
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
