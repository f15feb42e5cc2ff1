package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"bots/world"
)

// maxFrame guards against reading a corrupt length prefix as a huge
// allocation.
const maxFrame = 16 << 20

// Player replays a recording. The first recorded snapshot is current as
// soon as the player is opened; every Step moves to the next one and returns
// io.EOF after the last.
type Player struct {
	r       *bufio.Reader
	closer  io.Closer
	current *world.Snapshot
	buf     []byte
	frames  uint64
}

func NewPlayer(r io.Reader) (*Player, error) {
	p := &Player{r: bufio.NewReader(r)}
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(p.r, header); err != nil || string(header) != magic {
		return nil, errors.New("not a bots recording")
	}
	first, err := p.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty recording")
		}
		return nil, err
	}
	p.current = first
	return p, nil
}

func Open(path string) (*Player, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, world.NewStartupError(world.KindEngine, path, err)
	}
	p, err := NewPlayer(file)
	if err != nil {
		file.Close()
		return nil, world.NewStartupError(world.KindEngine, path, err)
	}
	p.closer = file
	return p, nil
}

func (p *Player) next() (*world.Snapshot, error) {
	size, err := binary.ReadUvarint(p.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("frame %d: %w", p.frames, err)
	}
	if size > maxFrame {
		return nil, fmt.Errorf("frame %d: size %d exceeds limit", p.frames, size)
	}
	if uint64(cap(p.buf)) < size {
		p.buf = make([]byte, size)
	}
	p.buf = p.buf[:size]
	if _, err := io.ReadFull(p.r, p.buf); err != nil {
		return nil, fmt.Errorf("frame %d: %w", p.frames, io.ErrUnexpectedEOF)
	}
	s, err := world.SnapshotFromProto(p.buf)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", p.frames, err)
	}
	p.frames++
	return s, nil
}

func (p *Player) Step() error {
	s, err := p.next()
	if err != nil {
		return err
	}
	p.current = s
	return nil
}

func (p *Player) BotCount() int {
	return p.current.Len()
}

func (p *Player) Pose(i int) world.Pose {
	return p.current.Poses[i]
}

// Current is the snapshot being played, with the tick it was recorded at.
func (p *Player) Current() *world.Snapshot {
	return p.current
}

func (p *Player) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
