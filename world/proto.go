package world

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire layout, compatible with:
//
//	message Pose     { sint32 x = 1; sint32 y = 2; uint32 heading = 3; uint32 turret = 4; }
//	message Snapshot { uint64 tick = 1; repeated Pose poses = 2; }
const (
	poseX       protowire.Number = 1
	poseY       protowire.Number = 2
	poseHeading protowire.Number = 3
	poseTurret  protowire.Number = 4

	snapshotTick  protowire.Number = 1
	snapshotPoses protowire.Number = 2
)

func (p *Pose) AppendProto(b []byte) []byte {
	if p.X != 0 {
		b = protowire.AppendTag(b, poseX, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(p.X)))
	}
	if p.Y != 0 {
		b = protowire.AppendTag(b, poseY, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(p.Y)))
	}
	if p.Heading != 0 {
		b = protowire.AppendTag(b, poseHeading, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(p.Heading))
	}
	if p.Turret != 0 {
		b = protowire.AppendTag(b, poseTurret, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(p.Turret))
	}
	return b
}

func PoseFromProto(b []byte) (Pose, error) {
	var p Pose
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case poseX:
			p.X = int32(protowire.DecodeZigZag(v))
		case poseY:
			p.Y = int32(protowire.DecodeZigZag(v))
		case poseHeading:
			p.Heading = uint32(v)
		case poseTurret:
			p.Turret = uint32(v)
		}
	}
	return p, nil
}

func (s *Snapshot) AppendProto(b []byte) []byte {
	if s.Tick != 0 {
		b = protowire.AppendTag(b, snapshotTick, protowire.VarintType)
		b = protowire.AppendVarint(b, s.Tick)
	}
	var pose []byte
	for i := range s.Poses {
		pose = s.Poses[i].AppendProto(pose[:0])
		b = protowire.AppendTag(b, snapshotPoses, protowire.BytesType)
		b = protowire.AppendBytes(b, pose)
	}
	return b
}

func (s *Snapshot) ToProto() []byte {
	return s.AppendProto(nil)
}

func SnapshotFromProto(b []byte) (*Snapshot, error) {
	s := &Snapshot{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == snapshotTick && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			s.Tick = v
			b = b[n:]
		case num == snapshotPoses && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			pose, err := PoseFromProto(v)
			if err != nil {
				return nil, fmt.Errorf("pose %d: %w", len(s.Poses), err)
			}
			s.Poses = append(s.Poses, pose)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return s, nil
}
