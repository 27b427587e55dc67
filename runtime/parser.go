package cbor

import (
	"encoding/binary"
	"errors"
)

var be = binary.BigEndian

// breakByte is the header of the break marker (major type 7, addInfo 31).
var breakByte = makeByte(majorTypeSimple, simpleBreak)

// errStorageFull is raised inside a parse when the descriptor table has no
// room left. Parse reports it as ErrOverrun.
var errStorageFull = errors.New("cbor: item storage full")

// Parser turns a buffered CBOR message into a flat table of Item
// descriptors. A Parser keeps a cursor into its message so a parse that runs
// out of storage can be resumed with fresh storage.
//
// A Parser must not be used from more than one goroutine at a time.
type Parser struct {
	msg      []byte
	pos      int
	maxDepth int

	items []Item
	n     int
	count bool // count descriptors without storing them
	depth int
	brk   bool // the last item recorded was a break marker
}

// NewParser constructs a Parser over msg with the default depth limit.
func NewParser(msg []byte) *Parser {
	return &Parser{msg: msg, maxDepth: DefaultMaxDepth}
}

// SetMaxDepth configures how deeply arrays, maps and indefinite strings may
// nest. Values below one restore DefaultMaxDepth.
func (p *Parser) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = DefaultMaxDepth
	}
	p.maxDepth = depth
}

// Remaining returns the unparsed portion of the message.
func (p *Parser) Remaining() []byte { return p.msg[p.pos:] }

// Offset returns the cursor position within the message.
func (p *Parser) Offset() int { return p.pos }

// Parse writes descriptors for the next items of the message into items and
// returns how many were written. Top-level items are parsed in sequence until
// the message or the storage is exhausted.
//
// The error is nil when the whole message was consumed, ErrBreak when the
// last byte consumed was a break marker, and ErrOverrun when items filled up
// first. Running out of storage keeps every descriptor already written, even
// when it stops inside an array, map or indefinite string: the cursor rests
// just past the last recorded item, and the next call to Parse continues
// with the remaining children as top-level items. Concatenating the results
// of successive calls gives the same table as one call with enough storage.
// Any other error is fatal and is wrapped in an OffsetError.
func (p *Parser) Parse(items []Item) (int, error) {
	p.items = items
	p.n = 0
	p.depth = 0
	p.brk = false

	for p.pos < len(p.msg) {
		if !p.count && p.n >= len(p.items) {
			return p.n, ErrOverrun
		}
		err := p.parseItem()
		switch {
		case err == nil:
		case errors.Is(err, ErrBreak):
			// stray top-level break, recorded and skipped
		case err == errStorageFull:
			return p.n, ErrOverrun
		default:
			return p.n, err
		}
	}
	if p.brk {
		return p.n, ErrBreak
	}
	return p.n, nil
}

// Parse is a one-shot parse of msg into items using the default depth limit.
func Parse(msg []byte, items []Item) (int, error) {
	p := Parser{msg: msg, maxDepth: DefaultMaxDepth}
	return p.Parse(items)
}

// ItemCount returns how many descriptors Parse would write for msg, so
// storage can be sized up front. A message ending in a break marker is not
// an error here.
func ItemCount(msg []byte) (int, error) {
	p := Parser{msg: msg, maxDepth: DefaultMaxDepth}
	return p.Count()
}

// Count is ItemCount for the unparsed rest of the message, under the
// parser's own depth limit. The cursor does not move.
func (p *Parser) Count() (int, error) {
	c := Parser{msg: p.msg, pos: p.pos, maxDepth: p.maxDepth, count: true}
	n, err := c.Parse(nil)
	if err == ErrBreak {
		err = nil
	}
	return n, err
}

func (p *Parser) record(t Type, offset, size int) error {
	p.brk = size == BreakSize && t == FloatType
	if p.count {
		p.n++
		return nil
	}
	if p.n >= len(p.items) {
		return errStorageFull
	}
	p.items[p.n] = Item{Type: t, Offset: offset, Size: size}
	p.n++
	return nil
}

func (p *Parser) fail(offset int, err error) error {
	return OffsetError{Offset: offset, Err: err}
}

// enter bumps the nesting depth for the item whose header is at offset.
func (p *Parser) enter(offset int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.fail(offset, ErrExcessive)
	}
	return nil
}

// argument returns the value carried by the header at the cursor: the
// embedded addInfo, or the big-endian following bytes.
func (p *Parser) argument(addInfo uint8, following int) uint64 {
	b := p.msg[p.pos+1:]
	switch following {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(be.Uint16(b))
	case 4:
		return uint64(be.Uint32(b))
	case 8:
		return be.Uint64(b)
	default:
		return uint64(addInfo)
	}
}

// parseItem records the item at the cursor, including all of its children.
// It returns ErrBreak after recording a break marker.
func (p *Parser) parseItem() error {
	if p.pos >= len(p.msg) {
		return p.fail(p.pos, ErrIllegal)
	}
	lead := p.msg[p.pos]
	major := getMajorType(lead)
	addInfo := getAddInfo(lead)
	following := followingBytes(addInfo)

	if following == reservedFollowing {
		return p.fail(p.pos, ErrIllegal)
	}
	if following > len(p.msg)-p.pos-1 {
		return p.fail(p.pos, ErrIllegal)
	}

	switch major {
	case majorTypeUint, majorTypeNegInt:
		if following == indefiniteFollowing {
			return p.fail(p.pos, ErrIllegal)
		}
		if err := p.record(IntegerType, p.pos+1, following); err != nil {
			return err
		}
		p.pos += 1 + following
		return nil

	case majorTypeBytes, majorTypeText:
		if following == indefiniteFollowing {
			return p.parseIndefiniteString(major)
		}
		return p.parseString(addInfo, following)

	case majorTypeArray, majorTypeMap:
		return p.parseContainer(major, addInfo, following)

	case majorTypeTag:
		return p.fail(p.pos, ErrInvalid)

	default: // majorTypeSimple
		if following == indefiniteFollowing {
			if err := p.record(FloatType, p.pos+1, BreakSize); err != nil {
				return err
			}
			p.pos++
			return ErrBreak
		}
		if following <= 1 {
			// codes below 24 are embedded in the header; Size is 1 either way
			if err := p.record(SimpleType, p.pos+1, 1); err != nil {
				return err
			}
		} else if err := p.record(FloatType, p.pos+1, following); err != nil {
			return err
		}
		p.pos += 1 + following
		return nil
	}
}

func (p *Parser) parseString(addInfo uint8, following int) error {
	start := p.pos
	length := p.argument(addInfo, following)
	payload := p.pos + 1 + following
	if length > uint64(len(p.msg)-payload) {
		return p.fail(start, ErrIllegal)
	}
	if err := p.record(StringType, payload, int(length)); err != nil {
		return err
	}
	p.pos = payload + int(length)
	return nil
}

// parseIndefiniteString records the string header followed by one item per
// definite chunk and the closing break.
func (p *Parser) parseIndefiniteString(major uint8) error {
	start := p.pos
	if err := p.enter(start); err != nil {
		return err
	}
	defer func() { p.depth-- }()

	if err := p.record(StringType, p.pos+1, IndefiniteSize); err != nil {
		return err
	}
	p.pos++

	for {
		if p.pos >= len(p.msg) {
			return p.fail(start, ErrIllegal)
		}
		lead := p.msg[p.pos]
		if lead == breakByte {
			return p.recordBreak()
		}
		if getMajorType(lead) != major || getAddInfo(lead) == addInfoIndefinite {
			return p.fail(p.pos, ErrIllegal)
		}
		if err := p.parseItem(); err != nil {
			return err
		}
	}
}

func (p *Parser) parseContainer(major, addInfo uint8, following int) error {
	start := p.pos
	if err := p.enter(start); err != nil {
		return err
	}
	defer func() { p.depth-- }()

	t := ArrayType
	if major == majorTypeMap {
		t = MapType
	}

	if following == indefiniteFollowing {
		if err := p.record(t, p.pos+1, IndefiniteSize); err != nil {
			return err
		}
		p.pos++
		for children := 0; ; children++ {
			if p.pos >= len(p.msg) {
				return p.fail(start, ErrIllegal)
			}
			if p.msg[p.pos] == breakByte {
				if t == MapType && children%2 != 0 {
					return p.fail(p.pos, ErrIllegal)
				}
				return p.recordBreak()
			}
			if err := p.parseItem(); err != nil {
				return err
			}
		}
	}

	count := p.argument(addInfo, following)
	payload := p.pos + 1 + following
	remaining := uint64(len(p.msg) - payload)
	// every child takes at least one byte
	if count > remaining || (t == MapType && count*2 > remaining) {
		return p.fail(start, ErrIllegal)
	}
	children := int(count)
	if t == MapType {
		children *= 2
	}
	if err := p.record(t, payload, children); err != nil {
		return err
	}
	p.pos = payload

	for i := 0; i < children; i++ {
		if p.pos >= len(p.msg) {
			return p.fail(start, ErrIllegal)
		}
		if p.msg[p.pos] == breakByte {
			return p.fail(p.pos, ErrIllegal)
		}
		if err := p.parseItem(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) recordBreak() error {
	if err := p.record(FloatType, p.pos+1, BreakSize); err != nil {
		return err
	}
	p.pos++
	return nil
}
