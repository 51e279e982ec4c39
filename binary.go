package tunadice

import (
	"bytes"
	"io"

	"github.com/dekarrin/rezi"
)

// file binary.go gives ASTs a compact binary round-trip, the same way
// server/dao/sqlite persists a *game.State: rezi.EncBinary/DecBinary handle
// every scalar and slice field, while the Node-typed fields that rezi can't
// see through an interface for are walked by hand, one recursive call per
// child, with the NodeType tag written ahead of each node's payload so
// decoding knows which concrete variant to build.
//
// This exists for callers that want to log or replay a roll's exact AST
// (and, from it, re-run Evaluate against a fresh Source) without re-parsing
// text - useful for things like a Discord bot's audit trail of d20 library.

type nodeEncoder struct {
	buf bytes.Buffer
}

func (e *nodeEncoder) writeByte(b byte) {
	e.buf.WriteByte(b)
}

func (e *nodeEncoder) encode(v interface{}) {
	e.buf.Write(rezi.EncBinary(v))
}

type nodeDecoder struct {
	data []byte
	pos  int
}

func (d *nodeDecoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *nodeDecoder) decode(target interface{}) error {
	n, err := rezi.DecBinary(d.data[d.pos:], target)
	if err != nil {
		return err
	}
	d.pos += n
	return nil
}

// MarshalNode encodes an AST node (and everything beneath it) to a compact
// binary form.
func MarshalNode(n Node) []byte {
	enc := &nodeEncoder{}
	marshalNode(enc, n)
	return enc.buf.Bytes()
}

func marshalNode(enc *nodeEncoder, n Node) {
	enc.writeByte(byte(n.Type()))
	switch n.Type() {
	case NodeExpression:
		e := n.AsExpression()
		enc.encode(e.Comment)
		enc.encode(e.HasComment)
		marshalNode(enc, e.Roll)
	case NodeLiteral:
		l := n.AsLiteral()
		enc.encode(l.IsFloat)
		enc.encode(l.IntVal)
		enc.encode(l.FloatVal)
	case NodeParenthetical:
		p := n.AsParenthetical()
		marshalNode(enc, p.Inner)
	case NodeUnOp:
		u := n.AsUnOp()
		enc.encode(u.Op)
		marshalNode(enc, u.Operand)
	case NodeBinOp:
		b := n.AsBinOp()
		enc.encode(b.Op)
		marshalNode(enc, b.Left)
		marshalNode(enc, b.Right)
	case NodeAnnotatedNumber:
		a := n.AsAnnotatedNumber()
		enc.encode(a.Annotations)
		marshalNode(enc, a.Inner)
	case NodeNumberSet:
		s := n.AsNumberSet()
		enc.encode(len(s.Values))
		for _, v := range s.Values {
			marshalNode(enc, v)
		}
	case NodeOperatedSet:
		o := n.AsOperatedSet()
		enc.encode(len(o.Inner.Values))
		for _, v := range o.Inner.Values {
			marshalNode(enc, v)
		}
		enc.encode(o.Ops)
	case NodeDice:
		d := n.AsDice()
		enc.encode(d.Num)
		enc.encode(d.Size)
		enc.encode(d.IsPercent)
	case NodeOperatedDice:
		od := n.AsOperatedDice()
		enc.encode(od.Inner.Num)
		enc.encode(od.Inner.Size)
		enc.encode(od.Inner.IsPercent)
		enc.encode(od.Ops)
	}
}

// UnmarshalNode decodes a node previously produced by MarshalNode.
func UnmarshalNode(data []byte) (Node, error) {
	dec := &nodeDecoder{data: data}
	return unmarshalNode(dec)
}

func unmarshalNode(dec *nodeDecoder) (Node, error) {
	tagByte, err := dec.readByte()
	if err != nil {
		return nil, err
	}

	switch NodeType(tagByte) {
	case NodeExpression:
		var comment string
		var hasComment bool
		if err := dec.decode(&comment); err != nil {
			return nil, err
		}
		if err := dec.decode(&hasComment); err != nil {
			return nil, err
		}
		roll, err := unmarshalNode(dec)
		if err != nil {
			return nil, err
		}
		return ExpressionNode{Roll: roll, Comment: comment, HasComment: hasComment}, nil

	case NodeLiteral:
		var isFloat bool
		var intVal int
		var floatVal float64
		if err := dec.decode(&isFloat); err != nil {
			return nil, err
		}
		if err := dec.decode(&intVal); err != nil {
			return nil, err
		}
		if err := dec.decode(&floatVal); err != nil {
			return nil, err
		}
		return LiteralNode{IsFloat: isFloat, IntVal: intVal, FloatVal: floatVal}, nil

	case NodeParenthetical:
		inner, err := unmarshalNode(dec)
		if err != nil {
			return nil, err
		}
		return ParentheticalNode{Inner: inner}, nil

	case NodeUnOp:
		var op string
		if err := dec.decode(&op); err != nil {
			return nil, err
		}
		operand, err := unmarshalNode(dec)
		if err != nil {
			return nil, err
		}
		return UnOpNode{Op: op, Operand: operand}, nil

	case NodeBinOp:
		var op string
		if err := dec.decode(&op); err != nil {
			return nil, err
		}
		left, err := unmarshalNode(dec)
		if err != nil {
			return nil, err
		}
		right, err := unmarshalNode(dec)
		if err != nil {
			return nil, err
		}
		return BinOpNode{Left: left, Op: op, Right: right}, nil

	case NodeAnnotatedNumber:
		var anns []string
		if err := dec.decode(&anns); err != nil {
			return nil, err
		}
		inner, err := unmarshalNode(dec)
		if err != nil {
			return nil, err
		}
		return AnnotatedNumberNode{Inner: inner, Annotations: anns}, nil

	case NodeNumberSet:
		var count int
		if err := dec.decode(&count); err != nil {
			return nil, err
		}
		vals := make([]Node, count)
		for i := range vals {
			v, err := unmarshalNode(dec)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return NumberSetNode{Values: vals}, nil

	case NodeOperatedSet:
		var count int
		if err := dec.decode(&count); err != nil {
			return nil, err
		}
		vals := make([]Node, count)
		for i := range vals {
			v, err := unmarshalNode(dec)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		var ops []SetOperator
		if err := dec.decode(&ops); err != nil {
			return nil, err
		}
		return OperatedSetNode{Inner: NumberSetNode{Values: vals}, Ops: ops}, nil

	case NodeDice:
		var num, size int
		var isPercent bool
		if err := dec.decode(&num); err != nil {
			return nil, err
		}
		if err := dec.decode(&size); err != nil {
			return nil, err
		}
		if err := dec.decode(&isPercent); err != nil {
			return nil, err
		}
		return DiceNode{Num: num, Size: size, IsPercent: isPercent}, nil

	case NodeOperatedDice:
		var num, size int
		var isPercent bool
		if err := dec.decode(&num); err != nil {
			return nil, err
		}
		if err := dec.decode(&size); err != nil {
			return nil, err
		}
		if err := dec.decode(&isPercent); err != nil {
			return nil, err
		}
		var ops []SetOperator
		if err := dec.decode(&ops); err != nil {
			return nil, err
		}
		return OperatedDiceNode{Inner: DiceNode{Num: num, Size: size, IsPercent: isPercent}, Ops: ops}, nil

	default:
		return nil, newValueError("unknown node type tag %d", tagByte)
	}
}
