// Package contentstream reads and writes PDF content streams: a small
// operator processor used to interpret default appearance strings, and a
// Canvas that emits the operators of widget appearance streams.
package contentstream

import (
	"context"
	"fmt"
	"strconv"
)

// Operand is a single operand preceding an operator.
type Operand interface{ Type() string }

// NumberOperand is a numeric operand.
type NumberOperand struct{ Value float64 }

// NameOperand is a name operand without the leading slash.
type NameOperand struct{ Value string }

// StringOperand is a decoded string operand.
type StringOperand struct{ Value []byte }

func (NumberOperand) Type() string { return "number" }
func (NameOperand) Type() string   { return "name" }
func (StringOperand) Type() string { return "string" }

// OperatorHandler receives the operands of one operator.
type OperatorHandler interface {
	Handle(op string, operands []Operand) error
}

// HandlerFunc adapts a function to OperatorHandler.
type HandlerFunc func(op string, operands []Operand) error

func (f HandlerFunc) Handle(op string, operands []Operand) error { return f(op, operands) }

// Processor dispatches the operators of a content stream to registered
// handlers. Operators without a handler are skipped with their operands.
type Processor interface {
	Process(ctx context.Context, stream []byte) error
	RegisterHandler(op string, h OperatorHandler)
}

type simpleProcessor struct{ handlers map[string]OperatorHandler }

// NewProcessor returns a processor without handlers.
func NewProcessor() Processor {
	return &simpleProcessor{handlers: make(map[string]OperatorHandler)}
}

func (p *simpleProcessor) RegisterHandler(op string, h OperatorHandler) { p.handlers[op] = h }

func (p *simpleProcessor) Process(ctx context.Context, stream []byte) error {
	var operands []Operand
	for _, tok := range tokenize(stream) {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch tok.kind {
		case tokNumber:
			v, _ := strconv.ParseFloat(tok.text, 64)
			operands = append(operands, NumberOperand{Value: v})
		case tokName:
			operands = append(operands, NameOperand{Value: tok.text})
		case tokString:
			operands = append(operands, StringOperand{Value: tok.data})
		case tokDelim:
			// arrays and dictionaries are not interpreted
		case tokOperator:
			if h, ok := p.handlers[tok.text]; ok {
				if err := h.Handle(tok.text, operands); err != nil {
					return fmt.Errorf("operator %s: %w", tok.text, err)
				}
			}
			operands = operands[:0]
		}
	}
	return nil
}
