// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"
	"fmt"

	"github.com/near/borsh-go"

	errorsmod "cosmossdk.io/errors"

	"github.com/ava-labs/hyperamm/pool"
	"github.com/ava-labs/hyperamm/types"
)

var (
	ErrDuplicateInstruction = errors.New("duplicate instruction")
	ErrUnregisteredAction   = errors.New("action is not registered")
)

// argsCodec is implemented by actions whose instruction layout differs from
// their borsh struct encoding.
type argsCodec interface {
	marshalArgs() ([]byte, error)
	unmarshalArgs([]byte) error
}

type instruction struct {
	name          string
	discriminator [pool.DiscriminatorLen]byte
	encode        func(Action) ([]byte, error)
	decode        func([]byte) (Action, error)
}

// Parser maps instruction data to actions. Instruction data is the 8 byte
// discriminator of the instruction name followed by the borsh encoding of the
// action.
type Parser struct {
	byDiscriminator map[[pool.DiscriminatorLen]byte]*instruction
	byType          map[string]*instruction
}

func NewParser() *Parser {
	return &Parser{
		byDiscriminator: map[[pool.DiscriminatorLen]byte]*instruction{},
		byType:          map[string]*instruction{},
	}
}

func register[T any, PT interface {
	*T
	Action
}](p *Parser, name string) error {
	var zero PT
	k := fmt.Sprintf("%T", zero)
	if _, ok := p.byType[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateInstruction, name)
	}
	ins := &instruction{
		name:          name,
		discriminator: pool.Discriminator("global", name),
		encode: func(a Action) ([]byte, error) {
			v, ok := a.(PT)
			if !ok {
				return nil, fmt.Errorf("%w: %T", ErrUnregisteredAction, a)
			}
			if c, ok := any(v).(argsCodec); ok {
				return c.marshalArgs()
			}
			return borsh.Serialize(*v)
		},
		decode: func(b []byte) (Action, error) {
			a := PT(new(T))
			if c, ok := any(a).(argsCodec); ok {
				if err := c.unmarshalArgs(b); err != nil {
					return nil, err
				}
				return a, nil
			}
			if err := borsh.Deserialize(a, b); err != nil {
				return nil, err
			}
			return a, nil
		},
	}
	if _, ok := p.byDiscriminator[ins.discriminator]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateInstruction, name)
	}
	p.byType[k] = ins
	p.byDiscriminator[ins.discriminator] = ins
	return nil
}

// DefaultParser knows every pool program and token instruction.
func DefaultParser() (*Parser, error) {
	p := NewParser()
	for _, f := range []func(*Parser) error{
		func(p *Parser) error { return register[Initialize](p, "initialize") },
		func(p *Parser) error { return register[Deposit](p, "deposit") },
		func(p *Parser) error { return register[Withdraw](p, "withdraw") },
		func(p *Parser) error { return register[Swap](p, "swap") },
		func(p *Parser) error { return register[SetLocked](p, "set_locked") },
		func(p *Parser) error { return register[CreateMint](p, "create_mint") },
		func(p *Parser) error { return register[MintTo](p, "mint_to") },
	} {
		if err := f(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Name returns the instruction name [a] is registered under.
func (p *Parser) Name(a Action) (string, bool) {
	ins, ok := p.byType[fmt.Sprintf("%T", a)]
	if !ok {
		return "", false
	}
	return ins.name, true
}

func (p *Parser) Marshal(a Action) ([]byte, error) {
	ins, ok := p.byType[fmt.Sprintf("%T", a)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnregisteredAction, a)
	}
	v, err := ins.encode(a)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, pool.DiscriminatorLen+len(v))
	b = append(b, ins.discriminator[:]...)
	return append(b, v...), nil
}

func (p *Parser) Unmarshal(b []byte) (Action, error) {
	if len(b) < pool.DiscriminatorLen {
		return nil, errorsmod.Wrapf(types.ErrUnknownInstruction, "instruction data is %d bytes", len(b))
	}
	var d [pool.DiscriminatorLen]byte
	copy(d[:], b)
	ins, ok := p.byDiscriminator[d]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrUnknownInstruction, "discriminator %x", d)
	}
	a, err := ins.decode(b[pool.DiscriminatorLen:])
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrUnknownInstruction, "%s: %v", ins.name, err)
	}
	return a, nil
}
