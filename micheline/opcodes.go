// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPrimitive is returned for primitive names or tags that are not
// part of the registry.
var ErrUnknownPrimitive = errors.New("micheline: unknown primitive")

type OpCode byte

func (op OpCode) Byte() byte {
	return byte(op)
}

// Michelson V1 Primitives
const (
	// Keys
	K_PARAMETER OpCode = iota // 00
	K_STORAGE                 // 01
	K_CODE                    // 02

	// Data
	D_FALSE // 03
	D_ELT   // 04
	D_LEFT  // 05
	D_NONE  // 06
	D_PAIR  // 07
	D_RIGHT // 08
	D_SOME  // 09
	D_TRUE  // 0A
	D_UNIT  // 0B

	// instructions
	I_PACK             // 0C
	I_UNPACK           // 0D
	I_BLAKE2B          // 0E
	I_SHA256           // 0F
	I_SHA512           // 10
	I_ABS              // 11
	I_ADD              // 12
	I_AMOUNT           // 13
	I_AND              // 14
	I_BALANCE          // 15
	I_CAR              // 16
	I_CDR              // 17
	I_CHECK_SIGNATURE  // 18
	I_COMPARE          // 19
	I_CONCAT           // 1A
	I_CONS             // 1B
	I_CREATE_ACCOUNT   // 1C
	I_CREATE_CONTRACT  // 1D
	I_IMPLICIT_ACCOUNT // 1E
	I_DIP              // 1F
	I_DROP             // 20
	I_DUP              // 21
	I_EDIV             // 22
	I_EMPTY_MAP        // 23
	I_EMPTY_SET        // 24
	I_EQ               // 25
	I_EXEC             // 26
	I_FAILWITH         // 27
	I_GE               // 28
	I_GET              // 29
	I_GT               // 2A
	I_HASH_KEY         // 2B
	I_IF               // 2C
	I_IF_CONS          // 2D
	I_IF_LEFT          // 2E
	I_IF_NONE          // 2F
	I_INT              // 30
	I_LAMBDA           // 31
	I_LE               // 32
	I_LEFT             // 33
	I_LOOP             // 34
	I_LSL              // 35
	I_LSR              // 36
	I_LT               // 37
	I_MAP              // 38
	I_MEM              // 39
	I_MUL              // 3A
	I_NEG              // 3B
	I_NEQ              // 3C
	I_NIL              // 3D
	I_NONE             // 3E
	I_NOT              // 3F
	I_NOW              // 40
	I_OR               // 41
	I_PAIR             // 42
	I_PUSH             // 43
	I_RIGHT            // 44
	I_SIZE             // 45
	I_SOME             // 46
	I_SOURCE           // 47
	I_SENDER           // 48
	I_SELF             // 49
	I_STEPS_TO_QUOTA   // 4A
	I_SUB              // 4B
	I_SWAP             // 4C
	I_TRANSFER_TOKENS  // 4D
	I_SET_DELEGATE     // 4E
	I_UNIT             // 4F
	I_UPDATE           // 50
	I_XOR              // 51
	I_ITER             // 52
	I_LOOP_LEFT        // 53
	I_ADDRESS          // 54
	I_CONTRACT         // 55
	I_ISNAT            // 56
	I_CAST             // 57
	I_RENAME           // 58

	// Types
	T_BOOL      // 59
	T_CONTRACT  // 5A
	T_INT       // 5B
	T_KEY       // 5C
	T_KEY_HASH  // 5D
	T_LAMBDA    // 5E
	T_LIST      // 5F
	T_MAP       // 60
	T_BIG_MAP   // 61
	T_NAT       // 62
	T_OPTION    // 63
	T_OR        // 64
	T_PAIR      // 65
	T_SET       // 66
	T_SIGNATURE // 67
	T_STRING    // 68
	T_BYTES     // 69
	T_MUTEZ     // 6A
	T_TIMESTAMP // 6B
	T_UNIT      // 6C
	T_OPERATION // 6D
	T_ADDRESS   // 6E

	// v002 addition
	I_SLICE // 6F

	// v005 addition
	// https://blog.nomadic-labs.com/michelson-updates-in-005.html
	I_DIG           // 70
	I_DUG           // 71
	I_EMPTY_BIG_MAP // 72
	I_APPLY         // 73
	T_CHAIN_ID      // 74
	I_CHAIN_ID      // 75

	// v008 additions
	I_LEVEL                 // 76
	I_SELF_ADDRESS          // 77
	T_NEVER                 // 78
	I_NEVER                 // 79
	I_UNPAIR                // 7A
	I_VOTING_POWER          // 7B
	I_TOTAL_VOTING_POWER    // 7C
	I_KECCAK                // 7D
	I_SHA3                  // 7E
	I_PAIRING_CHECK         // 7F
	T_BLS12_381_G1          // 80
	T_BLS12_381_G2          // 81
	T_BLS12_381_FR          // 82
	T_SAPLING_STATE         // 83
	T_SAPLING_TRANSACTION_D // 84
	I_SAPLING_EMPTY_STATE   // 85
	I_SAPLING_VERIFY_UPDATE // 86
	T_TICKET                // 87
	I_TICKET_DEPRECATED     // 88
	I_READ_TICKET           // 89
	I_SPLIT_TICKET          // 8A
	I_JOIN_TICKETS          // 8B
	I_GET_AND_UPDATE        // 8C

	// v011 additions
	T_CHEST      // 8D
	T_CHEST_KEY  // 8E
	I_OPEN_CHEST // 8F
	I_VIEW       // 90
	K_VIEW       // 91
	H_CONSTANT   // 92

	// v012 additions
	I_SUB_MUTEZ // 93

	// v013 additions
	T_TX_ROLLUP_L2_ADDRESS // 94
	I_MIN_BLOCK_TIME       // 95
	T_SAPLING_TRANSACTION  // 96

	// v014 additions
	I_EMIT // 97

	// v015 additions
	D_LAMBDA_REC // 98
	I_LAMBDA_REC // 99
	I_TICKET     // 9A

	// v016 additions
	I_BYTES // 9B
	I_NAT   // 9C

	// v017 additions
	D_TICKET // 9D

	opCodeLimit
)

// Category is a bit set of primitive roles.
type Category byte

const (
	CategoryData Category = 1 << iota
	CategoryInstruction
	CategoryType
	CategoryComparableType
)

func (c Category) String() string {
	var s string
	for _, v := range []struct {
		c Category
		n string
	}{
		{CategoryData, "data"},
		{CategoryInstruction, "instruction"},
		{CategoryType, "type"},
		{CategoryComparableType, "comparable"},
	} {
		if c&v.c == 0 {
			continue
		}
		if s != "" {
			s += ","
		}
		s += v.n
	}
	return s
}

type primEntry struct {
	name string
	op   OpCode
}

var dataPrims = []primEntry{
	{"False", D_FALSE},
	{"Elt", D_ELT},
	{"Left", D_LEFT},
	{"None", D_NONE},
	{"Pair", D_PAIR},
	{"Right", D_RIGHT},
	{"Some", D_SOME},
	{"True", D_TRUE},
	{"Unit", D_UNIT},
	{"constant", H_CONSTANT},
	{"Lambda_rec", D_LAMBDA_REC},
	{"Ticket", D_TICKET},
}

var instructionPrims = []primEntry{
	{"PACK", I_PACK},
	{"UNPACK", I_UNPACK},
	{"BLAKE2B", I_BLAKE2B},
	{"SHA256", I_SHA256},
	{"SHA512", I_SHA512},
	{"ABS", I_ABS},
	{"ADD", I_ADD},
	{"AMOUNT", I_AMOUNT},
	{"AND", I_AND},
	{"BALANCE", I_BALANCE},
	{"CAR", I_CAR},
	{"CDR", I_CDR},
	{"CHECK_SIGNATURE", I_CHECK_SIGNATURE},
	{"COMPARE", I_COMPARE},
	{"CONCAT", I_CONCAT},
	{"CONS", I_CONS},
	{"CREATE_ACCOUNT", I_CREATE_ACCOUNT},
	{"CREATE_CONTRACT", I_CREATE_CONTRACT},
	{"IMPLICIT_ACCOUNT", I_IMPLICIT_ACCOUNT},
	{"DIP", I_DIP},
	{"DROP", I_DROP},
	{"DUP", I_DUP},
	{"EDIV", I_EDIV},
	{"EMPTY_MAP", I_EMPTY_MAP},
	{"EMPTY_SET", I_EMPTY_SET},
	{"EQ", I_EQ},
	{"EXEC", I_EXEC},
	{"FAILWITH", I_FAILWITH},
	{"GE", I_GE},
	{"GET", I_GET},
	{"GT", I_GT},
	{"HASH_KEY", I_HASH_KEY},
	{"IF", I_IF},
	{"IF_CONS", I_IF_CONS},
	{"IF_LEFT", I_IF_LEFT},
	{"IF_NONE", I_IF_NONE},
	{"INT", I_INT},
	{"LAMBDA", I_LAMBDA},
	{"LE", I_LE},
	{"LEFT", I_LEFT},
	{"LOOP", I_LOOP},
	{"LSL", I_LSL},
	{"LSR", I_LSR},
	{"LT", I_LT},
	{"MAP", I_MAP},
	{"MEM", I_MEM},
	{"MUL", I_MUL},
	{"NEG", I_NEG},
	{"NEQ", I_NEQ},
	{"NIL", I_NIL},
	{"NONE", I_NONE},
	{"NOT", I_NOT},
	{"NOW", I_NOW},
	{"OR", I_OR},
	{"PAIR", I_PAIR},
	{"PUSH", I_PUSH},
	{"RIGHT", I_RIGHT},
	{"SIZE", I_SIZE},
	{"SOME", I_SOME},
	{"SOURCE", I_SOURCE},
	{"SENDER", I_SENDER},
	{"SELF", I_SELF},
	{"STEPS_TO_QUOTA", I_STEPS_TO_QUOTA},
	{"SUB", I_SUB},
	{"SWAP", I_SWAP},
	{"TRANSFER_TOKENS", I_TRANSFER_TOKENS},
	{"SET_DELEGATE", I_SET_DELEGATE},
	{"UNIT", I_UNIT},
	{"UPDATE", I_UPDATE},
	{"XOR", I_XOR},
	{"ITER", I_ITER},
	{"LOOP_LEFT", I_LOOP_LEFT},
	{"ADDRESS", I_ADDRESS},
	{"CONTRACT", I_CONTRACT},
	{"ISNAT", I_ISNAT},
	{"CAST", I_CAST},
	{"RENAME", I_RENAME},
	{"SLICE", I_SLICE},
	{"DIG", I_DIG},
	{"DUG", I_DUG},
	{"EMPTY_BIG_MAP", I_EMPTY_BIG_MAP},
	{"APPLY", I_APPLY},
	{"CHAIN_ID", I_CHAIN_ID},
	{"LEVEL", I_LEVEL},
	{"SELF_ADDRESS", I_SELF_ADDRESS},
	{"NEVER", I_NEVER},
	{"UNPAIR", I_UNPAIR},
	{"VOTING_POWER", I_VOTING_POWER},
	{"TOTAL_VOTING_POWER", I_TOTAL_VOTING_POWER},
	{"KECCAK", I_KECCAK},
	{"SHA3", I_SHA3},
	{"PAIRING_CHECK", I_PAIRING_CHECK},
	{"SAPLING_EMPTY_STATE", I_SAPLING_EMPTY_STATE},
	{"SAPLING_VERIFY_UPDATE", I_SAPLING_VERIFY_UPDATE},
	{"TICKET_DEPRECATED", I_TICKET_DEPRECATED},
	{"READ_TICKET", I_READ_TICKET},
	{"SPLIT_TICKET", I_SPLIT_TICKET},
	{"JOIN_TICKETS", I_JOIN_TICKETS},
	{"GET_AND_UPDATE", I_GET_AND_UPDATE},
	{"OPEN_CHEST", I_OPEN_CHEST},
	{"VIEW", I_VIEW},
	{"SUB_MUTEZ", I_SUB_MUTEZ},
	{"MIN_BLOCK_TIME", I_MIN_BLOCK_TIME},
	{"EMIT", I_EMIT},
	{"LAMBDA_REC", I_LAMBDA_REC},
	{"TICKET", I_TICKET},
	{"BYTES", I_BYTES},
	{"NAT", I_NAT},
}

// script section keywords are listed with types
var typePrims = []primEntry{
	{"parameter", K_PARAMETER},
	{"storage", K_STORAGE},
	{"code", K_CODE},
	{"view", K_VIEW},
	{"contract", T_CONTRACT},
	{"lambda", T_LAMBDA},
	{"list", T_LIST},
	{"map", T_MAP},
	{"big_map", T_BIG_MAP},
	{"option", T_OPTION},
	{"or", T_OR},
	{"pair", T_PAIR},
	{"set", T_SET},
	{"operation", T_OPERATION},
	{"bls12_381_g1", T_BLS12_381_G1},
	{"bls12_381_g2", T_BLS12_381_G2},
	{"bls12_381_fr", T_BLS12_381_FR},
	{"sapling_state", T_SAPLING_STATE},
	{"sapling_transaction_deprecated", T_SAPLING_TRANSACTION_D},
	{"ticket", T_TICKET},
	{"chest", T_CHEST},
	{"chest_key", T_CHEST_KEY},
	{"sapling_transaction", T_SAPLING_TRANSACTION},
}

// option, or and pair are comparable when their arguments are
var comparableTypePrims = []primEntry{
	{"unit", T_UNIT},
	{"never", T_NEVER},
	{"bool", T_BOOL},
	{"int", T_INT},
	{"nat", T_NAT},
	{"string", T_STRING},
	{"chain_id", T_CHAIN_ID},
	{"bytes", T_BYTES},
	{"mutez", T_MUTEZ},
	{"key_hash", T_KEY_HASH},
	{"key", T_KEY},
	{"signature", T_SIGNATURE},
	{"timestamp", T_TIMESTAMP},
	{"address", T_ADDRESS},
	{"tx_rollup_l2_address", T_TX_ROLLUP_L2_ADDRESS},
	{"option", T_OPTION},
	{"or", T_OR},
	{"pair", T_PAIR},
}

var (
	opCodeToString = make(map[OpCode]string)
	stringToOp     = make(map[string]OpCode)
	opCategories   [256]Category
)

func init() {
	registerPrims(CategoryData, dataPrims)
	registerPrims(CategoryInstruction, instructionPrims)
	registerPrims(CategoryType, typePrims)
	registerPrims(CategoryComparableType, comparableTypePrims)
}

func registerPrims(cat Category, entries []primEntry) {
	for _, e := range entries {
		if name, ok := opCodeToString[e.op]; ok && name != e.name {
			panic(fmt.Errorf("micheline: tag 0x%02x registered as %q and %q", byte(e.op), name, e.name))
		}
		if op, ok := stringToOp[e.name]; ok && op != e.op {
			panic(fmt.Errorf("micheline: primitive %q registered as 0x%02x and 0x%02x", e.name, byte(op), byte(e.op)))
		}
		opCodeToString[e.op] = e.name
		stringToOp[e.name] = e.op
		opCategories[e.op] |= cat
	}
}

func (op OpCode) IsValid() bool {
	_, ok := opCodeToString[op]
	return ok
}

func (op OpCode) String() string {
	str, ok := opCodeToString[op]
	if !ok {
		return fmt.Sprintf("unknown_0x%02x", byte(op))
	}
	return str
}

func (op OpCode) MarshalText() ([]byte, error) {
	if !op.IsValid() {
		return nil, fmt.Errorf("%w 0x%02x", ErrUnknownPrimitive, byte(op))
	}
	return []byte(op.String()), nil
}

func (op *OpCode) UnmarshalText(data []byte) error {
	o, err := ParseOpCode(string(data))
	if err != nil {
		return err
	}
	*op = o
	return nil
}

// ParseOpCode looks up a primitive by its case-sensitive name.
func ParseOpCode(str string) (OpCode, error) {
	op, ok := stringToOp[str]
	if !ok {
		return 255, fmt.Errorf("%w %q", ErrUnknownPrimitive, str)
	}
	return op, nil
}

// ParseOpCodeTag looks up a primitive by its binary tag.
func ParseOpCodeTag(b byte) (OpCode, error) {
	op := OpCode(b)
	if !op.IsValid() {
		return 255, fmt.Errorf("%w 0x%02x", ErrUnknownPrimitive, b)
	}
	return op, nil
}

// OpCodes returns all registered primitives ordered by tag.
func OpCodes() []OpCode {
	ops := make([]OpCode, 0, len(opCodeToString))
	for op := range opCodeToString {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

func (op OpCode) Categories() Category {
	return opCategories[op]
}

func (op OpCode) IsData() bool {
	return op.Categories()&CategoryData > 0
}

func (op OpCode) IsInstruction() bool {
	return op.Categories()&CategoryInstruction > 0
}

// IsType reports whether op is a type constructor. Script section keywords
// are excluded.
func (op OpCode) IsType() bool {
	return op.Categories()&(CategoryType|CategoryComparableType) > 0 && !op.IsKeyword()
}

func (op OpCode) IsComparable() bool {
	return op.Categories()&CategoryComparableType > 0
}

// IsKeyword reports script section keywords.
func (op OpCode) IsKeyword() bool {
	switch op {
	case K_PARAMETER, K_STORAGE, K_CODE, K_VIEW:
		return true
	default:
		return false
	}
}

// Type returns the type constructor matching a data constructor.
func (op OpCode) Type() OpCode {
	if op.IsType() {
		return op
	}
	switch op {
	case K_PARAMETER, K_STORAGE, K_CODE, K_VIEW, D_UNIT:
		return T_UNIT
	case D_FALSE, D_TRUE:
		return T_BOOL
	case D_LEFT, D_RIGHT:
		return T_OR
	case D_NONE, D_SOME:
		return T_OPTION
	case D_PAIR:
		return T_PAIR
	case D_ELT:
		return T_MAP // may also be T_BIG_MAP
	case D_LAMBDA_REC:
		return T_LAMBDA
	case D_TICKET:
		return T_TICKET
	default:
		return T_OPERATION
	}
}
