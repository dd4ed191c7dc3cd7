package chain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CoerceArgs converts loosely typed values (CLI strings, Go ints, *big.Int,
// addresses) into the exact Go types the ABI encoder expects for args.
func CoerceArgs(args abi.Arguments, params []any) ([]any, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(args), len(params))
	}
	out := make([]any, len(params))
	for i, arg := range args {
		v, err := coerce(arg.Type, params[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, arg.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func coerce(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		return toAddress(v)
	case abi.BoolTy:
		return toBool(v)
	case abi.StringTy:
		switch x := v.(type) {
		case string:
			return x, nil
		case fmt.Stringer:
			return x.String(), nil
		}
		return nil, fmt.Errorf("cannot use %T as string", v)
	case abi.IntTy, abi.UintTy:
		n, err := toBig(v)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)
	case abi.BytesTy:
		return toBytes(v)
	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, v)
	}
	return v, nil
}

func coerceList(t abi.Type, v any) (any, error) {
	var items []any
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) != "" {
			for _, part := range strings.Split(x, ",") {
				items = append(items, strings.TrimSpace(part))
			}
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("cannot use %T as list", v)
		}
		for i := 0; i < rv.Len(); i++ {
			items = append(items, rv.Index(i).Interface())
		}
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		if len(items) != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
		}
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}
	for i, item := range items {
		elem, err := coerce(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

func toAddress(v any) (common.Address, error) {
	switch x := v.(type) {
	case common.Address:
		return x, nil
	case *common.Address:
		if x == nil {
			return common.Address{}, fmt.Errorf("nil address")
		}
		return *x, nil
	case string:
		if !common.IsHexAddress(x) {
			return common.Address{}, fmt.Errorf("invalid address %q", x)
		}
		return common.HexToAddress(x), nil
	}
	return common.Address{}, fmt.Errorf("cannot use %T as address", v)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(x)
	}
	return false, fmt.Errorf("cannot use %T as bool", v)
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case common.Hash:
		return x.Bytes(), nil
	case string:
		return hexutil.Decode(x)
	}
	return nil, fmt.Errorf("cannot use %T as bytes", v)
}

func toBig(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(x), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", x)
		}
		return n, nil
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	}
	return nil, fmt.Errorf("cannot use %T as integer", v)
}

// fitInteger returns n in the Go type go-ethereum packs for t: native ints up
// to 64 bits, *big.Int above that.
func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for unsigned type", n)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size))
	if t.T == abi.IntTy {
		limit.Rsh(limit, 1)
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s overflows int%d", n, t.Size)
		}
	} else if n.Cmp(limit) >= 0 {
		return nil, fmt.Errorf("value %s overflows uint%d", n, t.Size)
	}

	if t.Size > 64 {
		return n, nil
	}
	if t.T == abi.UintTy {
		u := n.Uint64()
		switch t.Size {
		case 8:
			return uint8(u), nil
		case 16:
			return uint16(u), nil
		case 32:
			return uint32(u), nil
		case 64:
			return u, nil
		}
	} else {
		i := n.Int64()
		switch t.Size {
		case 8:
			return int8(i), nil
		case 16:
			return int16(i), nil
		case 32:
			return int32(i), nil
		case 64:
			return i, nil
		}
	}
	// odd widths such as uint24 are packed from *big.Int
	return n, nil
}

// ToUint64 converts a decoded numeric output to uint64
func ToUint64(v any) (uint64, error) {
	n, err := toBig(v)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || n.BitLen() > 64 {
		return 0, fmt.Errorf("value %s out of range", n)
	}
	return n.Uint64(), nil
}
