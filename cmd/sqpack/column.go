package main

import "github.com/rpcpool/sqpack-go/excel"

// cellValue unwraps a decoded Column into the Go value its Kind
// discriminates, for JSON encoding (§4.12, §9: kind is preserved, not
// erased into a single string).
func cellValue(c excel.Column) interface{} {
	switch c.Kind {
	case excel.KindString:
		return c.Str
	case excel.KindInt:
		return c.Int
	case excel.KindUInt:
		return c.UInt
	case excel.KindFloat:
		return c.Float
	case excel.KindBool:
		return c.Bool
	default:
		return nil
	}
}
