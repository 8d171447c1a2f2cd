package script

import (
	"fmt"
	"math"

	"github.com/Shopify/go-lua"

	"github.com/kumoworks/kumo/internal/level"
	"github.com/kumoworks/kumo/internal/savegame"
)

// pushValue converts a Go value onto the Lua stack. Native engine
// entities are pushed as liveness-checked handles through the bridge;
// plain data maps to the matching Lua type. Values with no sensible Lua
// shape become their string form.
func (s *Session) pushValue(v any) {
	l := s.l
	switch val := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(val)
	case int:
		l.PushInteger(val)
	case int64:
		l.PushNumber(float64(val))
	case float64:
		l.PushNumber(val)
	case string:
		l.PushString(val)
	case []any:
		l.CreateTable(len(val), 0)
		for i, item := range val {
			s.pushValue(item)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.CreateTable(0, len(val))
		for k, item := range val {
			s.pushValue(item)
			l.SetField(-2, k)
		}
	case level.ReturnEntry:
		l.CreateTable(0, 2)
		l.PushString(val.Level)
		l.SetField(-2, "level")
		l.PushString(val.Entry)
		l.SetField(-2, "entry")
	case *savegame.Savegame:
		s.bridge.Push(l, classLevel, val)
	case *level.Player:
		s.bridge.Push(l, classPlayer, val)
	case *level.Hud:
		s.bridge.Push(l, classHud, val)
	case *level.SecretArea:
		s.bridge.Push(l, classSecretArea, val)
	case *level.Beetle:
		s.bridge.Push(l, classBeetle, val)
	default:
		l.PushString(fmt.Sprint(val))
	}
}

// toGoValue converts the Lua value at index into a Go value.
func (s *Session) toGoValue(index int) any {
	l := s.l
	switch l.TypeOf(index) {
	case lua.TypeString:
		value, _ := l.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := l.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return s.tableToGo(index)
	case lua.TypeUserData:
		return l.ToUserData(index)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to either a []any (for dense 1-based
// arrays) or a map[string]any.
func (s *Session) tableToGo(index int) any {
	l := s.l
	index = l.AbsIndex(index)

	isArray := true
	maxIndex := 0
	count := 0
	l.PushNil()
	for l.Next(index) {
		if isArray {
			if l.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := l.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		l.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			l.RawGetInt(index, i)
			result = append(result, s.toGoValue(-1))
			l.Pop(1)
		}
		return result
	}

	return s.tableToMap(index)
}

// tableToMap converts a Lua table's string-keyed entries into a Go map.
// Non-string keys are stringified so script data never silently vanishes
// on the way to the savegame.
func (s *Session) tableToMap(index int) map[string]any {
	l := s.l
	index = l.AbsIndex(index)

	output := map[string]any{}
	l.PushNil()
	for l.Next(index) {
		var key string
		switch l.TypeOf(-2) {
		case lua.TypeString:
			key, _ = l.ToString(-2)
		case lua.TypeNumber:
			n, _ := l.ToNumber(-2)
			key = fmt.Sprint(normalizeNumber(n))
		default:
			l.Pop(1)
			continue
		}
		output[key] = s.toGoValue(-1)
		l.Pop(1)
	}
	return output
}

// normalizeNumber turns whole numbers into ints so they round-trip
// through the savegame JSON without a fractional part. Magnitudes
// outside the int range stay float64: converting those would overflow.
func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && value >= math.MinInt64 && value < math.MaxInt64 {
		return int(value)
	}
	return value
}
