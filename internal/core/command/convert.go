package command

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ConverterFunc turns a token into a typed value. Converters receive the
// invocation context so they can resolve values against live state and may
// block on I/O.
type ConverterFunc func(c *Context, argument string) (any, error)

// domainTypes are type names owned by the external domain model. Declaring a
// parameter with one of these requires a registered converter; there is no
// constructor fallback for them.
var domainTypes = map[string]struct{}{
	"User":    {},
	"Channel": {},
	"Guild":   {},
}

// Converters maps declared parameter type names to conversion functions.
type Converters struct {
	mu    sync.RWMutex
	byTyp map[string]ConverterFunc
}

// NewConverters returns a registry pre-populated with the primitive
// constructors.
func NewConverters() *Converters {
	c := &Converters{byTyp: make(map[string]ConverterFunc)}

	c.RegisterSimple("string", func(argument string) (any, error) {
		return argument, nil
	})
	c.RegisterSimple("int", func(argument string) (any, error) {
		return strconv.Atoi(argument)
	})
	c.RegisterSimple("int64", func(argument string) (any, error) {
		return strconv.ParseInt(argument, 10, 64)
	})
	c.RegisterSimple("uint", func(argument string) (any, error) {
		v, err := strconv.ParseUint(argument, 10, 64)
		return uint(v), err
	})
	c.RegisterSimple("float32", func(argument string) (any, error) {
		v, err := strconv.ParseFloat(argument, 32)
		return float32(v), err
	})
	c.RegisterSimple("float64", func(argument string) (any, error) {
		return strconv.ParseFloat(argument, 64)
	})
	c.RegisterSimple("duration", func(argument string) (any, error) {
		return time.ParseDuration(argument)
	})

	return c
}

// Register installs a context-aware converter for a type name, replacing any
// previous registration.
func (c *Converters) Register(typeName string, fn ConverterFunc) {
	c.mu.Lock()
	c.byTyp[typeName] = fn
	c.mu.Unlock()
}

// RegisterSimple installs a direct single-argument constructor.
func (c *Converters) RegisterSimple(typeName string, fn func(argument string) (any, error)) {
	c.Register(typeName, func(_ *Context, argument string) (any, error) {
		return fn(argument)
	})
}

var truthy = map[string]bool{"yes": true, "y": true, "true": true, "t": true, "1": true, "enable": true, "on": true}
var falsy = map[string]bool{"no": true, "n": true, "false": true, "f": true, "0": true, "disable": true, "off": true}

func toBool(argument string) (bool, error) {
	lowered := strings.ToLower(argument)
	if truthy[lowered] {
		return true, nil
	}
	if falsy[lowered] {
		return false, nil
	}
	return false, fmt.Errorf("%q is not a recognised boolean option", lowered)
}

// Convert dispatches a token to the converter for typeName. An empty type
// name means string. Conversion failures come back as BadArgumentError; a
// domain type without a registered converter is a programmer fault surfaced
// as a plain error.
func (c *Converters) Convert(ctx *Context, typeName, argument string) (any, error) {
	if typeName == "" {
		typeName = "string"
	}

	if typeName == "bool" {
		v, err := toBool(argument)
		if err != nil {
			return nil, &BadArgumentError{Argument: argument, Type: typeName, Err: err}
		}
		return v, nil
	}

	c.mu.RLock()
	fn, ok := c.byTyp[typeName]
	c.mu.RUnlock()

	if !ok {
		if _, domain := domainTypes[typeName]; domain {
			return nil, fmt.Errorf("%s does not have an associated converter", typeName)
		}
		return nil, fmt.Errorf("no converter registered for type %s", typeName)
	}

	v, err := fn(ctx, argument)
	if err != nil {
		return nil, &BadArgumentError{Argument: argument, Type: typeName, Err: err}
	}
	return v, nil
}
