package command

import (
	"fmt"
	"strings"
)

// BindArguments consumes tokens from the context's lexer according to each
// declared parameter and stores the converted values on the context. The
// lexer must be positioned just after the matched command name.
func (c *Command) BindArguments(ctx *Context, conv *Converters) error {
	ctx.Args = ctx.Args[:0]
	ctx.Kwargs = make(map[string]any)

	for _, param := range c.Params {
		switch param.Kind {
		case KindPositional:
			tok, ok := ctx.Lex.Read()
			if !ok {
				v, err := resolveDefault(ctx, param)
				if err != nil {
					return err
				}
				ctx.Args = append(ctx.Args, v)
				continue
			}
			v, err := conv.Convert(ctx, param.Type, tok)
			if err != nil {
				return err
			}
			ctx.Args = append(ctx.Args, v)

		case KindConsumeRest:
			rest := strings.Join(ctx.Lex.Rest(), " ")
			if rest == "" {
				v, err := resolveDefault(ctx, param)
				if err != nil {
					return err
				}
				ctx.Kwargs[param.Name] = v
				continue
			}
			v, err := conv.Convert(ctx, param.Type, rest)
			if err != nil {
				return err
			}
			ctx.Kwargs[param.Name] = v

		case KindVarPositional:
			for {
				tok, ok := ctx.Lex.Read()
				if !ok {
					break
				}
				v, err := conv.Convert(ctx, param.Type, tok)
				if err != nil {
					return err
				}
				ctx.Args = append(ctx.Args, v)
			}

		case KindVarKeywordPairs:
			pairs := make(map[string]any)
			for {
				tok, ok := ctx.Lex.Read()
				if !ok {
					break
				}
				if strings.Count(tok, "=") != 1 {
					return &BadArgumentError{
						Argument: tok,
						Type:     "key=value",
						Err:      fmt.Errorf("expected exactly one = in %q", tok),
					}
				}
				rawKey, rawVal, _ := strings.Cut(tok, "=")
				key, err := conv.Convert(ctx, param.KeyType, rawKey)
				if err != nil {
					return err
				}
				val, err := conv.Convert(ctx, param.ValueType, rawVal)
				if err != nil {
					return err
				}
				pairs[fmt.Sprint(key)] = val
			}
			ctx.Kwargs[param.Name] = pairs
		}
	}
	return nil
}

// resolveDefault applies the clean default contract: a literal is used as-is,
// a provider is always invoked with the context.
func resolveDefault(ctx *Context, param Parameter) (any, error) {
	if !param.HasDefault {
		return nil, &MissingRequiredArgumentError{Param: param.Name}
	}
	if param.DefaultFunc != nil {
		v, err := param.DefaultFunc(ctx)
		if err != nil {
			return nil, &BadArgumentError{
				Argument: "",
				Type:     param.Type,
				Err:      fmt.Errorf("default provider for %s failed: %w", param.Name, err),
			}
		}
		return v, nil
	}
	return param.Default, nil
}
