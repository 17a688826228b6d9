package command

import (
	"context"
	"errors"
	"testing"

	"cmdbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindContext builds a context whose lexer holds only the argument portion of
// a message, the state BindArguments expects.
func bindContext(args string) *Context {
	c := NewContext(context.Background(), nil, &domain.Message{Content: args})
	c.Lex = NewLexer(args)
	return c
}

func TestBindConsumeRestJoinsTokens(t *testing.T) {
	cmd := mustBuild(t, New("echo", noopHandler).Rest("text", "string"))
	ctx := bindContext("hello world")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, "hello world", ctx.Kwargs["text"])
	assert.Empty(t, ctx.Args)
}

func TestBindPositionalInts(t *testing.T) {
	cmd := mustBuild(t, New("add", noopHandler).
		Positional("a", "int").
		Positional("b", "int"))
	ctx := bindContext("2 3")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, []any{2, 3}, ctx.Args)
}

func TestBindMissingRequiredArgument(t *testing.T) {
	cmd := mustBuild(t, New("add", noopHandler).
		Positional("a", "int").
		Positional("b", "int"))
	ctx := bindContext("2")

	err := cmd.BindArguments(ctx, NewConverters())

	var missing *MissingRequiredArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "b", missing.Param)
}

func TestBindBadArgumentStopsBinding(t *testing.T) {
	cmd := mustBuild(t, New("add", noopHandler).
		Positional("a", "int").
		Positional("b", "int"))
	ctx := bindContext("two 3")

	err := cmd.BindArguments(ctx, NewConverters())

	var badArg *BadArgumentError
	require.ErrorAs(t, err, &badArg)
	assert.Equal(t, "two", badArg.Argument)
	assert.Equal(t, "int", badArg.Type)
}

func TestBindLiteralDefault(t *testing.T) {
	cmd := mustBuild(t, New("roll", noopHandler).
		PositionalDefault("sides", "int", 6))
	ctx := bindContext("")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, []any{6}, ctx.Args)
}

func TestBindDefaultFuncReceivesContext(t *testing.T) {
	cmd := mustBuild(t, New("whoami", noopHandler).
		PositionalDefaultFunc("user", "string", func(c *Context) (any, error) {
			return c.Message.Author.ID, nil
		}))

	ctx := NewContext(context.Background(), nil, &domain.Message{
		Author: domain.User{ID: "u-1"},
	})
	ctx.Lex = NewLexer("")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, []any{"u-1"}, ctx.Args)
}

func TestBindDefaultFuncFailure(t *testing.T) {
	cmd := mustBuild(t, New("whoami", noopHandler).
		PositionalDefaultFunc("user", "string", func(_ *Context) (any, error) {
			return nil, errors.New("lookup failed")
		}))
	ctx := bindContext("")

	err := cmd.BindArguments(ctx, NewConverters())

	var badArg *BadArgumentError
	require.ErrorAs(t, err, &badArg)
}

func TestBindRestDefault(t *testing.T) {
	cmd := mustBuild(t, New("say", noopHandler).
		RestDefault("text", "string", "nothing to say"))
	ctx := bindContext("")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, "nothing to say", ctx.Kwargs["text"])
}

func TestBindVariadic(t *testing.T) {
	cmd := mustBuild(t, New("sum", noopHandler).Variadic("ns", "int"))
	ctx := bindContext("1 2 3")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, []any{1, 2, 3}, ctx.Args)
}

func TestBindVariadicEmpty(t *testing.T) {
	cmd := mustBuild(t, New("sum", noopHandler).Variadic("ns", "int"))
	ctx := bindContext("")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Empty(t, ctx.Args)
}

func TestBindKeywordPairs(t *testing.T) {
	cmd := mustBuild(t, New("set", noopHandler).
		KeywordPairs("opts", "string", "string"))
	ctx := bindContext("a=1 b=2")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, ctx.Kwargs["opts"])
}

func TestBindKeywordPairsTypedValues(t *testing.T) {
	cmd := mustBuild(t, New("set", noopHandler).
		KeywordPairs("opts", "string", "int"))
	ctx := bindContext("x=10 y=20")

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, map[string]any{"x": 10, "y": 20}, ctx.Kwargs["opts"])
}

func TestBindKeywordPairsRejectsBareToken(t *testing.T) {
	cmd := mustBuild(t, New("set", noopHandler).
		KeywordPairs("opts", "string", "string"))
	ctx := bindContext("a=1 c")

	err := cmd.BindArguments(ctx, NewConverters())

	var badArg *BadArgumentError
	require.ErrorAs(t, err, &badArg)
	assert.Equal(t, "c", badArg.Argument)
	assert.Equal(t, "key=value", badArg.Type)
}

func TestBindKeywordPairsRejectsDoubleEquals(t *testing.T) {
	cmd := mustBuild(t, New("set", noopHandler).
		KeywordPairs("opts", "string", "string"))
	ctx := bindContext("a=1=2")

	err := cmd.BindArguments(ctx, NewConverters())

	var badArg *BadArgumentError
	require.ErrorAs(t, err, &badArg)
}

func TestBindQuotedArgument(t *testing.T) {
	cmd := mustBuild(t, New("greet", noopHandler).
		Positional("name", "string").
		Positional("greeting", "string"))
	ctx := bindContext(`"John Doe" hello`)

	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))

	assert.Equal(t, []any{"John Doe", "hello"}, ctx.Args)
}

func TestBindResetsPreviousState(t *testing.T) {
	cmd := mustBuild(t, New("add", noopHandler).Positional("a", "int"))

	ctx := bindContext("1")
	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))
	require.Equal(t, []any{1}, ctx.Args)

	ctx.Lex = NewLexer("2")
	require.NoError(t, cmd.BindArguments(ctx, NewConverters()))
	assert.Equal(t, []any{2}, ctx.Args)
}
