package acceptors

import (
	"errors"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity_PassesThrough(t *testing.T) {
	acc := Identity()

	value, err := acc.ValidateAndConvert("anything at all")
	require.NoError(t, err)
	require.Equal(t, "anything at all", value)
}

func TestPattern_MatchesEntireInput(t *testing.T) {
	acc := Pattern("digits", regexp.MustCompile(`^\d+$`), func(captures ...string) (any, error) {
		return strconv.Atoi(captures[0])
	})

	value, err := acc.ValidateAndConvert("12")
	require.NoError(t, err)
	require.Equal(t, 12, value)

	_, err = acc.ValidateAndConvert("12a")
	var accErr *AcceptanceError
	require.ErrorAs(t, err, &accErr)
	require.Equal(t, "12a", accErr.Input)
	require.Equal(t, "digits", accErr.Acceptor)
}

func TestPattern_AnchorsUnanchoredExpressions(t *testing.T) {
	acc := Pattern("word", regexp.MustCompile(`foo|bar`), nil)

	_, err := acc.ValidateAndConvert("foobar")
	require.Error(t, err)

	value, err := acc.ValidateAndConvert("foo")
	require.NoError(t, err)
	require.Equal(t, "foo", value)
}

func TestPattern_PassesCapturesToConverter(t *testing.T) {
	acc := Pattern("pair", regexp.MustCompile(`^(\w+)=(\w+)$`), func(captures ...string) (any, error) {
		require.Len(t, captures, 3)
		return captures[2], nil
	})

	value, err := acc.ValidateAndConvert("key=val")
	require.NoError(t, err)
	require.Equal(t, "val", value)
}

func TestPattern_ConverterErrorBecomesAcceptanceError(t *testing.T) {
	acc := Pattern("never", regexp.MustCompile(`^.*$`), func(...string) (any, error) {
		return nil, errors.New("out of range")
	})

	_, err := acc.ValidateAndConvert("x")
	var accErr *AcceptanceError
	require.ErrorAs(t, err, &accErr)
	require.Contains(t, accErr.Error(), "out of range")
}

func TestEnum_AcceptsExactFormsOnly(t *testing.T) {
	acc := Enum("color", "red", "green", "blue")

	for _, form := range []string{"red", "green", "blue"} {
		value, err := acc.ValidateAndConvert(form)
		require.NoError(t, err)
		require.Equal(t, form, value)
	}

	_, err := acc.ValidateAndConvert("Red")
	var accErr *AcceptanceError
	require.ErrorAs(t, err, &accErr)
	require.Contains(t, accErr.Error(), "red, green, blue")
}
